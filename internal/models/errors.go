package models

import "errors"

// Application-wide standard errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidPlayerID  = errors.New("invalid player id")
	ErrInvalidInput     = errors.New("invalid input data")
	ErrMissionNotFound  = errors.New("mission not found")
	ErrRevisionConflict = errors.New("profile was modified concurrently")
)
