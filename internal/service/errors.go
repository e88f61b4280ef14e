package service

import "errors"

var (
	ErrEmptyCommand = errors.New("command is empty")
	ErrUnknownStep  = errors.New("step does not belong to mission")
	// ErrTooManyConflicts — профиль слишком часто меняется параллельно.
	ErrTooManyConflicts = errors.New("profile update conflicted too many times")
)
