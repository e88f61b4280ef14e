package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hack-adventure/internal/models"
)

// GameService — то, что HTTP-слою нужно от игрового сервиса.
type GameService interface {
	Execute(ctx context.Context, playerID, command string, args []string) (*models.CommandResponse, error)
	SubmitMissionStep(ctx context.Context, playerID, missionID, stepID string) (*models.CommandResponse, error)
	GetProfile(ctx context.Context, playerID string) (*models.PlayerProfile, error)
	ListMissions(ctx context.Context, playerID string) ([]models.MissionView, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	BadgeStats(ctx context.Context) ([]models.BadgeStat, error)
	AsciiArt(name string) (string, error)
}

type GameHandler struct {
	service GameService
	logger  *zap.Logger
}

func NewGameHandler(svc GameService, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		service: svc,
		logger:  logger.Named("GameHandler"),
	}
}

func (h *GameHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		players := api.Group("/players/:player_id")
		players.POST("/commands", h.executeCommand)
		players.GET("/profile", h.getProfile)
		players.GET("/missions", h.listMissions)
		players.POST("/missions/:mission_id/steps", h.submitMissionStep)

		api.GET("/leaderboard", h.getLeaderboard)
		api.GET("/stats/badges", h.getBadgeStats)
		api.GET("/ascii/:name", h.getAsciiArt)
	}
}

// executeCommand выполняет команду терминала. Неизвестная команда — это
// обычный ответ 200 с success=false.
func (h *GameHandler) executeCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Execute(c.Request.Context(), c.Param("player_id"), req.Command, req.Args)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GameHandler) submitMissionStep(c *gin.Context) {
	var req missionStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.SubmitMissionStep(c.Request.Context(), c.Param("player_id"), c.Param("mission_id"), req.Step)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GameHandler) getProfile(c *gin.Context) {
	p, err := h.service.GetProfile(c.Request.Context(), c.Param("player_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(p))
}

func (h *GameHandler) listMissions(c *gin.Context) {
	missions, err := h.service.ListMissions(c.Request.Context(), c.Param("player_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, missions)
}

func (h *GameHandler) getLeaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			badRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.service.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *GameHandler) getBadgeStats(c *gin.Context) {
	stats, err := h.service.BadgeStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *GameHandler) getAsciiArt(c *gin.Context) {
	name := c.Param("name")
	art, err := h.service.AsciiArt(name)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, asciiResponse{Name: name, Art: art})
}

func toProfileResponse(p *models.PlayerProfile) profileResponse {
	return profileResponse{
		PlayerID:          p.PlayerID,
		Score:             p.Score,
		XP:                p.XP,
		Level:             p.Level,
		Badges:            p.Badges.List(),
		SkillLevels:       p.SkillLevels,
		MissionsCompleted: p.MissionsCompleted.List(),
		ActiveMissions:    p.ActiveMissions.List(),
		EtapesCompleted:   p.EtapesCompleted,
		TutorialStep:      p.TutorialStep,
		TutorialCompleted: p.TutorialCompleted,
		ObjetsSymboliques: p.ObjetsSymboliques.List(),
		Personnalite:      string(p.Personnalite),
	}
}
