package gameapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/beka-birhanu/glade/api/identity"
	"github.com/beka-birhanu/glade/game"
	"github.com/beka-birhanu/glade/service"
	"github.com/beka-birhanu/glade/service/i"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
	storeTimeout     = 3 * time.Second
)

// Controller serves game sessions, run history and leaderboards.
type Controller struct {
	sessions    i.GameSessionManager
	runs        i.RunRepo
	leaderboard i.Leaderboard
	upgrader    *websocket.Upgrader
	logger      game.Logger
}

// Config holds the dependencies of a Controller.
type Config struct {
	Sessions    i.GameSessionManager
	Runs        i.RunRepo
	Leaderboard i.Leaderboard
	Logger      game.Logger
}

// NewController creates a game controller.
func NewController(c *Config) (*Controller, error) {
	if c.Sessions == nil || c.Runs == nil || c.Leaderboard == nil {
		return nil, errors.New("game controller needs sessions, runs and leaderboard")
	}
	if c.Logger == nil {
		return nil, errors.New("game controller needs a logger")
	}

	return &Controller{
		sessions:    c.Sessions,
		runs:        c.Runs,
		leaderboard: c.Leaderboard,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Clients authenticate with a token, not cookies.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: c.Logger,
	}, nil
}

// RegisterPublic registers public routes.
func (c *Controller) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/leaderboard/:difficulty", c.topEscapes)
}

// RegisterProtected registers privileged routes.
func (c *Controller) RegisterProtected(route *gin.RouterGroup) {
	sessions := route.Group("/sessions")
	{
		sessions.POST("", c.start)
		sessions.GET("/current", c.current)
		sessions.POST("/current/moves", c.move)
		sessions.POST("/current/restart", c.restart)
		sessions.DELETE("/current", c.close)
		sessions.GET("/current/stream", c.stream)
	}
	route.GET("/runs", c.history)
}

func (c *Controller) start(ctx *gin.Context) {
	player, ok := identity.PlayerFrom(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	var request StartRequest
	if err := bindOptionalJSON(ctx, &request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := c.sessions.Start(player, request.Difficulty, request.Seed)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, toSessionResponse(state))
}

func (c *Controller) current(ctx *gin.Context) {
	player, ok := identity.PlayerFrom(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	state, err := c.sessions.Current(player.ID)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toSessionResponse(state))
}

func (c *Controller) move(ctx *gin.Context) {
	player, ok := identity.PlayerFrom(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	var request MoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, state, err := c.sessions.Move(player.ID, request.Direction)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, MoveResponse{
		Accepted:     result.Accepted,
		Victory:      result.Victory,
		EnteredGlade: result.EnteredGlade,
		LeftGlade:    result.LeftGlade,
		Session:      toSessionResponse(state),
	})
}

func (c *Controller) restart(ctx *gin.Context) {
	player, ok := identity.PlayerFrom(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	var request StartRequest
	if err := bindOptionalJSON(ctx, &request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := c.sessions.Restart(player.ID, request.Difficulty, request.Seed)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toSessionResponse(state))
}

func (c *Controller) close(ctx *gin.Context) {
	player, ok := identity.PlayerFrom(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	if err := c.sessions.Close(player.ID); err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *Controller) history(ctx *gin.Context) {
	player, ok := identity.PlayerFrom(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	limit, err := listLimit(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runs, err := c.runs.ByUser(player.ID, limit)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	response := make([]RunResponse, len(runs))
	for idx, r := range runs {
		response[idx] = toRunResponse(r)
	}
	ctx.JSON(http.StatusOK, response)
}

func (c *Controller) topEscapes(ctx *gin.Context) {
	limit, err := listLimit(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	difficulty := ctx.Param("difficulty")
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	entries, err := c.leaderboard.Top(reqCtx, difficulty, int64(limit))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	total, err := c.leaderboard.Count(reqCtx, difficulty)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, LeaderboardResponse{Difficulty: difficulty, Total: total, Entries: entries})
}

// fail maps service errors to HTTP statuses.
func (c *Controller) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoSession):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrUnknownDifficulty):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.logger.Error(fmt.Sprintf("%s %s: %v", ctx.Request.Method, ctx.FullPath(), err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindOptionalJSON binds the body when there is one.
func bindOptionalJSON(ctx *gin.Context, obj any) error {
	if ctx.Request.ContentLength == 0 {
		return nil
	}
	return ctx.ShouldBindJSON(obj)
}

func listLimit(ctx *gin.Context) (int, error) {
	raw := ctx.Query("limit")
	if raw == "" {
		return defaultListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return min(limit, maxListLimit), nil
}
