// Package gateway exposes the board store over HTTP so a drag-and-drop UI can
// drive it, and pushes every board change over SSE and WebSocket.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/Jupiter-12/kanban/client"
	"github.com/Jupiter-12/kanban/domain"
)

// Board is the part of board.Store the gateway drives.
type Board interface {
	Current() *domain.ProjectDetail
	Loading() bool
	Subscribe() (<-chan struct{}, func())
	LoadProject(ctx context.Context, id int64) error
	MoveTask(ctx context.Context, taskID, sourceColumnID, targetColumnID int64, newPosition int) error
	ReorderColumns(ctx context.Context, columnIDs []int64) error
	CreateColumn(ctx context.Context, req domain.ColumnCreate) error
	UpdateColumn(ctx context.Context, id int64, req domain.ColumnUpdate) error
	DeleteColumn(ctx context.Context, id int64) error
	CreateTask(ctx context.Context, columnID int64, req domain.TaskCreate) error
	UpdateTask(ctx context.Context, id int64, req domain.TaskUpdate) error
	DeleteTask(ctx context.Context, id int64) error
}

// Visibility is implemented by polling.Poller.
type Visibility interface {
	SetHidden(hidden bool)
	IsPolling() bool
	IsPaused() bool
}

const writeTimeout = 5 * time.Second

// Gateway serializes every store call behind one mutex; the store itself is
// single-actor.
type Gateway struct {
	mu      sync.Mutex
	board   Board
	poller  Visibility
	logger  *log.Logger
	origins []string
}

func New(board Board, logger *log.Logger) *Gateway {
	if board == nil {
		panic("gateway.New: board is nil")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Gateway{board: board, logger: logger}
}

// SetPoller attaches the poller whose visibility the UI reports.
func (g *Gateway) SetPoller(p Visibility) {
	g.poller = p
}

// Reload refetches the open project. It is the poller's callback.
func (g *Gateway) Reload(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	project := g.board.Current()
	if project == nil {
		return nil
	}
	return g.board.LoadProject(ctx, project.ID)
}

// NewEcho builds the HTTP server with the gateway routes and middleware.
func NewEcho(g *Gateway, allowOrigins []string) *echo.Echo {
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	g.origins = originHosts(allowOrigins)
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.HTTPErrorHandler = g.handleError
	e.Use(middleware.Recover())
	e.Use(requestLogger(g.logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(GzipRequestMiddleware())
	g.Register(e)
	return e
}

// Register wires up all gateway routes on the provided Echo instance.
func (g *Gateway) Register(e *echo.Echo) {
	e.GET("/healthz", g.healthz)

	api := e.Group("/api")
	api.GET("/board", g.getBoard)
	api.POST("/board/load", g.loadBoard)
	api.GET("/board/stream", g.streamBoard)
	api.GET("/board/ws", g.boardSocket)
	api.PUT("/board/tasks/:id/move", g.moveTask)
	api.PUT("/board/columns/reorder", g.reorderColumns)

	api.POST("/board/columns", g.createColumn)
	api.PATCH("/board/columns/:id", g.updateColumn)
	api.DELETE("/board/columns/:id", g.deleteColumn)
	api.POST("/board/columns/:id/tasks", g.createTask)
	api.PATCH("/board/tasks/:id", g.updateTask)
	api.DELETE("/board/tasks/:id", g.deleteTask)

	api.GET("/poller", g.pollerState)
	api.PUT("/poller/visibility", g.setVisibility)
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// fail answers with the service's status for API errors and 502 otherwise.
func (g *Gateway) fail(c echo.Context, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.StatusCode, errorResponse{Detail: apiErr.Detail})
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return c.JSON(http.StatusGatewayTimeout, errorResponse{Detail: err.Error()})
	}
	g.logger.WithFields(log.Fields{
		"path":  c.Path(),
		"error": err,
	}).Error("board request failed")
	return c.JSON(http.StatusBadGateway, errorResponse{Detail: err.Error()})
}

func (g *Gateway) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	detail := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		detail = http.StatusText(status)
		if msg, ok := he.Message.(string); ok {
			detail = msg
		}
	} else {
		g.logger.WithField("error", err).Error("unhandled gateway error")
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, errorResponse{Detail: detail})
}

type boardResponse struct {
	Project *domain.ProjectDetail `json:"project"`
	Loading bool                  `json:"loading"`
}

func (g *Gateway) snapshotLocked() boardResponse {
	return boardResponse{Project: g.board.Current(), Loading: g.board.Loading()}
}

// snapshotJSON encodes the board under the lock so the tree cannot change
// mid-encode.
func (g *Gateway) snapshotJSON() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return sonic.ConfigStd.Marshal(g.snapshotLocked())
}
