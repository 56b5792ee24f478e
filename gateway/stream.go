package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const sseDataPrefix = "data: "

// streamBoard sends the board as one SSE event, then another after every
// change until the client goes away.
func (g *Gateway) streamBoard(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return c.String(http.StatusInternalServerError, "stream unsupported")
	}
	ctx := c.Request().Context()
	ch, release := g.board.Subscribe()
	defer release()
	for {
		data, err := g.snapshotJSON()
		if err != nil {
			g.logger.WithField("error", err).Error("encode board event")
			return err
		}
		if _, err := c.Response().Write([]byte(sseDataPrefix)); err != nil {
			return nil
		}
		if _, err := c.Response().Write(data); err != nil {
			return nil
		}
		if _, err := c.Response().Write([]byte("\n\n")); err != nil {
			return nil
		}
		flusher.Flush()
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
		}
	}
}

// boardSocket pushes the same events as streamBoard over a WebSocket. Client
// messages are ignored. Cross-origin handshakes must match the CORS origins.
func (g *Gateway) boardSocket(c echo.Context) error {
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: g.origins,
	})
	if err != nil {
		g.logger.WithField("error", err).Warn("websocket upgrade failed")
		return nil
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := conn.CloseRead(c.Request().Context())
	ch, release := g.board.Subscribe()
	defer release()
	for {
		data, err := g.snapshotJSON()
		if err != nil {
			g.logger.WithField("error", err).Error("encode board event")
			return nil
		}
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err = conn.Write(wctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			g.logger.WithFields(log.Fields{"error": err}).Debug("websocket client gone")
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
		}
	}
}

// originHosts turns CORS origins into the host patterns websocket.Accept
// matches against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, origin := range origins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
			continue
		}
		hosts = append(hosts, origin)
	}
	return hosts
}
