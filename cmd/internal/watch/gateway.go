package watch

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"

	"porter/cmd/internal/auth/session"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsCloseGrace   = time.Second
)

// Gateway upgrades authenticated requests to a WebSocket and streams auth
// events. The same session cookie that gates the dashboard gates the stream;
// an absent or dead session is rejected before the upgrade.
type Gateway struct {
	log        *slog.Logger
	hub        *Hub
	sessions   *session.Manager
	cookieName string
}

// NewGateway constructs a Gateway.
func NewGateway(log *slog.Logger, hub *Hub, sessions *session.Manager, cookieName string) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{log: log, hub: hub, sessions: sessions, cookieName: cookieName}
}

// ServeHTTP adapter so the gateway can be mounted as an http.Handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.HandleWS(w, r)
}

// HandleWS authenticates the request, upgrades it, and streams events until
// the client disconnects or the server shuts down.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	email, ok := g.authenticate(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		g.log.Info("watch.accept.fail", "err", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	g.log.Info("watch.subscribe", "email", email, "remote", r.RemoteAddr)

	events, cancel := g.hub.Subscribe()
	defer cancel()

	ctx := r.Context()

	// Reads are discarded; their only purpose is to notice the client
	// closing the socket.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusGoingAway, "server shutdown")
			return
		case <-readDone:
			return
		case ev, open := <-events:
			if !open {
				conn.Close(websocket.StatusGoingAway, "hub closed")
				return
			}
			if err := g.writeEvent(ctx, conn, ev); err != nil {
				if !errors.Is(err, context.Canceled) {
					g.log.Info("watch.write.fail", "err", err)
				}
				return
			}
		}
	}
}

func (g *Gateway) writeEvent(ctx context.Context, conn *websocket.Conn, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(wctx, websocket.MessageText, b)
}

func (g *Gateway) authenticate(r *http.Request) (string, bool) {
	if g.sessions == nil {
		return "", false
	}
	c, err := r.Cookie(g.cookieName)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return "", false
	}
	email, err := g.sessions.Resolve(r.Context(), time.Now().UTC(), c.Value)
	if err != nil {
		return "", false
	}
	return email, true
}
