package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/delivery-fare/pkg/logger"
	wrap "github.com/Temutjin2k/delivery-fare/pkg/logger/wrapper"
	"github.com/Temutjin2k/delivery-fare/pkg/uuid"
	ws "github.com/Temutjin2k/delivery-fare/pkg/wsHub"
)

const pingEvery = 30 * time.Second

// FareFeed streams computed fares to admin consoles.
type FareFeed struct {
	hub      *ws.ConnectionHub
	upgrader websocket.Upgrader
	l        logger.Logger
}

func NewFareFeed(hub *ws.ConnectionHub, l logger.Logger) *FareFeed {
	return &FareFeed{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		l: l,
	}
}

// HandleWS godoc
// @Summary      Live fare feed
// @Description  Upgrades to a websocket that receives every fare computed by the worker
// @Tags         Fares
// @Security     BearerAuth
// @Success      101
// @Router       /ws/fares [get]
func (h *FareFeed) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "fare_feed_connect")

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		h.l.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	id, err := uuid.New()
	if err != nil {
		h.l.Error(ctx, "failed to generate connection id", err)
		_ = raw.Close()
		return
	}

	conn := ws.NewConn(context.WithoutCancel(ctx), id, raw)
	if err := h.hub.Add(conn); err != nil {
		h.l.Error(ctx, "failed to register websocket", err)
		_ = conn.Close()
		return
	}

	h.l.Info(ctx, "fare feed subscriber connected", "conn_id", conn.ID().String())

	go h.keepAlive(conn)

	// клиент ничего не шлёт, читаем только чтобы заметить закрытие
	err = conn.Listen(func(map[string]any) error { return nil })
	h.l.Debug(ctx, "fare feed subscriber gone", "conn_id", conn.ID().String(), "reason", errString(err))
	_ = h.hub.Delete(conn.ID())
}

func (h *FareFeed) keepAlive(conn *ws.Conn) {
	t := time.NewTicker(pingEvery)
	defer t.Stop()

	for {
		select {
		case <-conn.Done():
			return
		case <-t.C:
			if err := conn.Health(); err != nil {
				_ = h.hub.Delete(conn.ID())
				return
			}
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
