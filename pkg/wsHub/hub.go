package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/delivery-fare/pkg/logger"
	wrap "github.com/Temutjin2k/delivery-fare/pkg/logger/wrapper"
	"github.com/Temutjin2k/delivery-fare/pkg/uuid"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// ConnectionHub хранит и управляет всеми активными WebSocket соединениями
type ConnectionHub struct {
	clients map[uuid.UUID]*Conn
	l       logger.Logger
	mu      sync.Mutex
	wg      sync.WaitGroup

	// OnChange is called with the number of live connections after Add / Delete.
	OnChange func(n int)
}

func NewConnHub(l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		clients: make(map[uuid.UUID]*Conn),
		l:       l,
	}
}

// Add добавляет новое соединение в хаб.
// Если соединение с этим ID уже существует - оно закрывается.
func (h *ConnectionHub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	ctx := wrap.WithAction(context.Background(), "add_ws_connection")

	if existing, ok := h.clients[newConn.id]; ok {
		h.l.Warn(ctx, "replacing existing connection", "conn_id", existing.id.String())
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx, "failed to close existing conn", "conn_id", existing.id.String(), "err", err.Error())
		}
	} else {
		h.wg.Add(1)
	}

	h.clients[newConn.id] = newConn
	n := len(h.clients)
	h.mu.Unlock()

	h.notify(n)
	return nil
}

// Delete удаляет и закрывает соединение по ID
func (h *ConnectionHub) Delete(id uuid.UUID) error {
	h.mu.Lock()

	conn, ok := h.clients[id]
	if !ok {
		h.mu.Unlock()
		return ErrConnIsNotFound
	}
	delete(h.clients, id)
	n := len(h.clients)
	h.mu.Unlock()

	if err := conn.Close(); err != nil {
		h.l.Debug(wrap.WithAction(context.Background(), "ws_connection_delete"),
			"failed to close conn", "conn_id", id.String(), "err", err.Error())
	}
	h.wg.Done()
	h.notify(n)

	return nil
}

// SendTo отправляет сообщение определённому клиенту по ID
// возвращает ошибку ErrConnIsNotFound, если соединение не найдено
func (h *ConnectionHub) SendTo(id uuid.UUID, msg any) error {
	h.mu.Lock()
	conn, ok := h.clients[id]
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}
	return conn.Send(msg)
}

// Broadcast sends msg to every client and drops the ones that fail.
// It returns the number of clients that received the message.
func (h *ConnectionHub) Broadcast(ctx context.Context, msg any) int {
	delivered := 0
	for id, conn := range h.Clients() {
		if err := conn.Send(msg); err != nil {
			h.l.Warn(wrap.WithAction(ctx, "ws_broadcast"), "dropping websocket client", "conn_id", id.String(), "err", err.Error())
			_ = h.Delete(id)
			continue
		}
		delivered++
	}
	return delivered
}

// Len returns the number of live connections.
func (h *ConnectionHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close закрывает каждое websocket соединение
func (h *ConnectionHub) Close() {
	ctx := wrap.WithAction(context.Background(), "hub_close")

	for id := range h.Clients() {
		_ = h.Delete(id)
	}

	h.wg.Wait()

	h.l.Info(ctx, "all websocket connections closed gracefully")
}

// Clients возвращает копию списка клиентов
func (h *ConnectionHub) Clients() map[uuid.UUID]*Conn {
	h.mu.Lock()
	defer h.mu.Unlock()

	copyMap := make(map[uuid.UUID]*Conn, len(h.clients))
	for id, conn := range h.clients {
		copyMap[id] = conn
	}
	return copyMap
}

func (h *ConnectionHub) notify(n int) {
	if h.OnChange != nil {
		h.OnChange(n)
	}
}
