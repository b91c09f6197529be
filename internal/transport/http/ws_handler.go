package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"eneagramas-site/internal/app"
)

type WSHandler struct {
	service  *app.QuizService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Option int `json:"option"`
}

type contactPayload struct {
	Email string `json:"email"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs one orientation-test session over it.
// Every state change is pushed as a "state" message; the session is
// discarded when the connection closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	opened, err := h.service.Open(ctx)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	sessionID := opened.SessionID
	defer h.service.Close(ctx, sessionID)

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer: gorilla connections allow one concurrent writer.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write failed", zap.String("session_id", sessionID), zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: snap}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		action, ok := decodeAction(inbound)
		if !ok {
			if !enqueue(send, writerDone, outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "bad_request", Message: "invalid " + inbound.Type + " payload"}}) {
				break
			}
			continue
		}
		if _, err := h.service.Apply(ctx, sessionID, action); err != nil {
			if !enqueue(send, writerDone, errorMessage(err)) {
				break
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// enqueue hands msg to the writer. It reports false once the writer has
// exited, so a dead connection never blocks the read loop.
func enqueue(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}

// decodeAction maps an inbound message to a quiz action. Unknown types are
// passed through so the service reports them.
func decodeAction(msg inboundMessage) (app.Action, bool) {
	action := app.Action{Type: app.ActionType(msg.Type)}
	switch action.Type {
	case app.ActionSelect:
		var p selectPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return action, false
		}
		action.Option = p.Option
	case app.ActionContact:
		var p contactPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return action, false
		}
		action.Email = p.Email
	}
	return action, true
}

func errorMessage(err error) outboundMessage[any] {
	_, code := classify(err)
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: code, Message: err.Error()}}
}
