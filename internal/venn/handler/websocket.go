package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/msto63/venn/internal/venn/exercise"
	"github.com/msto63/venn/internal/venn/service"
	"github.com/msto63/venn/internal/venn/store"
	"github.com/msto63/venn/pkg/core/logging"
)

const (
	wsReadTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsMaxMessage   = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message types
const (
	WSTypeEvaluate = "evaluate"
	WSTypePing     = "ping"
	WSTypeResult   = "result"
	WSTypeError    = "error"
	WSTypePong     = "pong"
)

// WSMessage is a client message
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSEvaluatePayload is the payload of an evaluate message. ID is echoed
// back so clients typing quickly can drop stale results.
type WSEvaluatePayload struct {
	ID         string `json:"id,omitempty"`
	ExerciseID string `json:"exercise_id,omitempty"`
	Expression string `json:"expression"`
}

// WSResponse is a server message
type WSResponse struct {
	Type    string      `json:"type"`
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// WebSocketHandler evaluates expressions as the user types. A parse error
// is a normal "result" whose payload carries the error; "error" messages
// are reserved for malformed requests and unknown exercises.
type WebSocketHandler struct {
	service *service.Service
	logger  *logging.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(svc *service.Service) *WebSocketHandler {
	return &WebSocketHandler{
		service: svc,
		logger:  logging.New("venn-websocket"),
	}
}

// ServeHTTP upgrades the connection and serves messages until it closes
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	requestID := RequestID(r.Context())
	h.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String(), "request_id", requestID)

	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", "error", err, "request_id", requestID)
			} else {
				h.logger.Info("WebSocket connection closed", "request_id", requestID)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		resp := h.handleMessage(r, msg, requestID)
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(resp); err != nil {
			h.logger.Warn("WebSocket write failed", "error", err, "request_id", requestID)
			return
		}
	}
}

func (h *WebSocketHandler) handleMessage(r *http.Request, msg WSMessage, requestID string) WSResponse {
	switch msg.Type {
	case WSTypePing:
		return WSResponse{Type: WSTypePong}

	case WSTypeEvaluate:
		var payload WSEvaluatePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return wsError("", "invalid_payload", "Invalid evaluate payload")
		}

		res, err := h.service.Evaluate(r.Context(), service.EvaluateRequest{
			ExerciseID: payload.ExerciseID,
			Expression: payload.Expression,
			Source:     store.SourceWebSocket,
			RequestID:  requestID,
		})
		if err != nil {
			if errors.Is(err, exercise.ErrExerciseNotFound) {
				return wsError(payload.ID, "exercise_not_found", err.Error())
			}
			h.logger.Error("WebSocket evaluation failed", "error", err, "request_id", requestID)
			return wsError(payload.ID, "internal_error", "Internal server error")
		}
		return WSResponse{Type: WSTypeResult, ID: payload.ID, Payload: res}

	default:
		return wsError("", "unknown_type", "Unknown message type: "+msg.Type)
	}
}

func wsError(id, code, message string) WSResponse {
	return WSResponse{
		Type:    WSTypeError,
		ID:      id,
		Payload: ErrorBody{Code: code, Message: message},
	}
}
