package conversation

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	SessionID string `json:"session_id"` // empty for new sessions
	UserID    string `json:"user_uuid"`
	Message   string `json:"message"`
	Model     string `json:"model,omitempty"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string `json:"type"` // "response" or "error"
	SessionID string `json:"session_id"`
	Response  string `json:"response,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RegisterWebSocket mounts the streaming chat endpoint at /ws. Each socket
// drives the slot-filling engine, one exchange per message.
func RegisterWebSocket(r chi.Router, h *Handler) {
	r.Get("/ws", h.handleWebSocket)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("conversation: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("conversation: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			h.sendWSError(conn, "", "invalid message format")
			continue
		}
		if req.Message == "" {
			h.sendWSError(conn, req.SessionID, "message is required")
			continue
		}
		if req.UserID == "" {
			h.sendWSError(conn, req.SessionID, "user_uuid is required")
			continue
		}
		if req.SessionID == "" {
			req.SessionID = uuid.New().String()
		}

		h.handleWSMessage(conn, r, req)
	}
}

func (h *Handler) handleWSMessage(conn *websocket.Conn, r *http.Request, req wsRequest) {
	ctx := r.Context()

	lock := h.sessionLock(req.SessionID)
	lock.Lock()
	defer lock.Unlock()

	latest, err := h.store.LatestBySession(ctx, req.SessionID)
	if err != nil {
		h.sendWSError(conn, req.SessionID, "loading session state: "+err.Error())
		return
	}

	turnReq := TurnRequest{
		Message: req.Message,
		Model:   h.cfg.Model,
	}
	if req.Model != "" {
		turnReq.Model = req.Model
	}
	if latest != nil {
		turnReq.Prior = &PriorTurn{
			Intent:   latest.Intent,
			StateTag: latest.StateTag,
			Params:   latest.Params,
		}
	}

	result, err := h.chat.ProcessTurn(ctx, turnReq)
	if err != nil {
		h.sendWSError(conn, req.SessionID, err.Error())
		return
	}

	turn := &Turn{
		SessionID:     req.SessionID,
		UserID:        req.UserID,
		UserMessage:   req.Message,
		BotResponse:   result.Response,
		Intent:        result.Intent,
		StateTag:      result.StateTag,
		Params:        result.Params,
		Context:       map[string]string{"summary": result.ContextSummary},
		Name:          result.Params[SlotName],
		Description:   result.Description,
		LoanType:      result.Params[ParamLoanType],
		LastUserQuery: result.Params[ParamLastUserQuery],
	}
	if err := h.store.Save(ctx, turn); err != nil {
		h.sendWSError(conn, req.SessionID, "saving turn: "+err.Error())
		return
	}

	h.sendWS(conn, wsResponse{
		Type:      "response",
		SessionID: req.SessionID,
		Response:  result.Response,
		Mode:      result.Mode,
	})
}

func (h *Handler) sendWS(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("conversation: websocket write: %v", err)
	}
}

func (h *Handler) sendWSError(conn *websocket.Conn, sessionID, message string) {
	h.sendWS(conn, wsResponse{Type: "error", SessionID: sessionID, Error: message})
}
