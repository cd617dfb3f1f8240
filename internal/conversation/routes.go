package conversation

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/rmehta/loan-advisor/internal/config"
)

// Handler serves the chat endpoints. Each named engine runs the same
// pipeline under a different context strategy.
type Handler struct {
	chat  *Orchestrator
	rag   *Orchestrator
	store *Store
	cfg   *config.Config

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewHandler creates the HTTP handler for the chat API.
func NewHandler(chat, rag *Orchestrator, store *Store, cfg *config.Config) *Handler {
	return &Handler{
		chat:  chat,
		rag:   rag,
		store: store,
		cfg:   cfg,
		locks: make(map[string]*sync.Mutex),
	}
}

// RegisterRoutes mounts the conversation endpoints on the given router.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/api/chat", h.handleChat(h.chat))
	r.Post("/api/rag-chat", h.handleChat(h.rag))
	r.Get("/api/chats/resume", h.handleResume)
	r.Route("/api/turns", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Delete("/{id}", h.handleDelete)
	})
}

// sessionLock serializes turns within one session. Turns in distinct
// sessions proceed concurrently.
func (h *Handler) sessionLock(sessionID string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		h.locks[sessionID] = l
	}
	return l
}

type chatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}

type chatResponse struct {
	Response string `json:"response"`
	Mode     string `json:"mode"`
}

func (h *Handler) handleChat(engine *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get("session_id")
		userID := r.Header.Get("user_uuid")
		if sessionID == "" || userID == "" {
			http.Error(w, "session_id and user_uuid headers are required", http.StatusBadRequest)
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Message == "" {
			http.Error(w, "message is required", http.StatusBadRequest)
			return
		}

		lock := h.sessionLock(sessionID)
		lock.Lock()
		defer lock.Unlock()

		ctx := r.Context()

		turnReq := TurnRequest{
			Message: req.Message,
			Model:   config.ResolveModel(req.Model, h.cfg.Model),
		}

		if engine.cfg.Strategy == StrategyHistory {
			history, err := h.store.HistoryBySession(ctx, sessionID)
			if err != nil {
				http.Error(w, "loading session history: "+err.Error(), http.StatusInternalServerError)
				return
			}
			turnReq.History = history
		} else {
			latest, err := h.store.LatestBySession(ctx, sessionID)
			if err != nil {
				http.Error(w, "loading session state: "+err.Error(), http.StatusInternalServerError)
				return
			}
			if latest != nil {
				turnReq.Prior = &PriorTurn{
					Intent:   latest.Intent,
					StateTag: latest.StateTag,
					Params:   latest.Params,
				}
			}
		}

		result, err := engine.ProcessTurn(ctx, turnReq)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		turn := &Turn{
			SessionID:     sessionID,
			UserID:        userID,
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
			http.Error(w, "saving turn: "+err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, chatResponse{Response: result.Response, Mode: result.Mode})
	}
}

type resumeResponse struct {
	SessionID string            `json:"session_id"`
	Turns     []Turn            `json:"turns"`
	Context   map[string]string `json:"context"`
}

// handleResume returns the full history of a session plus the latest
// persisted context so a client can continue a past conversation.
func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id header is required", http.StatusBadRequest)
		return
	}

	turns, err := h.store.HistoryBySession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if turns == nil {
		turns = []Turn{}
	}

	resp := resumeResponse{SessionID: sessionID, Turns: turns, Context: map[string]string{}}
	if len(turns) > 0 {
		resp.Context = turns[len(turns)-1].Context
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	turns, err := h.store.List(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if turns == nil {
		turns = []Turn{}
	}
	writeJSON(w, http.StatusOK, turns)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	turn, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if turn == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
