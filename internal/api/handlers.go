package api

import (
	"errors"
	"io"
	"net/http"
	"time"
	"unicode/utf8"
	"yara_assistant/internal/nodes"
	"yara_assistant/internal/services"
	"yara_assistant/internal/storage"
	"yara_assistant/pkg"
	"yara_assistant/src/logger"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// maxBodyBytes caps request bodies well above the message limit
const maxBodyBytes = 64 << 10

// Handler serves the chat and system endpoints
type Handler struct {
	orchestrator   *nodes.Orchestrator
	sessions       storage.SessionManager
	data           services.BusinessData
	modelLoaded    bool
	embedderLoaded bool
	version        string
	startTime      time.Time
}

// NewHandler creates a handler from the router dependencies
func NewHandler(deps Deps) *Handler {
	data := deps.Data
	if data == nil {
		data = services.Unavailable{}
	}
	version := deps.Version
	if version == "" {
		version = Version
	}
	return &Handler{
		orchestrator:   deps.Orchestrator,
		sessions:       deps.Sessions,
		data:           data,
		modelLoaded:    deps.ModelLoaded,
		embedderLoaded: deps.EmbedderLoaded,
		version:        version,
		startTime:      time.Now(),
	}
}

// Chat handles POST /chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	var req ChatRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	length := utf8.RuneCountInString(req.Message)
	if length == 0 {
		writeError(w, http.StatusUnprocessableEntity, "message is required")
		return
	}
	if length > MaxMessageLength {
		writeError(w, http.StatusUnprocessableEntity, "message must be at most 1000 characters")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	session := h.sessions.GetOrCreate(r.Context(), sessionID)

	start := time.Now()
	result := h.orchestrator.Respond(r.Context(), nodes.Request{
		Utterance: req.Message,
		Context:   req.Context,
		Session:   session,
	})

	logger.Info().
		Str("session_id", sessionID).
		Str("intent", string(result.Intent.Label)).
		Float64("confidence", result.Intent.Confidence).
		Dur("elapsed", time.Since(start)).
		Msg("✨ Yara processed chat")

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:      result.Response,
		Intent:        result.Intent.Label,
		Confidence:    result.Intent.Confidence,
		SessionID:     sessionID,
		Timestamp:     unixSeconds(time.Now()),
		DatabaseUsed:  result.DatabaseUsed,
		AssistantName: pkg.AssistantName,
		Source:        result.Source,
	})
}

// ClearHistory handles DELETE /chat/history. It resets the given session, or
// the default session when no id is passed.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")

	err := h.sessions.Reset(r.Context(), sessionID)
	if err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		logger.Error().Err(err).Str("session_id", sessionID).Msg("❌ Failed to clear chat history")
		writeError(w, http.StatusInternalServerError, "Failed to clear chat history")
		return
	}

	if sessionID == "" {
		sessionID = storage.DefaultSessionID
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Message:   "Chat history cleared successfully",
		SessionID: sessionID,
	})
}

// Status handles GET /status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:            "operational",
		AssistantName:     pkg.AssistantName,
		DatabaseConnected: h.data.Available(),
		ModelLoaded:       h.modelLoaded,
		EmbedderLoaded:    h.embedderLoaded,
		Uptime:            time.Since(h.startTime).Seconds(),
		ActiveSessions:    h.sessions.Len(),
	}
	if resp.DatabaseConnected {
		if info, err := h.data.Info(r.Context()); err == nil {
			resp.DatabaseType = info.Type
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		AssistantName: pkg.AssistantName,
		Timestamp:     unixSeconds(time.Now()),
		Version:       h.version,
	})
}

// DatabaseInfo handles GET /database/info
func (h *Handler) DatabaseInfo(w http.ResponseWriter, r *http.Request) {
	if !h.data.Available() {
		writeJSON(w, http.StatusOK, DatabaseInfoResponse{
			Connected: false,
			Message:   "No database configured or connection failed",
		})
		return
	}

	info, err := h.data.Info(r.Context())
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ Could not retrieve table information")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve database information")
		return
	}

	writeJSON(w, http.StatusOK, DatabaseInfoResponse{
		Connected: info.Connected,
		Type:      info.Type,
		Tables:    info.Tables,
	})
}

// Root handles GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message:     "Hello! I'm Yara, your friendly AI assistant! 🤖✨",
		Version:     h.version,
		Description: "I'm here to help you with conversations, answer questions, and provide insights from your organization's data. I'm friendly, helpful, and always ready to assist!",
		Personality: Personality{
			Name:     pkg.AssistantName,
			Traits:   []string{"Friendly", "Helpful", "Intelligent", "Patient", "Enthusiastic"},
			Greeting: "Hi there! I'm Yara, and I'm excited to help you today! 😊",
		},
		Endpoints: map[string]string{
			"chat":     "/chat - Chat with Yara",
			"history":  "/chat/history - Clear a session's memory and history",
			"status":   "/status - System status",
			"health":   "/health - Health check",
			"database": "/database/info - Database information",
		},
		QuickStart: "Send a message to /chat to start chatting with me!",
	})
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
