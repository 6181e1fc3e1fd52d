package api

import "yara_assistant/pkg"

// MaxMessageLength bounds the chat message size in characters
const MaxMessageLength = 1000

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Context   string `json:"context,omitempty"`
}

// ChatResponse is Yara's answer to one message
type ChatResponse struct {
	Response      string             `json:"response"`
	Intent        pkg.Intent         `json:"intent"`
	Confidence    float64            `json:"confidence"`
	SessionID     string             `json:"session_id"`
	Timestamp     float64            `json:"timestamp"`
	DatabaseUsed  bool               `json:"database_used"`
	AssistantName string             `json:"assistant_name"`
	Source        pkg.ResponseSource `json:"source"`
}

// StatusResponse is the body of GET /status
type StatusResponse struct {
	Status            string  `json:"status"`
	AssistantName     string  `json:"assistant_name"`
	DatabaseConnected bool    `json:"database_connected"`
	ModelLoaded       bool    `json:"model_loaded"`
	EmbedderLoaded    bool    `json:"embedder_loaded"`
	Uptime            float64 `json:"uptime"`
	DatabaseType      string  `json:"database_type,omitempty"`
	ActiveSessions    int     `json:"active_sessions"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status        string  `json:"status"`
	AssistantName string  `json:"assistant_name"`
	Timestamp     float64 `json:"timestamp"`
	Version       string  `json:"version"`
}

// DatabaseInfoResponse is the body of GET /database/info
type DatabaseInfoResponse struct {
	Connected bool     `json:"connected"`
	Type      string   `json:"type,omitempty"`
	Tables    []string `json:"tables,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// MessageResponse carries a human-readable confirmation
type MessageResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error,omitempty"`
}

// Personality describes the assistant on the root endpoint
type Personality struct {
	Name     string   `json:"name"`
	Traits   []string `json:"traits"`
	Greeting string   `json:"greeting"`
}

// RootResponse is the body of GET /
type RootResponse struct {
	Message     string            `json:"message"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Personality Personality       `json:"personality"`
	Endpoints   map[string]string `json:"endpoints"`
	QuickStart  string            `json:"quick_start"`
}
