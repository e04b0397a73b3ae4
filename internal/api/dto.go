package api

import (
	"github.com/agrisense/cropdoc/internal/history"
	"github.com/agrisense/cropdoc/internal/model"
)

// DiagnoseRequest is the body of POST /api/diagnose.
type DiagnoseRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
	Model     model.Status `json:"model"`
	TunnelURL string       `json:"tunnel_url,omitempty"`
}

// HistoryResponse is the body of GET /api/history/:session_id.
type HistoryResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []history.Message `json:"messages"`
}

// ClearHistoryResponse is the body of POST /api/clear-history/:session_id.
type ClearHistoryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// InfoResponse is the body of GET /api/info.
type InfoResponse struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
	TunnelURL string            `json:"tunnel_url,omitempty"`
}
