// Package api exposes the diagnosis pipeline and history store over HTTP.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/agrisense/cropdoc/internal/diagnosis"
	"github.com/agrisense/cropdoc/internal/history"
	"github.com/agrisense/cropdoc/internal/logger"
	"github.com/agrisense/cropdoc/internal/model"
	"github.com/agrisense/cropdoc/internal/version"
	"github.com/agrisense/cropdoc/internal/webui"
)

const serviceName = "Crop Disease Detection API"

// Options toggles boundary features.
type Options struct {
	// HistoryEnabled gates the history endpoints and the post-diagnosis
	// append.
	HistoryEnabled bool
	// AuthEnabled is accepted for config compatibility but not enforced.
	AuthEnabled bool
	// TunnelURL, when set, is reported by health and info.
	TunnelURL string
}

// Server wires the HTTP endpoints to injected collaborators. There is no
// process-global state; everything the handlers touch comes in here.
type Server struct {
	service *diagnosis.Service
	history *history.Store
	gen     model.Generator
	opts    Options
	log     logger.Logger
	clock   func() time.Time
}

// NewServer builds the HTTP boundary around the orchestrator, history store
// and model status source.
func NewServer(service *diagnosis.Service, hist *history.Store, gen model.Generator, opts Options, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		service: service,
		history: hist,
		gen:     gen,
		opts:    opts,
		log:     log,
		clock:   time.Now,
	}
}

// Register mounts all routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/", s.handleDashboard)
	e.GET("/api/health", s.handleHealth)
	e.POST("/api/diagnose", s.handleDiagnose)
	e.GET("/api/history/:session_id", s.handleHistory)
	e.POST("/api/clear-history/:session_id", s.handleClearHistory)
	e.GET("/api/info", s.handleInfo)
	e.Any("/*", s.handleNotFound)
}

// FaultHandler converts escaped errors and panics into the service's 500
// envelope and keeps the serving loop alive.
func FaultHandler(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					log.Error("handler panic", "path", c.Request().URL.Path, "panic", fmt.Sprint(r))
					if resp, _ := echo.UnwrapResponse(c.Response()); resp == nil || !resp.Committed {
						_ = writeFault(c, http.StatusInternalServerError, "Internal server error")
					}
				}
			}()
			if err := next(c); err != nil {
				log.Error("handler fault", "path", c.Request().URL.Path, "error", err)
				if resp, _ := echo.UnwrapResponse(c.Response()); resp == nil || !resp.Committed {
					return writeFault(c, http.StatusInternalServerError, "Internal server error")
				}
			}
			return nil
		}
	}
}

func (s *Server) handleDashboard(c *echo.Context) error {
	return c.HTMLBlob(http.StatusOK, webui.Index())
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: s.clock().Format(time.RFC3339),
		Model:     s.gen.Status(),
		TunnelURL: s.opts.TunnelURL,
	})
}

func (s *Server) handleDiagnose(c *echo.Context) error {
	body, err := decodeJSON[DiagnoseRequest](c.Request().Body)
	if err != nil {
		s.log.Error("malformed diagnose payload", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	}

	req := diagnosis.NewRequest(body.Query, body.SessionID)
	s.log.Info("diagnosis request", "session", req.SessionID)

	result := s.service.Diagnose(c.Request().Context(), req.Query)
	if result.Success && s.opts.HistoryEnabled {
		s.history.AppendExchange(req.SessionID, req.Query, result.Response)
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	return c.JSON(status, diagnosis.NewResponse(req, result))
}

func (s *Server) handleHistory(c *echo.Context) error {
	if !s.opts.HistoryEnabled {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "History disabled"})
	}
	sessionID := c.Param("session_id")
	return c.JSON(http.StatusOK, HistoryResponse{
		SessionID: sessionID,
		Messages:  s.history.Get(sessionID),
	})
}

func (s *Server) handleClearHistory(c *echo.Context) error {
	s.history.Clear(c.Param("session_id"))
	return c.JSON(http.StatusOK, ClearHistoryResponse{
		Success: true,
		Message: "History cleared",
	})
}

func (s *Server) handleInfo(c *echo.Context) error {
	return c.JSON(http.StatusOK, InfoResponse{
		Service: serviceName,
		Version: version.String(),
		Endpoints: map[string]string{
			"GET /":                                "Web dashboard",
			"GET /api/health":                      "Health check",
			"POST /api/diagnose":                   "Get diagnosis",
			"GET /api/history/{session_id}":        "Get chat history",
			"POST /api/clear-history/{session_id}": "Clear history",
			"GET /api/info":                        "This endpoint",
		},
		TunnelURL: s.opts.TunnelURL,
	})
}

func (s *Server) handleNotFound(c *echo.Context) error {
	return writeFault(c, http.StatusNotFound, "Endpoint not found")
}
