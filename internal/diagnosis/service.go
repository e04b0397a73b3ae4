// Package diagnosis implements the query pipeline: validation, prompt
// templating, model invocation and response cleanup.
package diagnosis

import (
	"context"
	"errors"

	"github.com/agrisense/cropdoc/internal/logger"
	"github.com/agrisense/cropdoc/internal/model"
)

// User-facing failure messages for the generation error categories.
const (
	msgModelNotLoaded = "Model not loaded"
	msgOutOfMemory    = "Model memory exceeded. Try with shorter query."
	msgProcessing     = "Processing error: "
)

// Service orchestrates one diagnosis: validate, format, generate, normalize.
// It never touches conversation history; appending successful exchanges is
// the caller's job.
type Service struct {
	gen    model.Generator
	params model.Params
	log    logger.Logger
}

// NewService wires the orchestrator to a generation collaborator. params
// carries the sampling configuration applied to every call.
func NewService(gen model.Generator, params model.Params, log logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{gen: gen, params: params, log: log}
}

// Diagnose runs the full pipeline for one query. Validation failures return
// without consulting the model. Generation failures are folded into the
// result under one of three categories; nothing escapes as an error.
func (s *Service) Diagnose(ctx context.Context, query string) Result {
	if err := Validate(query); err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	prompt := FormatPrompt(query)
	raw, err := s.gen.Generate(ctx, prompt, s.params)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotLoaded):
			return Result{Success: false, Error: msgModelNotLoaded}
		case errors.Is(err, model.ErrOutOfMemory):
			s.log.Error("generation out of memory", "error", err)
			return Result{Success: false, Error: msgOutOfMemory}
		default:
			s.log.Error("generation failed", "error", err)
			return Result{Success: false, Error: msgProcessing + err.Error()}
		}
	}

	s.log.Info("diagnosis complete", "query", truncateForLog(query))
	return Result{Success: true, Response: NormalizeResponse(raw)}
}

func truncateForLog(s string) string {
	const limit = 50
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
