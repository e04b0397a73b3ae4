// Package model defines the generation capability cropdoc delegates to: an
// opaque, fallible pretrained causal LM loaded from a local artifact.
package model

import (
	"context"
	"errors"
)

// Failure categories the diagnosis pipeline distinguishes. Anything else
// coming out of Generate is treated as a generic processing fault.
var (
	ErrNotLoaded   = errors.New("model not loaded")
	ErrOutOfMemory = errors.New("model out of memory")
)

// Params are the sampling parameters for one generation call.
type Params struct {
	MaxTokens     int
	Temperature   float64
	TopP          float64
	RepeatPenalty float64
}

// DefaultParams mirrors the fine-tune's recommended sampling settings.
func DefaultParams() Params {
	return Params{
		MaxTokens:     256,
		Temperature:   0.7,
		TopP:          0.95,
		RepeatPenalty: 1.1,
	}
}

// Status is the model's self-reported state, surfaced verbatim by the
// health endpoint.
type Status struct {
	Loaded       bool   `json:"loaded"`
	Device       string `json:"device"`
	GPUAvailable bool   `json:"gpu_available"`
	GPUMemory    string `json:"gpu_memory"`
}

// Generator is the generation collaborator. Generate blocks for the full
// duration of inference; implementations serialize concurrent calls
// internally, so callers may invoke it from multiple requests.
type Generator interface {
	Load(ctx context.Context) error
	Generate(ctx context.Context, prompt string, params Params) (string, error)
	Status() Status
	Close() error
}

// Config locates and sizes the model artifact.
type Config struct {
	// ModelPath points at a GGUF artifact on disk.
	ModelPath string
	// ContextSize is the prompt+generation window, in tokens.
	ContextSize int
	// GPULayers offloads that many layers to the GPU; 0 keeps inference on CPU.
	GPULayers int
}
