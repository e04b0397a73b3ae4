//go:build !llama

package model

import (
	"context"
	"fmt"

	"github.com/agrisense/cropdoc/internal/logger"
)

// unavailable stands in for the llama.cpp client when the binary is built
// without the llama tag. The service still runs; every generation attempt
// reports the model as not loaded.
type unavailable struct {
	cfg Config
}

// New returns a Generator whose Load always fails. Build with -tags llama to
// get the real backend.
func New(cfg Config, _ logger.Logger) Generator {
	return &unavailable{cfg: cfg}
}

func (u *unavailable) Load(context.Context) error {
	return fmt.Errorf("binary built without llama backend (rebuild with -tags llama): %w", ErrNotLoaded)
}

func (u *unavailable) Generate(context.Context, string, Params) (string, error) {
	return "", ErrNotLoaded
}

func (u *unavailable) Status() Status {
	return Status{Loaded: false, Device: "none", GPUAvailable: false, GPUMemory: "N/A"}
}

func (u *unavailable) Close() error { return nil }
