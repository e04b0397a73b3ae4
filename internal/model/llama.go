//go:build llama

package model

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"

	"github.com/agrisense/cropdoc/internal/logger"
)

// llamaClient runs a single shared llama.cpp instance. Concurrent Generate
// calls queue on the mutex; the binding itself is not safe for parallel use.
type llamaClient struct {
	cfg Config
	log logger.Logger

	mu     sync.Mutex
	model  *llama.LLama
	loaded bool
}

// New creates a Generator backed by go-llama.cpp. The artifact is not read
// until Load is called.
func New(cfg Config, log logger.Logger) Generator {
	if cfg.ContextSize <= 0 {
		cfg.ContextSize = 2048
	}
	return &llamaClient{cfg: cfg, log: log}
}

func (c *llamaClient) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(c.cfg.ModelPath); err != nil {
		return fmt.Errorf("model path %q: %w", c.cfg.ModelPath, err)
	}

	c.log.Info("loading model", "path", c.cfg.ModelPath, "context", c.cfg.ContextSize, "gpu_layers", c.cfg.GPULayers)
	m, err := llama.New(c.cfg.ModelPath,
		llama.SetContext(c.cfg.ContextSize),
		llama.SetGPULayers(c.cfg.GPULayers),
	)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	c.model = m
	c.loaded = true
	c.log.Info("model loaded", "device", c.device())
	return nil
}

func (c *llamaClient) Generate(ctx context.Context, prompt string, params Params) (text string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return "", ErrNotLoaded
	}
	// The binding cannot be interrupted mid-generation; honor cancellation
	// only while queued.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	// llama.cpp faults surface as panics through cgo on some failure paths.
	defer func() {
		if r := recover(); r != nil {
			err = classify(fmt.Errorf("generation panic: %v", r))
			text = ""
		}
	}()

	out, err := c.model.Predict(prompt,
		llama.SetTokens(params.MaxTokens),
		llama.SetTemperature(params.Temperature),
		llama.SetTopP(params.TopP),
		llama.SetPenalty(params.RepeatPenalty),
	)
	if err != nil {
		return "", classify(err)
	}
	return out, nil
}

func (c *llamaClient) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{
		Loaded:       c.loaded,
		Device:       c.device(),
		GPUAvailable: c.cfg.GPULayers > 0,
		GPUMemory:    "N/A",
	}
	return st
}

func (c *llamaClient) device() string {
	if c.cfg.GPULayers > 0 {
		return "gpu"
	}
	return "cpu"
}

func (c *llamaClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.model != nil {
		c.model.Free()
		c.model = nil
	}
	c.loaded = false
	return nil
}

// classify maps allocation failures from the backend onto ErrOutOfMemory so
// the pipeline can advise shortening the query instead of failing opaquely.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"out of memory", "failed to allocate", "oom", "cuda error"} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", ErrOutOfMemory, err)
		}
	}
	return err
}
