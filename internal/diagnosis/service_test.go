package diagnosis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense/cropdoc/internal/model"
)

type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) Load(context.Context) error { return nil }

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ model.Params) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	// Echo the prompt back the way a causal LM continues it.
	return prompt + f.text, nil
}

func (f *fakeGenerator) Status() model.Status { return model.Status{Loaded: true} }
func (f *fakeGenerator) Close() error         { return nil }

const validQuery = "Tomato plants wilting with brown spots"

func TestDiagnoseRejectsShortQueryWithoutModelCall(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{text: "unused"}
	svc := NewService(gen, model.DefaultParams(), nil)

	res := svc.Diagnose(context.Background(), "ok")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "short")
	assert.Empty(t, res.Response)
	assert.Zero(t, gen.calls, "validation failures must not reach the model")
}

func TestDiagnoseSuccessNormalizesOutput(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{text: "Looks like early blight.\nLooks like early blight.\nApply fungicide."}
	svc := NewService(gen, model.DefaultParams(), nil)

	res := svc.Diagnose(context.Background(), validQuery)
	require.True(t, res.Success)
	assert.Empty(t, res.Error)
	// Prompt echo stripped at the marker, duplicate line removed.
	assert.Equal(t, "Looks like early blight.\nApply fungicide.", res.Response)
	assert.Equal(t, 1, gen.calls)
}

func TestDiagnoseModelNotLoaded(t *testing.T) {
	t.Parallel()
	svc := NewService(&fakeGenerator{err: model.ErrNotLoaded}, model.DefaultParams(), nil)

	res := svc.Diagnose(context.Background(), validQuery)
	assert.False(t, res.Success)
	assert.Equal(t, "Model not loaded", res.Error)
}

func TestDiagnoseOutOfMemory(t *testing.T) {
	t.Parallel()
	wrapped := errors.Join(model.ErrOutOfMemory, errors.New("ggml alloc failed"))
	svc := NewService(&fakeGenerator{err: wrapped}, model.DefaultParams(), nil)

	res := svc.Diagnose(context.Background(), validQuery)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "shorter query")
}

func TestDiagnoseGenericFailure(t *testing.T) {
	t.Parallel()
	svc := NewService(&fakeGenerator{err: errors.New("tokenizer exploded")}, model.DefaultParams(), nil)

	res := svc.Diagnose(context.Background(), validQuery)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Processing error")
	assert.Contains(t, res.Error, "tokenizer exploded")
}

func TestNewRequestAssignsSessionID(t *testing.T) {
	t.Parallel()
	req := NewRequest("  padded query  ", "")
	assert.Equal(t, "padded query", req.Query)
	assert.NotEmpty(t, req.SessionID)

	other := NewRequest("q", "")
	assert.NotEqual(t, req.SessionID, other.SessionID)

	kept := NewRequest("q", "caller-chosen")
	assert.Equal(t, "caller-chosen", kept.SessionID)
}

func TestNewResponsePopulatesIdentity(t *testing.T) {
	t.Parallel()
	req := NewRequest(validQuery, "s1")

	ok := NewResponse(req, Result{Success: true, Response: "fine"})
	assert.True(t, ok.Success)
	assert.Equal(t, validQuery, ok.Query)
	assert.Equal(t, "s1", ok.SessionID)
	assert.NotEmpty(t, ok.RequestID)
	assert.NotEmpty(t, ok.Timestamp)

	fail := NewResponse(req, Result{Success: false, Error: "nope"})
	assert.NotEqual(t, ok.RequestID, fail.RequestID, "request ids are unique per response")
	assert.Empty(t, fail.Response)
	assert.Equal(t, "nope", fail.Error)
}

func TestTruncateForLogKeepsRunesIntact(t *testing.T) {
	t.Parallel()
	short := strings.Repeat("ñ", 50)
	assert.Equal(t, short, truncateForLog(short))

	got := truncateForLog(strings.Repeat("ñ", 60))
	assert.Equal(t, strings.Repeat("ñ", 50)+"...", got)
	assert.True(t, utf8.ValidString(got))
}

func TestResponseWireCarriesExactlyOneOutcomeField(t *testing.T) {
	t.Parallel()
	req := NewRequest(validQuery, "s1")

	// Even an empty normalized answer serializes the response field.
	okBody, err := json.Marshal(NewResponse(req, Result{Success: true, Response: ""}))
	require.NoError(t, err)
	assert.Contains(t, string(okBody), `"response":""`)
	assert.NotContains(t, string(okBody), `"error"`)

	failBody, err := json.Marshal(NewResponse(req, Result{Success: false, Error: "nope"}))
	require.NoError(t, err)
	assert.Contains(t, string(failBody), `"error":"nope"`)
	assert.NotContains(t, string(failBody), `"response"`)
}
