package diagnosis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrompt(t *testing.T) {
	t.Parallel()
	query := "Rice plants showing yellow patches - what disease?"
	prompt := FormatPrompt(query)

	assert.True(t, strings.HasPrefix(prompt, "Below is an instruction"))
	assert.Contains(t, prompt, "### Instruction:\n"+query)
	assert.Contains(t, prompt, "### Input:\n")
	assert.True(t, strings.HasSuffix(prompt, responseMarker+"\n"))
}

func TestFormatPromptDeterministic(t *testing.T) {
	t.Parallel()
	q := "How to treat powdery mildew on grapes?"
	assert.Equal(t, FormatPrompt(q), FormatPrompt(q))
}
