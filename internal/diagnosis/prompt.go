package diagnosis

import "fmt"

// responseMarker separates the instruction template from generated text. The
// fine-tune was trained on this exact Alpaca-style layout, so the wording
// must not drift.
const responseMarker = "### Response:"

const promptTemplate = `Below is an instruction that describes a task, paired with an input that provides further context. Write a response that appropriately completes the request.

### Instruction:
%s

### Input:


%s
`

// FormatPrompt embeds a validated query into the instruction template the
// model continues after. Deterministic and stateless.
func FormatPrompt(query string) string {
	return fmt.Sprintf(promptTemplate, query, responseMarker)
}
