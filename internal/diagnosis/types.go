package diagnosis

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Request is one submitted query bound to a session.
type Request struct {
	Query       string
	SessionID   string
	SubmittedAt time.Time
}

// NewRequest trims the query and assigns a fresh session identifier when the
// caller did not supply one.
func NewRequest(query, sessionID string) Request {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return Request{
		Query:       strings.TrimSpace(query),
		SessionID:   sessionID,
		SubmittedAt: time.Now(),
	}
}

// Result is the outcome of one diagnosis. Exactly one of Response and Error
// is set, according to Success.
type Result struct {
	Success  bool
	Response string
	Error    string
}

// Response is the wire form returned to callers: the result plus request
// identity. Exactly one of Response and Error appears on the wire, chosen
// by Success.
type Response struct {
	Success   bool   `json:"success"`
	Query     string `json:"query"`
	Response  string `json:"response"`
	Error     string `json:"error"`
	SessionID string `json:"session_id"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// MarshalJSON emits the response field on success and the error field on
// failure, never both. A success whose normalized text is empty still
// carries "response": "".
func (r Response) MarshalJSON() ([]byte, error) {
	type wire struct {
		Success   bool    `json:"success"`
		Query     string  `json:"query"`
		Response  *string `json:"response,omitempty"`
		Error     *string `json:"error,omitempty"`
		SessionID string  `json:"session_id"`
		RequestID string  `json:"request_id"`
		Timestamp string  `json:"timestamp"`
	}
	w := wire{
		Success:   r.Success,
		Query:     r.Query,
		SessionID: r.SessionID,
		RequestID: r.RequestID,
		Timestamp: r.Timestamp,
	}
	if r.Success {
		w.Response = &r.Response
	} else {
		w.Error = &r.Error
	}
	return json.Marshal(w)
}

// NewResponse stamps a result with a unique request identifier and the
// current time.
func NewResponse(req Request, res Result) Response {
	return Response{
		Success:   res.Success,
		Query:     req.Query,
		Response:  res.Response,
		Error:     res.Error,
		SessionID: req.SessionID,
		RequestID: uuid.NewString(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
