package api

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
)

// errorEnvelope is the body shape for routing and server faults.
type errorEnvelope struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeFault(c *echo.Context, status int, msg string) error {
	return c.JSON(status, errorEnvelope{Error: msg, Status: status})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var v T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("decode request body: %w", err)
	}
	return v, nil
}
