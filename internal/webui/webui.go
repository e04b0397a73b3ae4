// Package webui embeds the browser dashboard served at the root path.
package webui

import _ "embed"

//go:embed static/index.html
var indexHTML []byte

// Index returns the dashboard page.
func Index() []byte {
	return indexHTML
}
