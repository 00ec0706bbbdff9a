// Package api provides the kiosk HTTP API: dashboard analytics, exports and
// the chat assistant.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string
}
