package handlers

import (
	"context"
	"time"

	"storefront-backend/config"
)

var cfg *config.Config

// Init wires the process configuration into the handler package. Must
// be called once before any route is served.
func Init(c *config.Config) {
	cfg = c
}

// opCtx bounds every store round-trip set for one request.
func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
