// Package logging builds the process logger and scrubs credentials from
// anything derived from datasource locators before it is logged or returned.
package logging

import (
	"go.uber.org/zap"
)

// New creates the process-wide logger. Local environments get the console
// encoder with debug enabled; everything else logs structured JSON at info.
func New(env string) (*zap.Logger, error) {
	if env == "local" {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}
	return zap.NewProduction()
}
