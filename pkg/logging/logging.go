// Package logging configures the zap logger shared by every ctxgen
// command.
package logging

import (
	"fmt"

	"go.uber.org/zap"

	"ctxgen/pkg/version"
)

// Setup builds the application logger and installs it as the zap global.
// debug selects the development config with human-readable output and
// debug-level events enabled.
func Setup(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.InitialFields = map[string]interface{}{
		"appName":    "ctxgen",
		"appVersion": version.Version,
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}
