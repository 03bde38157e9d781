package app

import (
	"context"

	"github.com/oshokin/frb/internal/config"
	"github.com/oshokin/frb/internal/logger"
)

// ExecuteSetKeyCommand validates the API key and stores it in the configuration file,
// keeping the rest of the file intact.
func ExecuteSetKeyCommand(ctx context.Context, apiKey string) {
	normalizedKey, err := config.NormalizeAPIKey(apiKey)
	if err != nil {
		logger.Fatalf(ctx, "Invalid API key: %v", err)
	}

	if err = config.SaveAPIKey(normalizedKey); err != nil {
		logger.Fatalf(ctx, "Failed to save configuration: %v", err)
	}

	logger.Info(ctx, "API key saved to the configuration file")
}
