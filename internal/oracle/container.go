package oracle

import (
	"context"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/metrics"
)

type OracleContainer struct {
	Client *Client
}

func NewOracleContainer(ctx context.Context, cfg config.OracleConfig, m *metrics.Collector) (*OracleContainer, error) {
	provider, err := NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, err
	}
	client := NewClient(NewBreakerProvider(provider, "gemini"), cfg.Timeout, m)

	return &OracleContainer{
		Client: client,
	}, nil
}
