package translator

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/querylens/querylens/pkg/config"
)

// New builds the Translator named by cfg.Provider.
func New(cfg config.TranslatorConfig, logger *zap.Logger) (Translator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAITranslator(cfg.BaseURL, cfg.Model, cfg.APIKey, cfg.Timeout(), logger)
	case config.ProviderAnthropic:
		return NewAnthropicTranslator(cfg.Model, cfg.APIKey, cfg.Timeout(), logger)
	default:
		return nil, fmt.Errorf("unknown translator provider: %q", cfg.Provider)
	}
}
