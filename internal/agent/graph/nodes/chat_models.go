package nodes

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/telecom-assist-poc/server/internal/agent/model"
	errx "github.com/telecom-assist-poc/server/internal/core/error"
	logx "github.com/telecom-assist-poc/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation.
type ChatModelConfig struct {
	APIKey   string
	BaseURL  string
	Analysis *model.AnalysisModelConfig
	Advisory *model.AdvisoryModelConfig
}

// ChatModels holds the two models the handlers work with: a low-temperature
// analysis model for technical passes and a warmer advisory model for
// customer-facing text. Both fields are the Eino chat-model interface so
// tests can substitute stubs.
type ChatModels struct {
	Analysis          einomodel.BaseChatModel
	Advisory          einomodel.BaseChatModel
	AnalysisModelName string
	AdvisoryModelName string
}

// NewChatModels creates both chat models with the given configuration.
// A missing API key is a configuration error: the caller is expected to keep
// running and surface it as text, not crash.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.APIKey == "" {
		return nil, errx.NewConfig(errors.New("GEMINI_API_KEY is not set"))
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, errx.NewConfig(fmt.Errorf("create Gemini client: %w", err))
	}

	analysis, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Analysis.Model,
		Temperature: &config.Analysis.Temperature,
		MaxTokens:   &config.Analysis.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating analysis model")
		return nil, errx.NewConfig(fmt.Errorf("create analysis model: %w", err))
	}

	advisory, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Advisory.Model,
		Temperature: &config.Advisory.Temperature,
		MaxTokens:   &config.Advisory.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating advisory model")
		return nil, errx.NewConfig(fmt.Errorf("create advisory model: %w", err))
	}

	return &ChatModels{
		Analysis:          analysis,
		Advisory:          advisory,
		AnalysisModelName: config.Analysis.Model,
		AdvisoryModelName: config.Advisory.Model,
	}, nil
}
