package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/telecom-assist-poc/server/internal/agent/graph"
	"github.com/telecom-assist-poc/server/internal/agent/model"
	"github.com/telecom-assist-poc/server/internal/agent/repo"
	"github.com/telecom-assist-poc/server/internal/core"
	"github.com/telecom-assist-poc/server/internal/knowledge"
	"github.com/telecom-assist-poc/server/internal/server"
	"github.com/telecom-assist-poc/server/internal/store"
	logx "github.com/telecom-assist-poc/server/pkg/logger"
)

// AppConfig defines all configurable parameters for the assistant, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// LLM provider. The API key is not marked required: a missing key keeps
	// the server up and the handlers reply with a configuration diagnostic.
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Analysis  model.AnalysisModelConfig
	Advisory  model.AdvisoryModelConfig
	Prompt    model.PromptConfig
	Store     model.StoreConfig
	Knowledge model.KnowledgeConfig

	// Presentation
	HTTP server.Config
}

func main() {
	ctx := context.Background()

	env := core.EnvironmentFromOS()
	logx.Init(env)

	if err := godotenv.Load(".env"); err != nil {
		logx.Warn().Err(err).Msg("Could not load .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("Failed to process environment config")
	}

	db := store.Open(cfg.Store.Path)
	library := knowledge.NewLibrary(cfg.Knowledge.DocsDir)

	runner, err := graph.BuildAssistantGraph(ctx, graph.Config{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Analysis:  cfg.Analysis,
		Advisory:  cfg.Advisory,
		Prompt:    cfg.Prompt,
		Knowledge: cfg.Knowledge,
		Store:     db,
		Library:   library,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build assistant graph")
	}

	transcripts := repo.NewMemoryTranscriptRepository()
	sessions := server.NewSessionManager(transcripts)
	srv := server.New(runner, sessions, transcripts)

	logx.Info().
		Str("addr", cfg.HTTP.Addr).
		Str("env", env.String()).
		Str("db", cfg.Store.Path).
		Str("docs", cfg.Knowledge.DocsDir).
		Msg("Assistant server listening")

	if err := http.ListenAndServe(cfg.HTTP.Addr, srv.Handler()); err != nil {
		logx.Fatal().Err(err).Msg("HTTP server stopped")
	}
}
