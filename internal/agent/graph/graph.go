// Package graph assembles the assistant pipeline: classifier, routing
// branch, one domain handler per intent, aggregator. It compiles to a single
// Eino runnable invoked once per user query.
package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/telecom-assist-poc/server/internal/agent/graph/nodes"
	"github.com/telecom-assist-poc/server/internal/agent/graph/observers"
	"github.com/telecom-assist-poc/server/internal/agent/graph/route"
	"github.com/telecom-assist-poc/server/internal/agent/handlers"
	"github.com/telecom-assist-poc/server/internal/agent/model"
	"github.com/telecom-assist-poc/server/internal/knowledge"
	"github.com/telecom-assist-poc/server/internal/store"
	logx "github.com/telecom-assist-poc/server/pkg/logger"
)

// Runner is a thin wrapper to execute the compiled graph with the public QueryInput.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
}

// Config holds everything needed to compose the full assistant graph end-to-end.
type Config struct {
	APIKey  string
	BaseURL string

	Analysis  model.AnalysisModelConfig
	Advisory  model.AdvisoryModelConfig
	Prompt    model.PromptConfig
	Knowledge model.KnowledgeConfig

	Store   *store.Store
	Library *knowledge.Library
}

// GraphConfig holds all configuration needed to build the graph.
type GraphConfig struct {
	// Handlers maps handler node names (route package constants) to their
	// implementations. All five must be present.
	Handlers map[string]handlers.Handler
}

// GraphBuilder handles the construction of the assistant graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, string]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, string]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	return r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
}

// BuildAssistantGraph constructs the chat models and handlers, builds the
// graph, and returns a Runner. A model configuration failure (missing API
// key, unreachable provider setup) does not abort the build: the handlers
// are wired with the error and every model-backed reply degrades to a
// diagnostic message, so the service stays up.
func BuildAssistantGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if cfg.Library == nil {
		return nil, fmt.Errorf("knowledge library is nil")
	}

	deps := handlers.Deps{
		Store:   cfg.Store,
		Library: cfg.Library,
		Prompt:  cfg.Prompt,
		TopK:    cfg.Knowledge.TopK,
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Analysis: &cfg.Analysis,
		Advisory: &cfg.Advisory,
	})
	if err != nil {
		logx.Warn().Err(err).Msg("Chat models unavailable; handlers will reply with diagnostics")
		deps.ConfigErr = err
	} else {
		deps.Analysis = cms.Analysis
		deps.Advisory = cms.Advisory
		deps.AnalysisModelName = cms.AnalysisModelName
		deps.AdvisoryModelName = cms.AdvisoryModelName
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		Handlers: map[string]handlers.Handler{
			route.NodeBillingHandler:   handlers.NewBilling(deps),
			route.NodeNetworkHandler:   handlers.NewNetwork(deps),
			route.NodePlanHandler:      handlers.NewPlan(deps),
			route.NodeKnowledgeHandler: handlers.NewKnowledge(deps),
			route.NodeFallbackHandler:  handlers.NewFallback(),
		},
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Assistant graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled assistant graph.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, string], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	for name := range route.Targets() {
		if config.Handlers[name] == nil {
			return nil, fmt.Errorf("handler for node %q is missing", name)
		}
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, string](
			compose.WithGenLocalState(func(ctx context.Context) *model.RequestState {
				return &model.RequestState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeClassifier,
		nodes.NewClassifierNode(),
		compose.WithStatePreHandler(nodes.NewClassifierPreHandler()),
		compose.WithStatePostHandler(nodes.NewClassifierPostHandler()),
	)

	for name, h := range b.config.Handlers {
		b.graph.AddLambdaNode(name,
			nodes.NewHandlerNode(h),
			compose.WithStatePostHandler(nodes.NewHandlerPostHandler(h.Name())),
		)
	}

	b.graph.AddLambdaNode(nodes.NodeAggregator,
		nodes.NewAggregatorNode(),
		compose.WithStatePostHandler(nodes.NewAggregatorPostHandler()),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeClassifier},
		{route.NodeBillingHandler, nodes.NodeAggregator},
		{route.NodeNetworkHandler, nodes.NodeAggregator},
		{route.NodePlanHandler, nodes.NodeAggregator},
		{route.NodeKnowledgeHandler, nodes.NodeAggregator},
		{route.NodeFallbackHandler, nodes.NodeAggregator},
		{nodes.NodeAggregator, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the intent routing branch
func (b *GraphBuilder) addBranches() error {
	routingBranch := compose.NewGraphBranch(
		nodes.NewRouteCondition(),
		route.Targets(),
	)
	if err := b.graph.AddBranch(nodes.NodeClassifier, routingBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding routing branch")
		return fmt.Errorf("error adding routing branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, string], error) {
	// One linear pass plus the branch: a small fixed step limit suffices.
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(10))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
