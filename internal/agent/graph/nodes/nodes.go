package nodes

import (
	"context"

	"github.com/cloudwego/eino/compose"

	"github.com/telecom-assist-poc/server/internal/agent/graph/aggregate"
	"github.com/telecom-assist-poc/server/internal/agent/graph/classify"
	"github.com/telecom-assist-poc/server/internal/agent/graph/route"
	"github.com/telecom-assist-poc/server/internal/agent/handlers"
	"github.com/telecom-assist-poc/server/internal/agent/model"
	logx "github.com/telecom-assist-poc/server/pkg/logger"
)

// Non-handler node names. Handler node names live in the route package since
// the routing branch returns them.
const (
	NodeClassifier = "classifier"
	NodeAggregator = "aggregator"
)

// NewClassifierPreHandler seeds the request state from the public input
// before classification runs.
func NewClassifierPreHandler() func(context.Context, model.QueryInput, *model.RequestState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.RequestState) (model.QueryInput, error) {
		s.SessionID = in.SessionID
		s.Query = in.Query
		s.Customer = in.Customer
		s.Classification = ""
		s.Intermediate = nil
		s.FinalResponse = ""
		return in, nil
	}
}

// NewClassifierNode creates the classifier node. Classification is a pure
// keyword pass, so the node never fails.
func NewClassifierNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) (model.IntentLabel, error) {
		return classify.Classify(input.Query), nil
	})
}

// NewClassifierPostHandler records the classification in the request state.
func NewClassifierPostHandler() func(context.Context, model.IntentLabel, *model.RequestState) (model.IntentLabel, error) {
	return func(ctx context.Context, out model.IntentLabel, s *model.RequestState) (model.IntentLabel, error) {
		s.Classification = out
		logx.Debug().
			Str("session_id", s.SessionID).
			Str("intent", out.String()).
			Msg("Query classified")
		return out, nil
	}
}

// NewRouteCondition creates the branch condition mapping the intent label to
// a handler node name.
func NewRouteCondition() func(context.Context, model.IntentLabel) (string, error) {
	return func(ctx context.Context, label model.IntentLabel) (string, error) {
		node := route.Route(label)
		logx.Debug().Str("intent", label.String()).Str("node", node).Msg("Routing to handler")
		return node, nil
	}
}

// NewHandlerNode wraps a domain handler as a graph node. The query and
// customer come from the request state; the label input only drove routing.
func NewHandlerNode(h handlers.Handler) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.IntentLabel) (string, error) {
		var query string
		var customer model.Customer
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.RequestState) error {
			query = s.Query
			customer = s.Customer
			return nil
		})
		if err != nil {
			return "", err
		}
		return h.Handle(ctx, query, customer), nil
	})
}

// NewHandlerPostHandler records the handler's output in the request state.
func NewHandlerPostHandler(name string) func(context.Context, string, *model.RequestState) (string, error) {
	return func(ctx context.Context, out string, s *model.RequestState) (string, error) {
		s.Record(name, out)
		return out, nil
	}
}

// NewAggregatorNode creates the aggregator node. It ignores its direct input
// and reads the gathered handler outputs from the request state.
func NewAggregatorNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ string) (string, error) {
		var outputs []model.HandlerOutput
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.RequestState) error {
			outputs = s.Intermediate
			return nil
		})
		if err != nil {
			return "", err
		}
		return aggregate.Final(outputs), nil
	})
}

// NewAggregatorPostHandler records the final response in the request state.
func NewAggregatorPostHandler() func(context.Context, string, *model.RequestState) (string, error) {
	return func(ctx context.Context, out string, s *model.RequestState) (string, error) {
		s.FinalResponse = out
		return out, nil
	}
}
