package answer

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/answer-api/internal/platform/logging"
)

// Register wires the root route into the provided API router.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-answer",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Get the answer",
		Description: "Returns the fixed payload {\"data\": 42}. Request headers, query and body are ignored.",
	}, getHandler)
}

func getHandler(ctx context.Context, _ *struct{}) (*GetOutput, error) {
	applog.LogDebug(ctx, "answer served", zap.Int("data", Value))
	return &GetOutput{Body: Data{Data: Value}}, nil
}
