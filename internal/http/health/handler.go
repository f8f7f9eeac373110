package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/task-manager-api/internal/platform/logging"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status  string `json:"status" doc:"Health state" example:"healthy"`
	Message string `json:"message" doc:"Human readable status" example:"API is running perfectly!"`
}

// Output is the response wrapper for GET /health.
type Output struct {
	Body Response
}

// Register wires the health route into the provided API router.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Check if API is healthy",
		Tags:        []string{"Health"},
	}, handler)
}

func handler(ctx context.Context, _ *struct{}) (*Output, error) {
	applog.LogInfo(ctx, "health check", zap.String("path", "/health"))
	return &Output{Body: Response{Status: "healthy", Message: "API is running perfectly!"}}, nil
}
