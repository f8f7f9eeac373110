package hello

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/task-manager-api/internal/platform/logging"
)

// Register wires the greeting route into the provided API router.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "greet",
		Method:      http.MethodGet,
		Path:        "/hello/{name}",
		Summary:     "Greet someone by name",
		Tags:        []string{"Greetings"},
	}, greetHandler)
}

func greetHandler(ctx context.Context, input *GreetInput) (*GreetOutput, error) {
	// An encoded slash decodes into a second path segment, which no route matches.
	if strings.Contains(input.Name, "/") {
		return nil, huma.Error404NotFound("resource not found")
	}
	applog.LogInfo(ctx, "hello get", zap.String("path", "/hello/{name}"), zap.String("name", input.Name))
	return &GreetOutput{Body: greet(input.Name)}, nil
}

// greet embeds name unchanged in both fields.
func greet(name string) Greeting {
	return Greeting{
		Greeting: "Hello, " + name + "!",
		Message:  "Welcome to the API, " + name,
	}
}
