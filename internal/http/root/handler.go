package root

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/task-manager-api/internal/api"
	applog "github.com/janisto/task-manager-api/internal/platform/logging"
)

const (
	welcomeMessage = "Hello World! Welcome to your " + api.Title
	statusRunning  = "running"

	aboutDescription = "My first API built while learning!"
	aboutAuthor      = "You!"
	learningModule   = "Module 2"
)

// Register wires the root and about routes into the provided API router.
func Register(a huma.API) {
	huma.Register(a, huma.Operation{
		OperationID: "get-root",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Welcome message",
		Tags:        []string{"General"},
	}, welcomeHandler)

	huma.Register(a, huma.Operation{
		OperationID: "get-about",
		Method:      http.MethodGet,
		Path:        "/about",
		Summary:     "Information about this API",
		Tags:        []string{"General"},
	}, aboutHandler)
}

func welcomeHandler(ctx context.Context, _ *struct{}) (*WelcomeOutput, error) {
	applog.LogInfo(ctx, "root get", zap.String("path", "/"))
	return &WelcomeOutput{Body: WelcomeData{
		Message: welcomeMessage,
		Status:  statusRunning,
		Version: api.Version,
	}}, nil
}

func aboutHandler(ctx context.Context, _ *struct{}) (*AboutOutput, error) {
	applog.LogInfo(ctx, "about get", zap.String("path", "/about"))
	return &AboutOutput{Body: AboutData{
		Name:           api.Title,
		Version:        api.Version,
		Description:    aboutDescription,
		Author:         aboutAuthor,
		LearningModule: learningModule,
	}}, nil
}
