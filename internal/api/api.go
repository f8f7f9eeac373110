// Package api builds the huma API that every route module registers against.
package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
)

// API identity, published in the OpenAPI document and echoed by the root and about routes.
const (
	Title       = "Task Manager API"
	Description = "Learning API Development from Scratch"
	Version     = "1.0.0"
)

// DocsPath serves the interactive API reference. The OpenAPI document itself
// is served at /openapi.json and /openapi.yaml.
const DocsPath = "/docs"

// NewConfig returns the huma configuration for the service.
func NewConfig() huma.Config {
	cfg := huma.DefaultConfig(Title, Version)
	cfg.Info.Description = Description
	cfg.DocsPath = DocsPath
	// Drop the default schema-link hook: response bodies carry exactly their
	// declared fields, with no "$schema" key and no Link header.
	cfg.CreateHooks = nil
	return cfg
}

// New mounts a huma API on router.
func New(router chi.Router) huma.API {
	api := humachi.New(router, NewConfig())
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContent)
	return api
}

// addCBORContent documents application/cbor next to every application/json
// request and response body.
func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}
