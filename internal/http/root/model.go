package root

// WelcomeData is the payload of the root route.
type WelcomeData struct {
	Message string `json:"message" doc:"Welcome message" example:"Hello World! Welcome to your Task Manager API"`
	Status  string `json:"status" doc:"Service state" example:"running"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// WelcomeOutput is the response wrapper for GET /.
type WelcomeOutput struct {
	Body WelcomeData
}

// AboutData describes the API.
type AboutData struct {
	Name           string `json:"name" doc:"API name" example:"Task Manager API"`
	Version        string `json:"version" doc:"API version" example:"1.0.0"`
	Description    string `json:"description" doc:"Short description" example:"My first API built while learning!"`
	Author         string `json:"author" doc:"Author" example:"You!"`
	LearningModule string `json:"learning_module" doc:"Course module the API belongs to" example:"Module 2"`
}

// AboutOutput is the response wrapper for GET /about.
type AboutOutput struct {
	Body AboutData
}
