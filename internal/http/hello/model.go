package hello

// Greeting models the response payload for the greeting route.
type Greeting struct {
	Greeting string `json:"greeting" doc:"Greeting addressed to the caller" example:"Hello, Alice!"`
	Message  string `json:"message" doc:"Welcome message" example:"Welcome to the API, Alice"`
}

// GreetOutput is the response wrapper for GET /hello/{name}.
type GreetOutput struct {
	Body Greeting
}
