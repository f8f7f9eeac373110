package hello

// GreetInput carries the name taken from the last path segment. Any string
// without a slash is accepted.
type GreetInput struct {
	Name string `path:"name" doc:"Name to greet" example:"Alice"`
}
