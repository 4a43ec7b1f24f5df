// Package api provides the chat-completion client used for command suggestions.
//
// # Architecture
//
//   - client.go: ChatClient interface and the error sentinels shared by clients
//   - openrouter.go: OpenRouter-compatible HTTP implementation and wire types
//
// The client performs exactly one POST per call. It does not retry, stream
// or cache; the caller decides how each failure is presented.
//
// # Errors
//
//   - ErrTransport: network failure or timeout (wrapped, use errors.Is)
//   - *APIError: the endpoint answered with a non-2xx status
//   - ErrMalformedResponse: a 2xx body that does not decode or has no content
//
// # Usage
//
//	cfg := config.NewConfig()
//	if err := cfg.Validate(); err != nil {
//	    // handle error
//	}
//	client := api.NewClient(cfg)
//	resp, err := client.Complete(ctx, []api.Message{
//	    {Role: api.RoleSystem, Content: "..."},
//	    {Role: api.RoleUser, Content: "list files"},
//	})
package api
