// Package request defines the immutable description of one HTTP call
// ([Spec]), its result ([Outcome]) and the engine that runs it
// ([Executor]).
//
// # Executing
//
//	exec, err := request.NewExecutor(http.DefaultClient)
//	spec := request.New(request.MethodPost, "https://example.com/users", &body, []string{
//		"Content-Type: application/json",
//	})
//	out := exec.Execute(ctx, spec)
//	if !out.OK() { ... out.Err() ... }
//	fmt.Println(out.StatusCode(), out.Body())
//
// Only a failure to complete the exchange produces an error outcome. A 404
// or 500 is a successful exchange; inspect [Outcome.StatusCode].
package request
