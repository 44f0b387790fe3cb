// Package client provides the core implementation of the embeddable HTTP
// client built on [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithBaseURL("https://api.example.com"),
//		client.WithHeader("Accept", "application/json"),
//		client.WithTimeout(10 * time.Second),
//	)
//
// # Blocking Requests
//
// Each call composes the URL with [JoinURL], snapshots the default headers
// and blocks until the exchange finishes:
//
//	if err := c.Get(ctx, "/users/github"); err != nil { ... }
//	body, _ := c.ResponseBody()
//	fmt.Println(c.StatusCode(), body)
//
// Any completed exchange is recorded, whatever its status class. When a
// request fails to complete, only [Client.Err] changes; the previous body
// and status stay readable.
//
// # Async Requests
//
// One request at a time can run in the background:
//
//	if err := c.GetAsync(ctx, "/users/github"); err != nil { ... }
//	// ... do other work ...
//	err = c.Wait() // joins the worker and records the outcome
//
// Starting a second one before Wait returns fails with [ErrTaskInProgress];
// Wait with nothing outstanding fails with [ErrNoTaskInProgress]. Headers
// set after the start do not reach the running request.
//
// Clients that must share the one-outstanding-request limit can be built
// with the same [github.com/adamwoolhether/httpc/client/task.Slot] via [WithSlot].
package client
