package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/httpc/client"
	"github.com/adamwoolhether/httpc/client/header"
)

type doFlags struct {
	data      string
	headers   []string
	async     bool
	timeout   time.Duration
	rps       int
	noFollow  bool
	userAgent string
}

func newDoCmd() *cobra.Command {
	var f doFlags

	cmd := &cobra.Command{
		Use:   "do <METHOD> <url>",
		Short: "Send one request and print its status and body",
		Long: `Send one GET, POST, PUT or DELETE request and print the recorded status
line followed by the body.

Examples:
  httpc do GET http://127.0.0.1:8080/anything
  httpc do POST http://127.0.0.1:8080/anything -d 'a=1' -H 'X-Trace: 1'
  httpc do DELETE http://127.0.0.1:8080/anything --async`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDo(cmd, strings.ToUpper(args[0]), args[1], f)
		},
	}

	cmd.Flags().StringVarP(&f.data, "data", "d", "", "Body sent with POST and PUT")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, `Header line "Key: value" (repeatable)`)
	cmd.Flags().BoolVar(&f.async, "async", false, "Start the request in the background and wait for it")
	cmd.Flags().DurationVarP(&f.timeout, "timeout", "t", 30*time.Second, "Overall request timeout")
	cmd.Flags().IntVar(&f.rps, "rps", 0, "Throttle to this many requests per second (0 disables)")
	cmd.Flags().BoolVar(&f.noFollow, "no-follow", false, "Do not follow redirects")
	cmd.Flags().StringVar(&f.userAgent, "user-agent", "httpc/cli", "User-Agent header")

	return cmd
}

func runDo(cmd *cobra.Command, method, url string, f doFlags) error {
	opts := []client.Option{
		client.WithLogger(logger(cmd)),
		client.WithTimeout(f.timeout),
		client.WithUserAgent(f.userAgent),
	}
	if f.rps > 0 {
		opts = append(opts, client.WithThrottle(f.rps, f.rps))
	}
	if f.noFollow {
		opts = append(opts, client.WithNoFollowRedirects())
	}
	for _, line := range f.headers {
		k, v, ok := header.Parse(line)
		if !ok {
			return fmt.Errorf("invalid header %q: want \"Key: value\"", line)
		}
		opts = append(opts, client.WithHeader(k, v))
	}

	c, err := client.Build(opts...)
	if err != nil {
		return fmt.Errorf("building client: %w", err)
	}

	if err := send(cmd, c, method, url, f); err != nil {
		return err
	}

	body, _ := c.ResponseBody()
	fmt.Fprintf(cmd.OutOrStdout(), "%d\n%s\n", c.StatusCode(), body)

	return nil
}

func send(cmd *cobra.Command, c *client.Client, method, url string, f doFlags) error {
	ctx := cmd.Context()

	if f.async {
		var err error
		switch method {
		case "GET":
			err = c.GetAsync(ctx, url)
		case "POST":
			err = c.PostAsync(ctx, url, f.data)
		case "PUT":
			err = c.PutAsync(ctx, url, f.data)
		case "DELETE":
			err = c.DeleteAsync(ctx, url)
		default:
			return fmt.Errorf("unsupported method %q", method)
		}
		if err != nil {
			return err
		}

		return c.Wait()
	}

	switch method {
	case "GET":
		return c.Get(ctx, url)
	case "POST":
		return c.Post(ctx, url, f.data)
	case "PUT":
		return c.Put(ctx, url, f.data)
	case "DELETE":
		return c.Delete(ctx, url)
	default:
		return fmt.Errorf("unsupported method %q", method)
	}
}
