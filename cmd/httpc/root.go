package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var verboseFlag bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "httpc",
		Short: "Send HTTP requests through the httpc client",
		Long: `httpc issues blocking or async requests with the embeddable httpc
client and prints the recorded status and body.

It can also serve the echo service, which reflects every request back as
JSON, to experiment against.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log at debug level")

	root.AddCommand(newDoCmd())
	root.AddCommand(newEchoCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verboseFlag {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
