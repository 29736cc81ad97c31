package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/twinbot/internal/config"
	"github.com/sandevgo/twinbot/internal/transport/mcp"
	"github.com/sandevgo/twinbot/pkg/log"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:          "mcp",
	Short:        "Serve the twin as an MCP tool over stdio",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// stdout carries the protocol
		ctx, flushLog := log.NewContextWithOptions(ctx, log.Options{
			Debug: debug || config.IsDebug(),
			Out:   os.Stderr,
		})
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		return mcp.NewServer(app.cfg.SubjectName, app.twin, app.corpus, os.Stdin, os.Stdout).Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
