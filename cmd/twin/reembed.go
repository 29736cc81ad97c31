package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reembedCmd = &cobra.Command{
	Use:          "reembed",
	Short:        "Drop stored fact embeddings and recompute them",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		count, err := app.corpus.Refresh(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Re-embedded %d static facts\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reembedCmd)
}
