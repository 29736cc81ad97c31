package main

import (
	"fmt"

	"github.com/sandevgo/twinbot/internal/service/eval"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:          "eval [cases.yaml]",
	Short:        "Run the evaluation suite against the twin",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		path := app.cfg.GetEvalPath()
		if len(args) == 1 {
			path = args[0]
		}

		cases, err := eval.LoadCases(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Running %d evaluation cases\n", len(cases))

		report := eval.NewHarness(app.twin).Run(ctx, cases, func(r eval.Result) {
			eval.RenderResult(out, r)
		})
		eval.RenderSummary(out, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
