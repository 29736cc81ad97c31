package main

import (
	"fmt"
	"strings"

	"github.com/sandevgo/twinbot/internal/service/ui"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:          "ask <question>",
	Short:        "Ask the twin a single question",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		answer, err := app.twin.Ask(ctx, strings.Join(args, " "), nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, answer.Text)

		fmt.Fprintln(out, "\n"+ui.TitleStyle.Render("Chunks"))
		for i, c := range answer.Chunks {
			fmt.Fprintf(out, "%d. %s\n", i+1, c)
		}

		fmt.Fprintln(out, "\n"+ui.TitleStyle.Render("Sources"))
		for _, src := range answer.Sources {
			fmt.Fprintln(out, ui.DescStyle.Render(fmt.Sprintf("[%s %.3f] %s", src.Type, src.Score, src.Preview)))
		}

		fmt.Fprintf(out, "\nConfidence: %.1f%%\n", answer.Confidence*100)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
