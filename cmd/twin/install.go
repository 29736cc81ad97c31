package main

import (
	"github.com/sandevgo/twinbot/internal/config"
	"github.com/sandevgo/twinbot/internal/service/installer"
	"github.com/sandevgo/twinbot/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:          "install",
	Short:        "Run the interactive setup wizard",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation")

		state, err := installer.RunWizard()
		if err != nil {
			return err
		}

		logger.Info().
			Str("subject", state.Setup.SubjectName).
			Str("provider", state.Setup.Provider).
			Str("runtime", config.GetRuntimePath()).
			Msg("installation complete")
		logger.Info().Msg("edit personal_data.json and PERSONA.md in the runtime directory, then run 'twin start'")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
