package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"stockwatch/internal/errors"
)

func newModelsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models available at the configured LLM endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if app.LLMParser == nil {
				output.Error("LLM parser not configured. Set OPENAI_API_KEY or add it to credentials.toml.")
				return errors.ErrParserNotReady
			}

			ids, err := app.LLMParser.ListModels(ctx)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(ids)
			}

			output.Bold("Available models:")
			for _, id := range ids {
				output.Printf("  %s\n", id)
			}
			output.Println()
			output.Dim("Set llm.model in config.toml (or OPENAI_MODEL) to switch.")
			return nil
		},
	}
}
