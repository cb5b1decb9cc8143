package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"stockwatch/internal/errors"
	"stockwatch/internal/evaluator"
	"stockwatch/internal/notify"
)

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check all active notes and show alerts",
		Long: `Evaluate every active note against live market prices.

Each note's conditions are checked against the current quote; notes whose
conditions trigger produce an alert and are deactivated so they do not fire
again. Every evaluated note records a checked timestamp.`,
		Example: `  stockwatch check
  stockwatch check --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			if app.Store == nil {
				return errors.ErrStoreUnavailable
			}

			if !output.IsJSON() {
				output.Info("Checking stock conditions...")
				output.Println()
			}

			checker := evaluator.NewChecker(app.Store, app.Provider, app.Logger)
			alerts, checked, err := checker.CheckAll(ctx)
			if err != nil {
				return err
			}

			if checked == 0 {
				if output.IsJSON() {
					return output.JSON(map[string]interface{}{"checked": 0, "alerts": []struct{}{}})
				}
				output.Println("No active notes found.")
				return nil
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"checked": checked,
					"alerts":  alerts,
				})
			}

			output.Printf("Found %d active note(s).\n", checked)

			channels := []notify.Notifier{
				notify.NewTerminal(output.Writer(), output.ColorEnabled()),
			}
			if app.Config.Notifications.Webhook.Enabled {
				channels = append(channels, notify.NewWebhook(app.Config.Notifications.Webhook.URL))
			}
			if err := notify.Fanout(ctx, alerts, channels...); err != nil {
				app.Logger.Warn().Err(err).Msg("Notification channel failed")
			}

			if len(alerts) > 0 {
				output.Success("✓ Checked %d note(s), %d alert(s) triggered.", checked, len(alerts))
			} else {
				output.Success("✓ Checked %d note(s), no alerts.", checked)
			}
			return nil
		},
	}
}
