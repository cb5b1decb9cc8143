package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stockwatch/internal/errors"
)

func newDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete notes",
		Long: `Delete a single note by ID, or groups of notes by flag.

Exactly one of: a note ID argument, --symbol, --inactive, or --all.`,
		Example: `  stockwatch delete 4f7c21aa
  stockwatch delete --symbol NVDA
  stockwatch delete --inactive
  stockwatch delete --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			if app.Store == nil {
				return errors.ErrStoreUnavailable
			}

			symbol, _ := cmd.Flags().GetString("symbol")
			inactive, _ := cmd.Flags().GetBool("inactive")
			all, _ := cmd.Flags().GetBool("all")

			selectors := 0
			if len(args) > 0 {
				selectors++
			}
			if symbol != "" {
				selectors++
			}
			if inactive {
				selectors++
			}
			if all {
				selectors++
			}
			if selectors != 1 {
				return fmt.Errorf("specify exactly one of: note ID, --symbol, --inactive, --all")
			}

			switch {
			case len(args) > 0:
				fullID, err := resolveNoteID(ctx, app, args[0])
				if err != nil {
					return err
				}
				if err := app.Store.DeleteByID(ctx, fullID); err != nil {
					return err
				}
				output.Success("✓ Deleted note %s.", shortID(fullID))
				return nil

			case symbol != "":
				n, err := app.Store.DeleteBySymbol(ctx, symbol)
				if err != nil {
					return err
				}
				output.Success("✓ Deleted %d note(s) for %s.", n, symbol)
				return nil

			case inactive:
				n, err := app.Store.DeleteInactive(ctx)
				if err != nil {
					return err
				}
				output.Success("✓ Deleted %d inactive note(s).", n)
				return nil

			default:
				n, err := app.Store.DeleteAll(ctx)
				if err != nil {
					return err
				}
				output.Success("✓ Deleted all %d note(s).", n)
				return nil
			}
		},
	}

	cmd.Flags().String("symbol", "", "delete every note for this symbol")
	cmd.Flags().Bool("inactive", false, "delete all inactive notes")
	cmd.Flags().Bool("all", false, "delete every note")
	return cmd
}
