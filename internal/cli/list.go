package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"stockwatch/internal/errors"
	"stockwatch/pkg/utils"
)

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stock notes",
		Example: `  stockwatch list
  stockwatch list --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			if app.Store == nil {
				return errors.ErrStoreUnavailable
			}

			includeInactive, _ := cmd.Flags().GetBool("all")
			notes, err := app.Store.GetNotes(ctx, includeInactive)
			if err != nil {
				return errors.Wrap(err, "loading notes")
			}

			if output.IsJSON() {
				return output.JSON(notes)
			}

			if len(notes) == 0 {
				output.Println("No notes found.")
				return nil
			}

			table := NewTable(output, "ID", "Symbol", "Action", "Buy", "Conditions", "Checked", "Active")
			for i := range notes {
				note := &notes[i]

				buy := "-"
				if note.BuyPrice != nil {
					buy = utils.FormatPrice(*note.BuyPrice)
				}
				checked := "never"
				if note.LastChecked != nil {
					checked = utils.FormatAge(*note.LastChecked)
				}
				active := "no"
				if note.Active {
					active = "yes"
				}

				table.AddRow(
					shortID(note.ID),
					note.Symbol,
					string(note.ActionType),
					buy,
					summarizeConditions(note.Conditions),
					checked,
					active,
				)
			}
			table.Render()

			output.Println()
			output.Dim("%d note(s). Use the full or short ID with 'note' and 'delete' commands.", len(notes))
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "include inactive notes")
	return cmd
}

// shortID returns the leading segment of a UUID, enough to identify a note
// in a small personal database.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
