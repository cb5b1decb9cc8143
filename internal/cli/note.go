package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stockwatch/internal/errors"
)

func newNoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage individual notes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "activate <id>",
		Short: "Re-activate a note so it is evaluated again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setNoteActive(cmd, app, args[0], true)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate a note without deleting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setNoteActive(cmd, app, args[0], false)
		},
	})

	return cmd
}

func setNoteActive(cmd *cobra.Command, app *App, id string, active bool) error {
	output := NewOutput(cmd)
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	if app.Store == nil {
		return errors.ErrStoreUnavailable
	}

	fullID, err := resolveNoteID(ctx, app, id)
	if err != nil {
		return err
	}

	if active {
		err = app.Store.Activate(ctx, fullID)
	} else {
		err = app.Store.Deactivate(ctx, fullID)
	}
	if err != nil {
		return err
	}

	state := "deactivated"
	if active {
		state = "activated"
	}
	if output.IsJSON() {
		return output.JSON(map[string]string{"id": fullID, "state": state})
	}
	output.Success("✓ Note %s %s.", shortID(fullID), state)
	return nil
}

// resolveNoteID accepts a full UUID or a unique prefix of one.
func resolveNoteID(ctx context.Context, app *App, id string) (string, error) {
	if _, err := app.Store.GetNoteByID(ctx, id); err == nil {
		return id, nil
	}

	notes, err := app.Store.GetNotes(ctx, true)
	if err != nil {
		return "", errors.Wrap(err, "loading notes")
	}

	var match string
	for i := range notes {
		if strings.HasPrefix(notes[i].ID, id) {
			if match != "" {
				return "", errors.Wrapf(errors.ErrNoteNotFound, "ambiguous note id %q", id)
			}
			match = notes[i].ID
		}
	}
	if match == "" {
		return "", errors.ErrNoteNotFound
	}
	return match, nil
}
