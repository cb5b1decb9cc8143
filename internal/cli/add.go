package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stockwatch/internal/errors"
	"stockwatch/internal/models"
	"stockwatch/pkg/utils"
)

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new stock note",
		Long: `Parse a free-text stock note into structured conditions and save it.

The note text is taken from --text, or read from stdin when the flag is
omitted (finish input with an empty line).`,
		Example: `  stockwatch add --text "I bought NVDA at 170, alert me above 200"
  stockwatch add`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			if app.Parser == nil {
				output.Error("LLM parser not configured. Set OPENAI_API_KEY or add it to credentials.toml.")
				return errors.ErrParserNotReady
			}
			if app.Store == nil {
				return errors.ErrStoreUnavailable
			}

			text, _ := cmd.Flags().GetString("text")
			if text == "" {
				text = readNoteFromStdin(output)
			}
			if strings.TrimSpace(text) == "" {
				output.Error("No text provided.")
				return errors.ErrEmptyInput
			}

			output.Info("Processing your note...")

			parsed, err := app.Parser.Parse(ctx, text)
			if err != nil {
				return errors.Wrap(err, "parsing note")
			}

			printParsed(output, parsed)

			// Notes the quote provider can never resolve are rejected up
			// front instead of idling in the database.
			if parsed.Symbol == "" {
				output.Error("Could not identify a stock symbol in the note. Nothing saved.")
				return errors.ErrNoSymbol
			}

			note := models.NewNote(text, parsed.Symbol, parsed.ActionType, parsed.BuyPrice,
				parsed.Conditions, parsed.UserOpinion)

			if err := app.Store.InsertNote(ctx, note); err != nil {
				return errors.Wrap(err, "saving note")
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": note.ID, "symbol": note.Symbol})
			}
			output.Success("✓ Note saved successfully! (ID: %s)", note.ID)
			return nil
		},
	}

	cmd.Flags().String("text", "", "stock note text (reads stdin when omitted)")
	return cmd
}

// readNoteFromStdin collects lines until the first empty line.
func readNoteFromStdin(output *Output) string {
	output.Println("Enter your stock note (finish with an empty line):")

	var lines []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func printParsed(output *Output, parsed *models.ParsedNote) {
	if output.IsJSON() {
		return
	}

	output.Println()
	output.Bold("Parsed data:")
	output.Printf("  Symbol:    %s\n", valueOrNA(parsed.Symbol))
	output.Printf("  Action:    %s\n", valueOrNA(string(parsed.ActionType)))
	if parsed.BuyPrice != nil {
		output.Printf("  Buy Price: %s\n", utils.FormatPrice(*parsed.BuyPrice))
	} else {
		output.Printf("  Buy Price: N/A\n")
	}
	output.Printf("  Conditions: %s\n", summarizeConditions(parsed.Conditions))
	if parsed.UserOpinion != "" {
		output.Printf("  Opinion:   %s\n", parsed.UserOpinion)
	}
	output.Println()
}

func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// summarizeConditions renders a compact one-line view of the set conditions.
func summarizeConditions(c models.Conditions) string {
	var parts []string

	if c.PriceAbove != nil {
		parts = append(parts, fmt.Sprintf("above %s", utils.FormatPrice(*c.PriceAbove)))
	}
	if c.PriceBelow != nil {
		parts = append(parts, fmt.Sprintf("below %s", utils.FormatPrice(*c.PriceBelow)))
	}
	if c.PriceBetween != nil {
		parts = append(parts, fmt.Sprintf("between %s-%s",
			utils.FormatPrice(c.PriceBetween.Min), utils.FormatPrice(c.PriceBetween.Max)))
	}
	if c.PercentDrop != nil {
		parts = append(parts, fmt.Sprintf("drop %.0f%%", *c.PercentDrop))
	}
	if c.PercentChange != nil {
		parts = append(parts, fmt.Sprintf("move %.0f%%", *c.PercentChange))
	}
	if c.PercentAboveBuy != nil {
		parts = append(parts, fmt.Sprintf("gain %.0f%%", *c.PercentAboveBuy))
	}
	if c.ReminderDays != nil {
		parts = append(parts, fmt.Sprintf("remind in %dd", *c.ReminderDays))
	}
	if c.TimePeriodDays != nil {
		parts = append(parts, fmt.Sprintf("review in %dd", *c.TimePeriodDays))
	}
	if c.TrailingStop != nil {
		parts = append(parts, fmt.Sprintf("stop %s", utils.FormatPrice(*c.TrailingStop)))
	}

	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
