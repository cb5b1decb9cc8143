package notify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"stockwatch/internal/models"
	"stockwatch/pkg/utils"
)

// ANSI color codes for alert panels.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

const panelWidth = 60

// Terminal renders alerts as boxed panels on a writer.
type Terminal struct {
	writer       io.Writer
	colorEnabled bool
}

// NewTerminal creates a terminal alert renderer.
func NewTerminal(w io.Writer, colorEnabled bool) *Terminal {
	return &Terminal{writer: w, colorEnabled: colorEnabled}
}

// Name returns the channel name.
func (t *Terminal) Name() string {
	return "terminal"
}

// Notify renders all alerts. With no alerts it prints a quiet confirmation.
func (t *Terminal) Notify(_ context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		fmt.Fprintln(t.writer, t.color(colorGreen, "✓")+" No alerts at this time.")
		return nil
	}

	fmt.Fprintf(t.writer, "\n%s\n\n", t.color(colorBold+colorYellow,
		fmt.Sprintf("Found %d alert(s):", len(alerts))))

	for i := range alerts {
		t.showAlert(&alerts[i])
	}
	return nil
}

// showAlert renders a single alert panel.
func (t *Terminal) showAlert(alert *models.Alert) {
	rule := strings.Repeat("=", panelWidth)

	fmt.Fprintln(t.writer, rule)
	fmt.Fprintln(t.writer, t.color(colorBold+colorRed, "STOCK ALERT: "+alert.Symbol))
	fmt.Fprintln(t.writer, rule)
	fmt.Fprintln(t.writer, t.color(colorYellow, "Current Price: "+utils.FormatPrice(alert.CurrentPrice)))

	if alert.BuyPrice != nil {
		change := alert.CurrentPrice - *alert.BuyPrice
		percent := change / *alert.BuyPrice * 100
		line := fmt.Sprintf("Buy Price: %s | Change: %s (%s)",
			utils.FormatPrice(*alert.BuyPrice), utils.FormatChange(change), utils.FormatPercent(percent))
		fmt.Fprintln(t.writer, t.color(colorCyan, line))
	}

	fmt.Fprintln(t.writer)
	fmt.Fprintln(t.writer, t.color(colorBold, "Conditions Met:"))
	for _, reason := range alert.Reasons {
		fmt.Fprintf(t.writer, "  • %s\n", reason)
	}

	if alert.UserOpinion != "" {
		fmt.Fprintln(t.writer)
		fmt.Fprintln(t.writer, t.color(colorDim, "Note: "+alert.UserOpinion))
	}

	fmt.Fprintln(t.writer, rule)
	fmt.Fprintln(t.writer)
}

func (t *Terminal) color(code, text string) string {
	if !t.colorEnabled {
		return text
	}
	return code + text + colorReset
}
