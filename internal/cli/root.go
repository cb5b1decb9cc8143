package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stockwatch/internal/config"
	"stockwatch/internal/logging"
	"stockwatch/internal/marketdata"
	"stockwatch/internal/parser"
	"stockwatch/internal/store"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.NoteStore
	Provider marketdata.Provider
	Parser   parser.Parser

	// Kept for the models command; nil when no API key is configured.
	LLMParser *parser.LLMParser
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	noteStore, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize note store, commands needing it will fail")
	} else {
		app.Store = noteStore
		logger.Debug().Str("path", cfg.Storage.DBPath).Msg("SQLite note store initialized")
	}

	yahoo := marketdata.NewYahooProvider(marketdata.YahooConfig{
		BaseURL:     cfg.Quotes.BaseURL,
		Timeout:     cfg.Quotes.Timeout,
		MaxAttempts: cfg.Quotes.MaxAttempts,
	})
	app.Provider = marketdata.NewResilientProvider(yahoo, marketdata.DefaultBreakerConfig())

	if cfg.Credentials.OpenAI.APIKey != "" {
		app.LLMParser = parser.NewLLMParser(cfg.Credentials.OpenAI.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
		app.Parser = app.LLMParser
		logger.Debug().Str("model", cfg.LLM.Model).Msg("LLM parser initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "stockwatch",
		Short: "Stock Watch Agent - monitor stocks and get alerts",
		Long: `Stock Watch Agent records free-text notes about stocks and checks them
against live market prices.

Write a note like "I bought NVDA at 170, alert me above 200", then run
'stockwatch check' to evaluate every active note and see triggered alerts.

Use 'stockwatch help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/stockwatch)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newAddCmd(app))
	rootCmd.AddCommand(newCheckCmd(app))
	rootCmd.AddCommand(newListCmd(app))
	rootCmd.AddCommand(newNoteCmd(app))
	rootCmd.AddCommand(newDeleteCmd(app))
	rootCmd.AddCommand(newModelsCmd(app))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("Stock Watch Agent v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Storage")
			output.Printf("  Database:     %s\n", app.Config.Storage.DBPath)
			output.Println()
			output.Bold("Quotes")
			output.Printf("  Endpoint:     %s\n", app.Config.Quotes.BaseURL)
			output.Printf("  Timeout:      %s\n", app.Config.Quotes.Timeout)
			output.Printf("  Max Attempts: %d\n", app.Config.Quotes.MaxAttempts)
			output.Println()
			output.Bold("Parser")
			output.Printf("  Model:        %s\n", app.Config.LLM.Model)
			configured := "no"
			if app.Parser != nil {
				configured = "yes"
			}
			output.Printf("  API Key:      %s\n", configured)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	return cmd
}
