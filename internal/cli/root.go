// Package cli is the command surface: scriptable subcommands for every API
// operation, and the interactive TUI when run bare.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/DekunleJr/Signatures/internal/api"
	"github.com/DekunleJr/Signatures/internal/config"
	"github.com/DekunleJr/Signatures/internal/logger"
	"github.com/DekunleJr/Signatures/internal/session"
	"github.com/DekunleJr/Signatures/internal/tui"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "signatures",
	Short: "Signatures - portfolio client for the terminal",
	Long: `Signatures is a terminal client for the Signatures portfolio site:
browse the portfolio and services, like works, order pieces, and manage
the site as an administrator.

Run 'signatures' without arguments to launch the interactive TUI.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			cfg = config.DefaultConfig()
		}

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("Signatures started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		logger.Info("Launching TUI")
		m := tui.NewModel(app.cfg, app.session)
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Signatures exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// app bundles the wiring every subcommand needs: config, the persisted
// session, and the API client bound to it.
type app struct {
	cfg     *config.Config
	session *session.Session
	client  *api.Client
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	store, err := session.OpenDefaultStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	sess := session.New(store)

	// No navigation surface in plain CLI runs; a forced logout is visible
	// through the session itself.
	client := api.New(cfg.APIURL, sess, nil)

	return &app{cfg: cfg, session: sess, client: client}, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(worksCmd)
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(adminCmd)
}
