package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"coldcase/cmd/coldcase/terminal"
	"coldcase/internal/archive"
	"coldcase/internal/assistant"
	"coldcase/internal/config"
	"coldcase/internal/logging"
	"coldcase/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	apiKey     string
	workspace  string
	configPath string
	caseRef    string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "coldcase",
	Short: "coldcase - cold case archive terminal",
	Long: `coldcase puts you at the console of a police archive server.

Browse the case directories, read the evidence, search the database and
decrypt the locked file that closes the case. With an API key configured,
'ask' hands what you can currently see to an analysis assistant.

Run without arguments to start the interactive terminal.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive terminal owns the screen and logs to files only.
		if cmd.Use == "coldcase" && cmd.CalledAs() == "coldcase" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY env)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <workspace>/.coldcase/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&caseRef, "case", "", "Case file path or built-in case name")

	scriptCmd.Flags().BoolVar(&scriptInstant, "instant", true, "Skip the decrypt delay")

	validateCmd.Flags().BoolVar(&validateWatch, "watch", false, "Re-validate whenever the file changes")

	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveWorkspace returns the absolute workspace directory.
func resolveWorkspace() (string, error) {
	if workspace != "" {
		return filepath.Abs(workspace)
	}
	return os.Getwd()
}

// loadConfig reads the workspace config and applies the command-line
// overrides on top of it.
func loadConfig(ws string) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath(ws)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if apiKey != "" {
		cfg.Assistant.APIKey = apiKey
		if cfg.Assistant.Provider == "" || cfg.Assistant.Provider == "none" {
			cfg.Assistant.Provider = "gemini"
		}
	}
	if caseRef != "" {
		cfg.Case.Source = caseRef
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// newSession opens the configured case and wires the engine collaborators.
// A failing assistant setup leaves ask offline instead of aborting.
func newSession(ctx context.Context, cfg *config.Config, opts session.Options) (*session.Session, error) {
	arc, err := archive.Open(cfg.Case.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open case: %w", err)
	}
	logging.Boot("case %s %q loaded from %s", arc.Case.ID, arc.Case.Title, cfg.Case.Source)

	opts.ContextLimit = cfg.Game.ContextLimit
	if cfg.AssistantEnabled() {
		gemini, err := assistant.NewGemini(ctx, assistant.GeminiConfig{
			APIKey:  cfg.Assistant.APIKey,
			Model:   cfg.Assistant.Model,
			Timeout: cfg.GetAssistantTimeout(),
			BaseURL: cfg.Assistant.BaseURL,
		})
		if err != nil {
			logging.BootWarn("assistant offline: %v", err)
		} else {
			opts.Assistant = gemini
			logging.Boot("assistant online: %s", gemini.Model())
		}
	}

	return session.New(session.NewEngine(arc, opts)), nil
}

// runInteractive launches the terminal.
func runInteractive(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ws)
	if err != nil {
		return err
	}

	if err := logging.Initialize(ws, logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.JSONFormat,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	defer logging.CloseAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := newSession(ctx, cfg, session.Options{
		DecryptDelay: cfg.GetDecryptDelay(),
		Clipboard:    terminal.Clipboard(),
	})
	if err != nil {
		return err
	}
	return terminal.Run(ctx, sess)
}
