package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"arcai/internal/api"
	"arcai/internal/config"
	"arcai/internal/ids"
	"arcai/internal/logging"
	"arcai/internal/session"
	"arcai/internal/telemetry"
	"arcai/internal/ui"
)

type flags struct {
	configPath string
	apiURL     string
	secret     string
	user       string
	logFile    string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:           "arcai [project-id]",
		Short:         "Edit arcai projects in the terminal",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(cmd, f, args)
			if err != nil {
				return err
			}
			if cfg.ProjectID == "" {
				return errors.New("no project: pass a project id or set ARCAI_PROJECT")
			}
			return run(cmd.Context(), cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default $ARCAI_CONFIG or ~/.arcai/config.yaml)")
	pf.StringVar(&f.apiURL, "api-url", "", "project API base URL")
	pf.StringVar(&f.secret, "secret", "", "API secret (prefer ARCAI_SECRET)")
	pf.StringVar(&f.user, "user", "", "display name for the session")
	pf.StringVar(&f.logFile, "log-file", "", "write logs to this file (default: discard)")
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(configCmd(&f))
	return root
}

// resolve layers flags over the file and environment configuration.
func resolve(cmd *cobra.Command, f flags, args []string) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	override := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	override("api-url", &cfg.APIURL, f.apiURL)
	override("secret", &cfg.Secret, f.secret)
	override("user", &cfg.User, f.user)
	override("log-file", &cfg.Log.File, f.logFile)
	override("log-level", &cfg.Log.Level, f.logLevel)
	if len(args) == 1 {
		cfg.ProjectID = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func configCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(cmd, *f, nil)
			if err != nil {
				return err
			}
			if cfg.Secret != "" {
				cfg.Secret = "<redacted>"
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger, closeLog, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		logger.Warn("telemetry disabled", "error", err)
	}
	defer func() {
		flushCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	client := api.NewClient(cfg.APIURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		api.WithLogger(logger),
	)

	app, err := ui.NewAppModel(ui.AppDeps{
		ProjectID:   cfg.ProjectID,
		API:         client,
		IDs:         ids.UUID{},
		Logger:      logger,
		Context:     ctx,
		Session:     session.NewStatic(),
		InitialUser: session.User{Name: cfg.User, Secret: cfg.Secret},
	})
	if err != nil {
		return err
	}

	logger.Info("starting", "project", cfg.ProjectID, "api", cfg.APIURL)
	p := tea.NewProgram(app.AsTeaModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
