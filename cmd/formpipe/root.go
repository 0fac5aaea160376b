package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/orchestrator"
	"github.com/goliatone/go-formpipe/pkg/render"
	"github.com/goliatone/go-formpipe/pkg/renderers/tui"
	"github.com/goliatone/go-formpipe/pkg/renderers/vanilla"
)

// app carries the persistent flags and what PersistentPreRunE builds from
// them.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	logger *zap.Logger
	cfg    *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "formpipe",
		Short: "Validate, render and submit contact forms",
		Long: `formpipe renders configured contact forms, prepares existing pages for
validation, checks values against the built-in rules and submits forms to a
JSON endpoint. "formpipe serve" runs a development server with a stub endpoint.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "configuration file (.yaml, .toml or .json)")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "console", "log format (console or json)")

	root.AddCommand(
		newRenderCmd(a),
		newInjectCmd(a),
		newCheckCmd(a),
		newSubmitCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup() error {
	logger, err := buildLogger(a.logLevel, a.logFormat)
	if err != nil {
		return err
	}
	a.logger = logger

	if a.configPath == "" {
		cfg := config.Default()
		cfg.ApplyDefaults()
		a.cfg = &cfg
		return nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("config loaded", zap.String("path", a.configPath), zap.Int("forms", len(cfg.Forms)))
	return nil
}

func buildLogger(level, format string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("log format %q: want console or json", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// orchestrator builds the renderer registry every command shares: vanilla
// markup plus the terminal renderer.
func (a *app) orchestrator(options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	registry := render.NewRegistry()
	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	terminal, err := tui.New(tui.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	if err := registry.Register(terminal); err != nil {
		return nil, err
	}

	base := []orchestrator.Option{
		orchestrator.WithConfig(a.cfg),
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(a.logger),
	}
	return orchestrator.New(append(base, options...)...), nil
}

func (a *app) form(id string) (*model.Form, error) {
	form := a.cfg.Form(id)
	if form == nil {
		return nil, fmt.Errorf("form %q is not configured", id)
	}
	return form, nil
}

// seedValues applies --set values the way a user typing them would: a
// non-empty value checks a checkbox.
func seedValues(form *model.Form, values map[string]string) error {
	for name, value := range values {
		field := form.Field(name)
		if field == nil || field.IsHoneypot() {
			return fmt.Errorf("form %q has no field %q", form.ID, name)
		}
		if field.IsCheckbox() {
			field.Checked = value != "" && value != "false"
			continue
		}
		field.Value = value
	}
	return nil
}
