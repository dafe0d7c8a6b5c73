package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tgienger/weekly/internal/config"
	"github.com/tgienger/weekly/internal/db"
	"github.com/tgienger/weekly/internal/engine"
	"github.com/tgienger/weekly/internal/mongostore"
	"github.com/tgienger/weekly/internal/notify"
	"github.com/tgienger/weekly/internal/output"
	"github.com/tgienger/weekly/internal/store"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

//nolint:gochecknoglobals // CLI flags and formatter are package-level
var (
	configPath string
	jsonOutput bool
	formatter  output.Formatter
	cfg        *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "weekly",
		Short:         "Plan the week, move cards, copy tasks forward",
		Long:          "weekly - a weekly task board with a Kanban TUI, an HTTP API and email reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			formatter = output.New(jsonOutput)
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default "+config.GlobalPath()+")")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(
		boardCmd(),
		serveCmd(),
		weeksCmd(),
		weekCmd(),
		statsCmd(),
		notifyCmd(),
		usersCmd(),
		taskCmd(),
		seedCmd(),
		configCmd(),
		versionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if formatter == nil {
			formatter = output.New(jsonOutput)
		}
		os.Stdout.WriteString(formatter.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
		os.Exit(1)
	}
}

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

// app is the wired backend, engine and logger for one command
type app struct {
	backend store.Backend
	engine  *engine.Engine
	log     *logrus.Entry
	logFile io.Closer
}

func (a *app) Close() {
	if err := a.backend.Close(); err != nil {
		a.log.WithError(err).Warn("failed to close store")
	}
	a.logFile.Close()
}

// newApp opens the configured backend. The board passes logToFile so
// nothing is written to the terminal it draws on.
func newApp(ctx context.Context, logToFile bool) (*app, error) {
	log, logFile, err := setupLogger(cfg.Env, cfg.LogFile, logToFile)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	backend, err := openBackend(ctx, cfg.Storage)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	log.WithField("backend", cfg.Storage.Backend).Debug("store opened")

	eng := engine.New(backend,
		engine.WithLogger(log),
		engine.WithNotifier(notify.NewMailer(newSender(cfg.Notify, log), log)),
	)
	return &app{backend: backend, engine: eng, log: log, logFile: logFile}, nil
}

func openBackend(ctx context.Context, sc config.StorageConfig) (store.Backend, error) {
	switch sc.Backend {
	case config.BackendMongo:
		s, err := mongostore.Connect(ctx, sc.MongoURI, sc.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		open := db.New
		if sc.SQLitePath != "" {
			open = func() (*db.DB, error) { return db.Open(sc.SQLitePath) }
		}
		d, err := open()
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

func newSender(nc config.NotifyConfig, log *logrus.Entry) notify.Sender {
	if nc.Sender == config.SenderSMTP {
		return notify.NewSMTPSender(notify.SMTPConfig{
			Host:     nc.SMTP.Host,
			Port:     nc.SMTP.Port,
			Username: nc.SMTP.Username,
			Password: nc.SMTP.Password,
			From:     nc.SMTP.From,
		})
	}
	return notify.LogSender{Log: log}
}

// withApp runs fn against a freshly opened app
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			formatter = output.New(jsonOutput)
			return nil
		},
		Run: func(_ *cobra.Command, _ []string) {
			printOutput(formatter.FormatMessage(fmt.Sprintf("weekly %s (commit: %s, built: %s)", version, commit, date)))
		},
	}
}
