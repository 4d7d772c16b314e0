package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/luaraumc/pfc-client/credstore"
	"github.com/luaraumc/pfc-client/gateway"
	"github.com/luaraumc/pfc-client/guard"
	"github.com/luaraumc/pfc-client/internal/config"
	"github.com/luaraumc/pfc-client/platform"
	"github.com/luaraumc/pfc-client/session"
)

func main() {
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "pfcctl",
		Short:         "Command line client for the career platform",
		Long:          "pfcctl talks to the career platform backend: sign in, inspect the session, and browse the catalogs of careers, courses, skills and job postings.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
		Run: func(cmd *cobra.Command, args []string) {
			displayAppname(app.cfg.GetAppName())
			_ = cmd.Help()
		},
	}

	rootCmd.AddCommand(
		loginCmd(app),
		logoutCmd(app),
		whoamiCmd(app),
		refreshCmd(app),
		guardCmd(app),
		carreirasCmd(app),
		cursosCmd(app),
		habilidadesCmd(app),
		vagasCmd(app),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// app holds the wired SDK components shared by every subcommand.
type app struct {
	cfg      config.Config
	logger   zerolog.Logger
	store    *credstore.FileStore
	refresh  *session.Refresher
	sessions *session.Service
	guard    *guard.Guard
	platform *platform.Client
}

func (a *app) init() error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	a.cfg = config.New()

	level, err := zerolog.ParseLevel(a.cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	a.store, err = credstore.NewFileStore(a.cfg.GetDataFolder())
	if err != nil {
		return err
	}

	client, err := session.NewCookieClient(a.cfg.GetHTTPTimeout())
	if err != nil {
		return err
	}

	baseURL := a.cfg.GetAPIBaseURL()
	a.refresh = session.NewRefresher(baseURL, client, a.store, a.logger)

	nav := session.NavigatorFunc(func(path string) {
		a.logger.Info().Str("view", path).Msg("session ended, next sign-in required")
	})
	a.sessions, err = session.NewService(baseURL, client, a.store, nav, a.logger)
	if err != nil {
		return err
	}

	gw, err := gateway.New(baseURL, client, a.store, a.refresh, a.logger)
	if err != nil {
		return err
	}
	a.platform = platform.NewClient(gw, a.logger)

	a.guard = guard.New(a.store, a.refresh, a.logger,
		guard.WithExpirySkew(a.cfg.GetExpirySkew()))

	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
