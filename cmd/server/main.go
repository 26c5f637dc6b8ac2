package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/trinity-login/discord"
	"github.com/jrsteele09/trinity-login/internal/config"
	"github.com/jrsteele09/trinity-login/internal/telemetry"
	"github.com/jrsteele09/trinity-login/login"
	"github.com/jrsteele09/trinity-login/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	portFlag string
	envFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "trinity-login",
	Short: "Discord login exchange for the Trinity Launcher website",
	Long: `trinity-login serves /api/login, which exchanges a Discord OAuth2
authorization code for the user's id, username and avatar URL.

Credentials are read from DISCORD_CLIENT_ID, DISCORD_CLIENT_SECRET and
DISCORD_REDIRECT_URI.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&portFlag, "port", "p", "", "Port to listen on (overrides PORT)")
	rootCmd.Flags().StringVar(&envFlag, "env", "", "Environment name, DEV or PROD (overrides ENV)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run(ctx context.Context) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load()
	if err != nil {
		return err
	}
	if portFlag != "" {
		c.Port = portFlag
	}
	if envFlag != "" {
		c.Env = envFlag
	}

	setupLogging(c)
	displayAppname(c.AppName)

	if ctx == nil {
		ctx = context.Background()
	}
	shutdownTracing, err := telemetry.Setup(ctx, c.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Err(err).Msg("telemetry shutdown")
		}
	}()

	transport := discord.NewHTTPTransport(&http.Client{Timeout: c.Discord.HTTPTimeout})
	loginService := login.NewService(c.Discord, discord.NewClient(c.Discord, transport))

	srv := &http.Server{
		Addr:              c.Addr(),
		Handler:           server.New(c, loginService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(srv) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

func setupLogging(c config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if c.IsDev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
