package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samueldmelo/logfoto/config"
	"github.com/samueldmelo/logfoto/internal/delivery"
	"github.com/samueldmelo/logfoto/internal/tui"
	"github.com/samueldmelo/logfoto/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "logfoto",
	Short: "LogFoto product variant registration",
	Long: `LogFoto registers product variants (SKU, categoria, tamanho, cor) and
lets them be browsed, filtered, edited and deleted.

Run "logfoto serve" for the web interface or "logfoto tui" for the terminal one.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web interface and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the terminal interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default ./.env when present)")
	rootCmd.AddCommand(serveCmd, tuiCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger. Bootstrap messages go
// to console, which is nil for the terminal interface.
func setup(console io.Writer) (*config.Config, *logrus.Logger, error) {
	bootstrap := logrus.New()
	bootstrap.SetFormatter(&logrus.JSONFormatter{})
	if console != nil {
		bootstrap.SetOutput(console)
	} else {
		bootstrap.SetOutput(io.Discard)
	}

	cfg, err := config.LoadConfig(envFile, bootstrap)
	if err != nil {
		return nil, nil, err
	}
	logger, err := config.NewLogger(cfg, console)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runServe(ctx context.Context) error {
	cfg, logger, err := setup(os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	logger.Info("Starting LogFoto web server...")

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Errorf("Failed to open product store: %v", err)
		return err
	}
	defer closeStore()

	productUseCase := usecase.NewProductUseCase(store, cfg.StoreTimeout, logger)
	logger.Info("Use case initialized.")

	router, err := delivery.NewRouter(productUseCase, cfg.Location(), logger)
	if err != nil {
		logger.Errorf("Failed to build router: %v", err)
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Errorf("Failed to start server: %v", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Failed to shut down server gracefully: %v", err)
		return err
	}
	logger.Info("Server stopped.")
	return nil
}

// runTUI logs only to LOG_FILE, if set, since the terminal belongs to the UI.
func runTUI(ctx context.Context) error {
	cfg, logger, err := setup(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	logger.Info("Starting LogFoto terminal interface...")

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open product store: %v\n", err)
		return err
	}
	defer closeStore()

	productUseCase := usecase.NewProductUseCase(store, cfg.StoreTimeout, logger)
	loader := usecase.NewLoader(productUseCase)
	defer loader.Cancel()

	program := tea.NewProgram(tui.New(ctx, productUseCase, loader, cfg.Location()),
		tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Errorf("Terminal interface stopped: %v", err)
		return err
	}
	logger.Info("Terminal interface closed.")
	return nil
}
