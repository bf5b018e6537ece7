// Command bookingd is a small room-booking service that demonstrates the
// container end to end: providers, auto-wired constructors, and the chi
// router assembled by the kernel.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/config"
)

const version = "0.1.0"

var envFile string

var rootCmd = &cobra.Command{
	Use:     "bookingd",
	Short:   "Room booking service built on the IoC container",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the bookingd version",
	Run: func(*cobra.Command, []string) {
		fmt.Println("bookingd", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", "", "path to a .env file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(*cobra.Command, []string) error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	app := buildApp(files...)
	cfg := app.Config()
	log := app.Log()

	printBanner(cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           app.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info("server listening",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.App.Env),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

var (
	bannerBold  = color.New(color.FgCyan, color.Bold).SprintFunc()
	bannerFaint = color.New(color.Faint).SprintFunc()
	bannerArrow = color.New(color.FgGreen).SprintFunc()
)

func printBanner(cfg *config.Config) {
	fmt.Printf("\n  %s %s\n", bannerBold(cfg.App.Name), bannerFaint("v"+version))
	fmt.Printf("  %s http://localhost:%s  %s\n\n",
		bannerArrow("➜"), cfg.App.Port, bannerFaint("["+cfg.App.Env+"]"))
}
