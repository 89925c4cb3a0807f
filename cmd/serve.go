/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/server"
)

var (
	servePort    int
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for the web dashboard",
	Long: `Start the JSON API the TempoFlow dashboard talks to.

Edits to the config file are picked up without a restart.

Examples:
  tempoflow serve                                   # Port from server.port (default 7777)
  tempoflow serve --port 8080
  tempoflow serve --origin https://app.example.com  # Allow another dashboard origin`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "API server port (default: server.port)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "allowed CORS origin (repeatable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, settings, err := openAppWithSettings(cmd.Context())
	if err != nil {
		return err
	}

	origins := serveOrigins
	if len(origins) > 0 {
		origins = append(append([]string{}, server.DefaultOrigins...), origins...)
	}
	srv := server.New(a, settingsStore(), settings, server.Options{
		Port:           servePort,
		AllowedOrigins: origins,
		Version:        GetVersion(),
	})

	if path := viper.ConfigFileUsed(); path != "" {
		if _, err := os.Stat(path); err == nil {
			config.Watch(viper.GetViper(), srv.ApplySettings)
		}
	}

	var wg sync.WaitGroup
	errChan := make(chan error, 1)
	srv.Start(&wg, errChan)

	if !isQuiet() {
		fmt.Println()
		fmt.Println("🚀 TempoFlow API")
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Printf("🌐 API: http://localhost%s\n", srv.Addr())
		fmt.Printf("📁 Data: %s\n", a.Store.Path())
		fmt.Println()
		fmt.Println("✅ Running. Press Ctrl+C to stop")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case sig := <-sigChan:
		if !isQuiet() {
			fmt.Printf("\n⏹️  Received %v, shutting down...\n", sig)
		}
	case runErr = <-errChan:
	case <-cmd.Context().Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		LogError("server shutdown", err)
	}
	wg.Wait()
	return runErr
}
