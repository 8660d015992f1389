package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ablecalc/able-calculator/internal/api"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the projection API over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	tables, err := loadTables(prefs)
	if err != nil {
		return err
	}
	recorder, err := openRecorder(prefs)
	if err != nil {
		return err
	}
	defer recorder.Close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = prefs.Server.Addr
	}

	handler := api.NewHandler(newEngine(cmd, prefs, tables), recorder)
	server := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(handler, prefs.Server.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("Server stopped")
	return nil
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from preferences, :8080)")
	serveCmd.Flags().Bool("debug", false, "Log per-year projection details")
}
