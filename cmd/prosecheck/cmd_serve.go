package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"styleguide/internal/config"
	"styleguide/internal/logging"
	"styleguide/internal/report"
	"styleguide/internal/scan"
)

const maxBodyBytes = 8 << 20

type serveFlags struct {
	addr        string
	configPath  string
	markersPath string
}

func newServeCmd() *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve document checks over HTTP",
		Long: "Starts an HTTP server with POST /check, taking {\"name\": ..., \"text\": ...}\n" +
			"and returning the JSON report, and GET /health.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.addr, "addr", "127.0.0.1:8080", "Listen address")
	f.StringVar(&flags.configPath, "config", "", "Config file")
	f.StringVar(&flags.markersPath, "markers", "", "Marker set path")
	return cmd
}

func runServe(cmd *cobra.Command, flags serveFlags) error {
	log := logging.New("serve")
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}
	path, set, err := loadMarkers(flags.markersPath)
	if err != nil {
		return err
	}
	scanner, err := scan.NewScanner(set, cat, scan.Options{Technical: cfg.Technical, Logger: logging.New("scan")})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              flags.addr,
		Handler:           newServer(scanner, cfg, log).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", flags.addr, "markers", path, "count", len(set.Markers))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

type server struct {
	scanner *scan.Scanner
	cfg     *config.Config
	log     *slog.Logger
}

func newServer(s *scan.Scanner, cfg *config.Config, log *slog.Logger) *server {
	return &server{scanner: s, cfg: cfg, log: log}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/check", s.handleCheck)
	return r
}

type checkRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		req.Name = "document"
	}

	f := s.scanner.Scan(req.Text)
	f.Ignore(s.cfg.IgnorePatterns)
	res := scan.Result{Name: req.Name, Findings: f, Score: scan.Score(f)}
	s.log.Debug("checked", "request_id", middleware.GetReqID(r.Context()), "name", req.Name, "score", res.Score)

	w.Header().Set("Content-Type", "application/json")
	if err := report.JSON(w, res); err != nil {
		s.log.Error("write response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
