package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"listing-extractor/extractor"
	"listing-extractor/internal/types"
	"listing-extractor/utils"
)

// maxURLsPerRequest bounds the work one request can start
const maxURLsPerRequest = 20

// APIRequest represents the request body for the API
type APIRequest struct {
	URLs []string `json:"urls"`
}

// APIResponse represents the response from the API
type APIResponse struct {
	Success bool           `json:"success"`
	Data    []types.Result `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// batchExtractor is the part of the extractor the API needs
type batchExtractor interface {
	ExtractBatch(ctx context.Context, urls []string) []types.Result
	Close()
}

// Server holds the API server configuration
type Server struct {
	logger    *logrus.Logger
	config    *types.Config
	extractor batchExtractor
}

// NewServer creates a new API server
func NewServer() *Server {
	// Load .env file if present
	_ = godotenv.Load()

	logger := utils.NewLogger(false)
	config := types.LoadConfig()
	if err := config.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	return newServer(logger, config, extractor.NewExtractor(config, logger))
}

func newServer(logger *logrus.Logger, config *types.Config, ext batchExtractor) *Server {
	return &Server{
		logger:    logger,
		config:    config,
		extractor: ext,
	}
}

// Routes builds the HTTP handler
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/extract", s.handleExtract)

	return r
}

// handleExtract handles the extraction API endpoint
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Parse request body
	var req APIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	urls := make([]string, 0, len(req.URLs))
	for _, u := range req.URLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}

	// Validate request
	if len(urls) == 0 {
		s.sendError(w, "No URLs provided", http.StatusBadRequest)
		return
	}
	if len(urls) > maxURLsPerRequest {
		s.sendError(w, fmt.Sprintf("At most %d URLs per request", maxURLsPerRequest), http.StatusBadRequest)
		return
	}

	s.logger.Infof("API request %s received for %d URLs", middleware.GetReqID(r.Context()), len(urls))

	// Per-URL failures are reported inside data, the request itself succeeds
	results := s.extractor.ExtractBatch(r.Context(), urls)

	response := APIResponse{
		Success: true,
		Data:    results,
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	response := APIResponse{
		Success: false,
		Error:   message,
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Errorf("Failed to encode error response: %v", err)
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, port string) error {
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.config.Timeout*time.Duration(maxURLsPerRequest) + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down API server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Errorf("Server shutdown failed: %v", err)
		}
	}()

	s.logger.Infof("Starting API server on port %s", port)
	s.logger.Info("Available endpoints:")
	s.logger.Info("  POST /extract - Extract listings from product URLs")
	s.logger.Info("  GET  /health  - Health check")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the extractor's resources
func (s *Server) Close() {
	s.extractor.Close()
}

func main() {
	// Create and start server
	server := NewServer()
	defer server.Close()

	// Get port from environment variable, default to 8080
	serverPort := "8080"
	if envPort := os.Getenv("API_PORT"); envPort != "" {
		serverPort = envPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx, serverPort); err != nil {
		server.logger.Errorf("API server failed: %v", err)
		os.Exit(1)
	}
	server.logger.Info("API server stopped")
}
