package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rosanasant/financas-backend/internal/api/handlers"
	"github.com/rosanasant/financas-backend/internal/api/middleware"
	"github.com/rosanasant/financas-backend/internal/assistant"
	"github.com/rosanasant/financas-backend/internal/config"
	"github.com/rosanasant/financas-backend/internal/export"
	"github.com/rosanasant/financas-backend/internal/finance"
	infraBQ "github.com/rosanasant/financas-backend/internal/infra/bigquery"
	"github.com/rosanasant/financas-backend/internal/infra/memory"
	"github.com/rosanasant/financas-backend/internal/logger"
)

func main() {
	// Initialize logger and configuration; flags win over environment.
	log := logger.New()
	cfg := config.Load()

	port := flag.String("port", cfg.Port, "HTTP server port (or set PORT)")
	flag.Parse()
	cfg.Port = *port

	ctx := context.Background()

	// Select the store backend
	var store finance.Store
	if cfg.UseMemoryStore {
		log.Warn().Msg("Using in-memory store - data will not survive a restart")
		store = memory.NewStore()
	} else {
		if cfg.ProjectID == "" {
			log.Fatal().Msg("GCP_PROJECT_ID is required (or set USE_MEMORY_STORE=true)")
		}
		repo, err := infraBQ.NewRepository(ctx, cfg.ProjectID, cfg.Dataset)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery repository")
		}
		defer repo.Close()
		store = repo
	}

	// Initialize the intent oracle and processor
	interpreter, err := assistant.NewGeminiInterpreter(ctx, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini interpreter")
	}
	processor := assistant.NewProcessor(store, interpreter, log)

	if cfg.Bucket == "" {
		log.Warn().Msg("No GCS bucket configured - data export will be disabled")
	}

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(processor, log)
	projectionHandler := handlers.NewProjectionHandler(store, store, log)
	transactionsHandler := handlers.NewTransactionsHandler(store, log)
	goalsHandler := handlers.NewGoalsHandler(store, log)
	tipsHandler := handlers.NewTipsHandler(store, log)
	profileHandler := handlers.NewProfileHandler(store, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			chatHandler.ProcessMessage(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/projection", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			projectionHandler.GetProjection(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.ListTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			transactionID := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
			if transactionID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
				return
			}
			transactionsHandler.DeleteTransaction(w, r, transactionID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/goals", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			goalsHandler.ListGoals(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/goals/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			goalID := strings.TrimPrefix(r.URL.Path, "/api/goals/")
			if goalID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Goal ID is required")
				return
			}
			goalsHandler.DeleteGoal(w, r, goalID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/tips/ignore", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			tipsHandler.IgnoreTip(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			profileHandler.GetProfile(w, r)
		case http.MethodPut:
			profileHandler.UpdateProfile(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	if cfg.Bucket != "" {
		exportHandler := handlers.NewExportHandler(export.NewExporter(store, cfg.Bucket, log), log)
		mux.HandleFunc("/api/export", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				exportHandler.Export(w, r)
			} else {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
		})
	}

	// Authenticated API surface
	api := middleware.Auth(store, log)(mux)

	// Health check stays outside auth
	root := http.NewServeMux()
	root.Handle("/api/", api)
	root.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(root),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
