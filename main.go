package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/investrack/backend/src/config"
	"github.com/username/investrack/backend/src/database"
	"github.com/username/investrack/backend/src/handlers"
	"github.com/username/investrack/backend/src/logger"
	"github.com/username/investrack/backend/src/services"
	"github.com/username/investrack/backend/src/store"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool)
	for _, origin := range config.Cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("investrack backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	nameCache := cache.New(config.Cfg.NameCacheExpiry, config.Cfg.NameCacheCleanup)

	recordStore := store.NewSQLiteStore(database.DB)
	recordService := services.NewRecordService(recordStore)
	nameService := services.NewNameService(
		nameCache,
		database.DB,
		config.Cfg.NameAPIBaseURL,
		config.Cfg.NameLookupRPS,
		config.Cfg.NameLookupBurst,
	)

	recordHandler := handlers.NewRecordHandler(recordService, nameService)
	holdingsHandler := handlers.NewHoldingsHandler(recordService)
	summaryHandler := handlers.NewSummaryHandler(recordService)
	nameHandler := handlers.NewNameHandler(nameService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "investrack backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/records", recordHandler.HandleGetAllRecords)

		r.Post("/stocks", recordHandler.HandleAddStock)
		r.Post("/funds", recordHandler.HandleAddFund)
		r.Post("/cryptos", recordHandler.HandleAddCrypto)
		r.Post("/properties", recordHandler.HandleAddProperty)
		r.Post("/payments", recordHandler.HandleAddPayment)
		r.Delete("/{class}/{id}", recordHandler.HandleDelete)

		r.Get("/holdings/{class}", holdingsHandler.HandleGetHoldings)
		r.Get("/holdings/{class}/profitloss", holdingsHandler.HandleGetProfitLoss)

		r.Get("/summary", summaryHandler.HandleGetSummary)

		r.Get("/export", recordHandler.HandleExport)
		r.Post("/import", recordHandler.HandleImport)

		r.Get("/names/stock", nameHandler.HandleGetStockName)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
