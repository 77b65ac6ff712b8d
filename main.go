package main

import (
	"net/http"
	"os"

	"sparkd_server/config"
	"sparkd_server/models"
	"sparkd_server/routes"
	"sparkd_server/services"
	"sparkd_server/socket"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Storage clients.
	logger.Info().Str("region", cfg.Region).Msg("initializing DynamoDB client")
	dynamoService := &services.DynamoService{Client: services.InitializeDynamoDBClient(cfg.Region)}

	logger.Info().Str("addr", cfg.Redis.Addr).Msg("initializing Redis pool")
	cache := &services.RedisCache{Pool: services.NewRedisPool(cfg.Redis.Addr, cfg.Redis.MaxIdle)}

	// Store adapters.
	profileStore := &services.ProfileService{Dynamo: dynamoService, Table: cfg.Tables.Users}
	swipeStore := &services.DynamoSwipeStore{Dynamo: dynamoService, Table: cfg.Tables.Swipes}
	matchStore := &services.DynamoMatchStore{Dynamo: dynamoService, Table: cfg.Tables.Matches}
	counterStore := &services.CounterService{Cache: cache}

	// Realtime + side-effect plumbing.
	socketServer := socket.NewSocketServer(logger)
	metrics := services.NewPrometheusMetrics(prometheus.DefaultRegisterer)
	dispatcher := services.NewDispatcher(
		&services.LogNotifier{Log: logger},
		&socket.Emitter{Server: socketServer},
		metrics,
		cache,
		nil, // conversation purge is wired once the chat collaborator exposes it
		logger,
	)

	// Core services.
	ratingService := &services.RatingService{
		Profiles: profileStore,
		Log:      logger.With().Str("service", "rating").Logger(),
	}
	swipeService := &services.SwipeService{
		Profiles: profileStore,
		Swipes:   swipeStore,
		Matches:  matchStore,
		Counters: counterStore,
		Ratings:  ratingService,
		Quotas: models.QuotaCaps{
			Swipes:     cfg.Quotas.Swipes,
			Likes:      cfg.Quotas.Likes,
			Superlikes: cfg.Quotas.Superlikes,
			Undos:      cfg.Quotas.Undos,
		},
		Log: logger.With().Str("service", "swipe").Logger(),
	}
	recommendationService := &services.RecommendationService{
		Profiles:          profileStore,
		Swipes:            swipeStore,
		Cache:             cache,
		RecommendationTTL: cfg.Cache.RecommendationTTL,
		TopPicksTTL:       cfg.Cache.TopPicksTTL,
		Log:               logger.With().Str("service", "recommendation").Logger(),
	}
	engagementService := &services.EngagementService{
		Matches: matchStore,
		Log:     logger.With().Str("service", "engagement").Logger(),
	}

	// Router.
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.Handle("/socket.io/", socketServer)

	routes.RegisterSwipeRoutes(r, swipeService, dispatcher, metrics)
	routes.RegisterRecommendationRoutes(r, recommendationService)
	routes.RegisterMatchRoutes(r, swipeService, engagementService, dispatcher)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	go func() {
		if err := socketServer.Serve(); err != nil {
			logger.Error().Err(err).Msg("socket server stopped")
		}
	}()
	defer socketServer.Close()

	logger.Info().Str("port", cfg.Port).Msg("starting server")
	if err := http.ListenAndServe(":"+cfg.Port, corsHandler); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
