// README: Entry point; loads config, wires partition stores and services, starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medtransit/internal/ai"
	"medtransit/internal/config"
	httptransport "medtransit/internal/http"
	"medtransit/internal/infra"
	"medtransit/internal/maps"
	"medtransit/internal/modules/center"
	"medtransit/internal/modules/ems"
	"medtransit/internal/modules/hospital"
	"medtransit/internal/modules/matching"
	"medtransit/internal/modules/pricing"
	"medtransit/internal/modules/routing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := infra.NewLogger(cfg.IsDev())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hospitalDB, err := infra.NewDB(ctx, cfg.HospitalDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("hospital partition connect")
	}
	emsDB, err := infra.NewDB(ctx, cfg.EMSDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("ems partition connect")
	}
	centerDB, err := infra.NewDB(ctx, cfg.CenterDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("center partition connect")
	}
	redisClient := infra.NewRedis(cfg.RedisAddr)

	hospitalStore := hospital.NewStore(hospitalDB)
	hospitalSvc := hospital.NewService(hospitalStore)

	emsStore := ems.NewStore(emsDB, redisClient)

	centerStore := center.NewStore(centerDB)
	centerSvc := center.NewService(centerStore)

	pricingSvc := pricing.NewService()

	scorer := matching.NewScorer(nil, nil, nil, pricingSvc,
		time.Duration(cfg.Matching.ArrivalOffsetMins)*time.Minute)
	matchingSvc := matching.NewService(emsStore, scorer, cfg.Matching, log)

	var estimator routing.DistanceEstimator = routing.HaversineEstimator{AvgSpeedMph: cfg.Chaining.DeadheadAvgSpeedMph}
	if cfg.MapsAPIKey != "" {
		mapsSvc, err := maps.NewDistanceService(cfg.MapsAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("maps init")
		}
		estimator = mapsSvc
	}

	var recommender routing.Recommender
	if cfg.GeminiKey != "" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.GeminiKey)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini init")
		}
		defer gemini.Close()
		recommender = gemini
	}

	routingSvc := routing.NewService(hospitalSvc, hospitalSvc, estimator, pricingSvc, recommender, cfg.Chaining, log)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Matching: matchingSvc,
		Routing:  routingSvc,
		Requests: hospitalSvc,
		Registry: centerSvc,
		Log:      log,
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: handler.Routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("transit-api listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server exited")
	}
}
