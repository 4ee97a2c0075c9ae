package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/deafSpy/lolgames-sub001/internal/config"
	"github.com/deafSpy/lolgames-sub001/internal/logging"
	"github.com/deafSpy/lolgames-sub001/internal/match"
	"github.com/deafSpy/lolgames-sub001/internal/store"
	httptransport "github.com/deafSpy/lolgames-sub001/internal/transport/http"
	"github.com/deafSpy/lolgames-sub001/internal/ws"

	_ "github.com/deafSpy/lolgames-sub001/internal/game/blackjack"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/connect4"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/gems"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/quoridor"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/rps"
	_ "github.com/deafSpy/lolgames-sub001/internal/game/sequence"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder match.Recorder
	var st *store.Store
	if cfg.Server.PostgresDSN != "" {
		st, err = store.New(cfg.Server.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		defer st.Close()
		if err := st.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		if err := st.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("db bootstrap failed")
		}
		recorder = st
		log.Info().Msg("match history enabled")
	} else {
		recorder = match.NopRecorder{}
		log.Info().Msg("no POSTGRES_DSN; match history disabled")
	}

	coord := match.NewCoordinator(matchConfig(cfg.Match), recorder)
	coord.StartJanitor(ctx, time.Duration(cfg.Server.JanitorIntervalSecs)*time.Second)

	wsSrv := ws.NewServer(coord)
	r := httptransport.NewRouter(coord, st, wsSrv)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server shut down")
}

func matchConfig(mc config.MatchConfig) match.Config {
	cfg := match.DefaultConfig()
	cfg.Game.TurnTimeout = time.Duration(mc.TurnTimeoutSecs) * time.Second
	cfg.Game.CommitTimeout = time.Duration(mc.CommitTimeoutSecs) * time.Second
	cfg.Game.RPSTargetWins = mc.RPSTargetWins
	cfg.Game.RPSRoundCap = mc.RPSRoundCap
	cfg.Game.SequencesToWin = mc.SequencesToWin
	cfg.Game.SequenceHandSize = mc.SequenceHandSize
	cfg.Game.GemsPointTarget = mc.GemsPointTarget
	cfg.Game.GemsTokenLimit = mc.GemsTokenLimit
	cfg.Game.BlackjackStartChips = mc.BlackjackStartChips
	cfg.Game.BlackjackMinBet = mc.BlackjackMinBet
	cfg.Game.BlackjackDealerStand = mc.BlackjackDealerStand
	cfg.Game.BlackjackCheckpointEvery = mc.BlackjackCheckpointEvery
	cfg.Game.BlackjackMaxSeats = mc.BlackjackMaxSeats
	cfg.ReconnectGrace = time.Duration(mc.ReconnectGraceSecs) * time.Second
	cfg.DisposeAfter = time.Duration(mc.DisposeAfterSecs) * time.Second
	cfg.BotThinkMin = time.Duration(mc.BotThinkMinMS) * time.Millisecond
	cfg.BotThinkMax = time.Duration(mc.BotThinkMaxMS) * time.Millisecond
	cfg.MaxTimeoutStrikes = mc.MaxTimeoutStrikes
	return cfg
}
