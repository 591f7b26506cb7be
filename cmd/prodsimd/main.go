// prodsimd 是相似商品推荐的 HTTP 服务。
//
// 启动时优先从快照恢复模型；快照不存在、损坏或配置了 retrain 时，
// 从商品目录重新训练并写回快照。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/prodsim/api"
	"github.com/rushteam/prodsim/catalog"
	"github.com/rushteam/prodsim/config"
	"github.com/rushteam/prodsim/core"
	"github.com/rushteam/prodsim/pkg/logging"
	"github.com/rushteam/prodsim/recommend"
	"github.com/rushteam/prodsim/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "prodsimd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Checkpoint.Store())
	if err != nil {
		return fmt.Errorf("open checkpoint store: %w", err)
	}
	defer st.Close()

	engine, err := recommend.NewEngine(&cfg.Recommend, logger)
	if err != nil {
		return err
	}
	if err := bootstrap(ctx, cfg, engine, st, logger); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(api.NewHandler(engine, logger, api.WithMaxResults(cfg.Server.MaxResults)), cfg.Server.Tokens),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// bootstrap 恢复或训练模型，保证服务开始监听前引擎已可查询。
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func bootstrap(ctx context.Context, cfg *config.Config, engine *recommend.Engine, st core.Store, logger zerolog.Logger) error {
	key := cfg.Checkpoint.Key
	if !cfg.Checkpoint.Retrain {
		_, err := engine.Load(ctx, st, key)
		switch {
		case err == nil:
			return nil
		case core.IsStoreNotFound(err):
			logger.Info().Str("key", key).Msg("no checkpoint found, training")
		case core.IsCorruptModel(err):
			logger.Warn().Err(err).Str("key", key).Msg("checkpoint is corrupt, retraining")
		default:
			return fmt.Errorf("load checkpoint: %w", err)
		}
	}

	_, err := engine.EnsureTrained(ctx, func(context.Context) (core.Catalog, error) {
		return catalog.LoadFile(cfg.Catalog.Path)
	})
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	if err := engine.Save(ctx, st, key); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}
