package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocketscienceinc/tictactoe-contract/internal/auth"
	"github.com/rocketscienceinc/tictactoe-contract/internal/config"
	"github.com/rocketscienceinc/tictactoe-contract/internal/entity"
	"github.com/rocketscienceinc/tictactoe-contract/internal/host"
	"github.com/rocketscienceinc/tictactoe-contract/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-contract/internal/repository"
	"github.com/rocketscienceinc/tictactoe-contract/internal/repository/memory"
	"github.com/rocketscienceinc/tictactoe-contract/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-contract/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-contract/transport/invocation"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type gameStore interface {
	Has(ctx context.Context, id uint32) (bool, error)
	GetByID(ctx context.Context, id uint32) (*entity.Game, error)
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
}

type accountStore interface {
	Save(ctx context.Context, account *entity.Account) error
	Threshold(ctx context.Context, id entity.Identity) (uint32, error)
	SignerWeight(ctx context.Context, id, signer entity.Identity) (uint32, bool, error)
}

// RunApp - runs the application: invocations are read from stdin and answered on stdout.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	return Run(logger, conf, os.Stdin, os.Stdout)
}

func Run(logger *slog.Logger, conf *config.Config, input io.Reader, output io.Writer) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	games, accounts, closeStorage, err := openStorage(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeStorage(); closeErr != nil {
			log.Error("could not close storage", "error", closeErr)
		}
	}()

	if err = seedAccounts(ctx, accounts, conf.Accounts); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	appMetrics := metrics.New(registry)

	verifier := auth.NewVerifier(auth.NewSignatureVerifier(host.Ed25519{}), accounts)
	gameUseCase := usecase.NewGameManager(logger, games, verifier, appMetrics)
	server := invocation.New(logger, gameUseCase, appMetrics)

	// run metrics server
	metricsErrCh := make(chan error, 1)
	if conf.MetricsPort != "" {
		metricsServer := &http.Server{
			Addr:              ":" + conf.MetricsPort,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			log.Info("Starting metrics server", "port", conf.MetricsPort)
			if httpErr := metricsServer.ListenAndServe(); httpErr != nil && !errors.Is(httpErr, http.ErrServerClosed) {
				log.Error("metrics server error", "error", httpErr)
				metricsErrCh <- httpErr
			}
		}()

		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()

			if shutdownErr := metricsServer.Shutdown(shutdownCtx); shutdownErr != nil {
				log.Error("could not stop metrics server", "error", shutdownErr)
			}
		}()
	}

	// run invocation loop
	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("Serving invocations", "storage", conf.Storage)
		serveErrCh <- server.Serve(ctx, input, output)
	}()

	select {
	case err = <-serveErrCh:
		if err != nil {
			return fmt.Errorf("invocation server error: %w", err)
		}

		log.Info("Invocation input closed, shutting down")
		return nil
	case err = <-metricsErrCh:
		return fmt.Errorf("metrics server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func openStorage(ctx context.Context, conf *config.Config) (gameStore, accountStore, func() error, error) {
	switch conf.Storage {
	case config.StorageMemory:
		return memory.NewGameRepository(), memory.NewAccountRepository(), func() error { return nil }, nil
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		games := repository.NewGameRepository(redisStorage.Connection)
		accounts := repository.NewAccountRepository(redisStorage.Connection)

		return games, accounts, redisStorage.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownStorage, conf.Storage)
	}
}

func seedAccounts(ctx context.Context, accounts accountStore, seeds []config.Account) error {
	for i := range seeds {
		account, err := seeds[i].ToEntity()
		if err != nil {
			return fmt.Errorf("invalid account in config: %w", err)
		}

		if err = accounts.Save(ctx, account); err != nil {
			return fmt.Errorf("could not seed account %s: %w", account.ID, err)
		}
	}

	return nil
}
