package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gymistic/gymistic/internal/catalog"
	"github.com/gymistic/gymistic/internal/envstruct"
	"github.com/gymistic/gymistic/internal/errors"
	"github.com/gymistic/gymistic/internal/logging"
	"github.com/gymistic/gymistic/internal/meal"
	"github.com/gymistic/gymistic/internal/progress"
	"github.com/gymistic/gymistic/internal/sqlite"
	"github.com/gymistic/gymistic/internal/store"
	"github.com/gymistic/gymistic/internal/workout"
)

type application struct {
	logger          *slog.Logger
	catalog         *catalog.Catalog
	store           *store.Store
	mealService     *meal.Service
	workoutService  *workout.Service
	progressService *progress.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"GYMISTIC_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"GYMISTIC_SQLITE_URL" envDefault:"./gymistic.sqlite3"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	cat, err := catalog.Load()
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}

	st := store.New(db, logger)
	app := application{
		logger:          logger,
		catalog:         cat,
		store:           st,
		mealService:     meal.NewService(st, cat, logger),
		workoutService:  workout.NewService(st, cat, logger),
		progressService: progress.NewService(st, logger),
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
