package main

import (
	"fmt"

	"grocy-planner/internal/app"
	"grocy-planner/internal/config"
	"grocy-planner/internal/database"
	"grocy-planner/internal/grocy"
	"grocy-planner/internal/logger"
	"grocy-planner/internal/metrics"
	"grocy-planner/internal/shopping"
	"grocy-planner/internal/storage"
)

// deps bundles what every subcommand opens. close releases it.
type deps struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.DB
}

func openDeps() (*deps, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	db, err := database.NewDB(cfg.DatabasePath, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &deps{cfg: cfg, log: log, db: db}, nil
}

func (r *deps) close() {
	r.db.Close()
	r.log.Sync()
}

// newApp wires an App over source. snapshots may be nil.
func (r *deps) newApp(source shopping.Source, snapshots *storage.SnapshotStore) *app.App {
	generator := shopping.NewGenerator(source, shopping.NewBuilder(r.cfg.ShoppingLocale), r.log)
	return app.NewApp(
		generator,
		shopping.NewRepository(r.db.SQL),
		metrics.NewStore(r.db.SQL),
		snapshots,
		r.log,
	)
}

func (r *deps) grocySource() shopping.Source {
	return grocy.NewClient(r.cfg)
}
