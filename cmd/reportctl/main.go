package main

import (
	"context"
	"fmt"
	"os"

	"axiapac.com/portal/config"
	"axiapac.com/portal/core"
	"axiapac.com/portal/logging"
	"axiapac.com/portal/reports"
)

func openDatabase(ctx context.Context, cfg config.Config) (*core.DatabaseManager, error) {
	dsn, err := cfg.DatabaseDSN(ctx)
	if err != nil {
		return nil, err
	}
	return core.New(cfg.DBDriver, dsn, cfg.DBMaxConnections, core.ParseLogLevel(cfg.DBLogLevel))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.Must(cfg.Env)
	defer log.Sync()

	app := &App{
		Out:    os.Stdout,
		Secret: cfg.Secret,
		Reports: func(ctx context.Context) (Generator, func(), error) {
			loc, err := cfg.Location()
			if err != nil {
				return nil, nil, err
			}
			dm, err := openDatabase(ctx, cfg)
			if err != nil {
				return nil, nil, err
			}
			service := reports.NewService(core.NewSource(dm), reports.WithLogger(log), reports.WithLocation(loc))
			return service, func() { dm.Close() }, nil
		},
		Migrate: func(ctx context.Context) error {
			dm, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer dm.Close()
			return dm.Migrate(ctx)
		},
		Seed: func(ctx context.Context, data core.SeedData) error {
			dm, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer dm.Close()
			return dm.Seed(ctx, data)
		},
	}

	if err := NewRootCmd(app).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
