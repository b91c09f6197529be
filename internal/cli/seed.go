package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eneagramas-site/internal/dataset"
	"eneagramas-site/internal/infra/postgres"
	redisinfra "eneagramas-site/internal/infra/redis"
)

// NewSeedCmd stores the YAML dataset (dataset.path, or the embedded default)
// in Postgres and drops any cached copy.
func NewSeedCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert the site dataset into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), st)
		},
	}
}

func runSeed(ctx context.Context, st *rootState) error {
	ds, err := dataset.NewFileLoader(st.cfg.Dataset.Path).LoadDataset(ctx, st.cfg.Dataset.ID)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	db, err := openBun(st.cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateDB(ctx, db, st.logger); err != nil {
		return err
	}
	if err := postgres.NewDatasetWriter(db).Upsert(ctx, ds); err != nil {
		return err
	}
	st.logger.Info("dataset seeded",
		zap.String("dataset_id", ds.ID),
		zap.Int("stations", len(ds.Stations)),
		zap.Int("questions", len(ds.Questions)))

	if client := newRedisClient(st.cfg); client != nil {
		defer client.Close()
		ttl := datasetTTL(st.cfg)
		if err := redisinfra.NewDatasetRepository(client, nil, ttl).Invalidate(ctx, ds.ID); err != nil {
			st.logger.Warn("dataset cache not invalidated", zap.Error(err))
		}
	}
	return nil
}
