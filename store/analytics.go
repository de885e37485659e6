// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"math"

	"github.com/danielhkuo/keystone-adops/models"
)

func (s *Store) CreateBenchmarkStat(ctx context.Context, st models.BenchmarkStat) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO benchmark_stats (id, dept_id, month, collection_id, stat_total, prog_total)
		VALUES (:id, :dept_id, :month, :collection_id, :stat_total, :prog_total)
	`, st)
	if err != nil {
		return fmt.Errorf("insert benchmark stat: %w", err)
	}
	return nil
}

// SitewideBenchmarks sums every department's counts per month for one
// collection. Aggregate is stat_total/prog_total to 2 dp, 0 when there is no
// programme total.
func (s *Store) SitewideBenchmarks(ctx context.Context, collectionID int) ([]models.BenchmarkAgg, error) {
	out := []models.BenchmarkAgg{}
	err := s.selectAll(ctx, &out, `
		SELECT month, collection_id,
			SUM(stat_total) AS stat_total,
			SUM(prog_total) AS prog_total
		FROM benchmark_stats
		WHERE collection_id = ?
		GROUP BY month, collection_id
		ORDER BY month
	`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("sitewide benchmarks: %w", err)
	}

	for i := range out {
		if out[i].ProgTotal > 0 {
			out[i].Aggregate = math.Round(float64(out[i].StatTotal)/float64(out[i].ProgTotal)*100) / 100
		}
	}
	return out, nil
}
