//-------------------------------------------------------------------------
//
// Storefront Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline sequences the transform-and-load run: extraction,
// normalization, star-schema assembly, and the per-table staged bulk-load.
// Execution is single-threaded and single-pass; no step re-runs a prior
// step's output, and no failure is retried.
package pipeline

import (
	"context"
	"fmt"

	"github.com/shopwright/storefront-etl/internal/extract"
	"github.com/shopwright/storefront-etl/internal/logging"
	"github.com/shopwright/storefront-etl/internal/mart"
	"github.com/shopwright/storefront-etl/internal/transform"
	"github.com/shopwright/storefront-etl/internal/warehouse"
)

// ExtractReader supplies the raw extract set; satisfied by *extract.Reader.
type ExtractReader interface {
	ReadAll() (map[string]*extract.Extract, error)
}

// TableLoader loads one output table; satisfied by *warehouse.Loader.
type TableLoader interface {
	Load(ctx context.Context, t *mart.Table) warehouse.LoadResult
}

// Status is the aggregate outcome of a run.
type Status int

const (
	// StatusSuccess: every table loaded.
	StatusSuccess Status = iota
	// StatusPartial: loading began but at least one table failed.
	StatusPartial
	// StatusFailed: the run halted before any table loaded.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartial:
		return "partial"
	default:
		return "failed"
	}
}

// Report aggregates per-table outcomes and transform observations for one
// run. A run never ends as a silent no-op: the report always states
// success, partial success, or total failure.
type Report struct {
	Status  Status
	Results []warehouse.LoadResult
	Stats   transform.FactStats
}

// Failed returns the results of tables whose load attempt failed.
func (r *Report) Failed() []warehouse.LoadResult {
	var failed []warehouse.LoadResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Pipeline orchestrates one transform-and-load run.
type Pipeline struct {
	reader ExtractReader
	loader TableLoader
}

// New wires a Pipeline from its collaborators.
func New(reader ExtractReader, loader TableLoader) *Pipeline {
	return &Pipeline{reader: reader, loader: loader}
}

// Run executes the full pipeline. Dimension tables load strictly before
// the fact table. The load phase is fail-fast: the first table failure
// halts the run and the remaining tables are reported as skipped, so the
// warehouse is never left with a fresh fact table over stale dimensions.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{Status: StatusFailed}

	extracts, err := p.reader.ReadAll()
	if err != nil {
		return report, fmt.Errorf("extraction failed: %w", err)
	}

	tables, stats, err := p.Build(extracts)
	if err != nil {
		return report, err
	}
	report.Stats = stats

	for i, t := range tables {
		result := p.loader.Load(ctx, t)
		report.Results = append(report.Results, result)
		if result.Err != nil {
			for _, rest := range tables[i+1:] {
				report.Results = append(report.Results,
					warehouse.LoadResult{Table: rest.Name, Skipped: true})
			}
			break
		}
	}

	report.Status = StatusSuccess
	if failed := report.Failed(); len(failed) > 0 {
		report.Status = StatusPartial
		logging.Warn().
			Int("tables_failed", len(failed)).
			Msg("Run completed with failures")
	} else {
		logging.Info().
			Int("tables_loaded", len(report.Results)).
			Msg("Run completed, all tables loaded")
	}
	return report, nil
}

// Build runs the transformation phase only: normalize, decode, translate,
// and assemble the six output tables in load order.
func (p *Pipeline) Build(extracts map[string]*extract.Extract) ([]*mart.Table, transform.FactStats, error) {
	transform.Normalize(extracts)

	records, err := transform.DecodeAll(extracts)
	if err != nil {
		return nil, transform.FactStats{}, fmt.Errorf("transformation failed: %w", err)
	}

	tables, stats := transform.BuildAll(records)

	if stats.DroppedOrders > 0 {
		logging.Warn().
			Int("dropped_orders", stats.DroppedOrders).
			Msg("Orders without a matching customer dropped from the fact table")
	}
	for _, t := range tables {
		logging.Info().
			Str("table", t.Name).
			Int("rows", len(t.Rows)).
			Msg("Built output table")
	}
	return tables, stats, nil
}
