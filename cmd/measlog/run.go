package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/banshee-data/hyper/internal/config"
	"github.com/banshee-data/hyper/internal/db"
	"github.com/banshee-data/hyper/internal/measurements"
	"github.com/banshee-data/hyper/internal/monitoring"
	"github.com/banshee-data/hyper/internal/sensors"
	"github.com/banshee-data/hyper/internal/storage/sqlite"
	"github.com/banshee-data/hyper/internal/timeutil"
	"github.com/banshee-data/hyper/internal/variables"
	"github.com/banshee-data/hyper/internal/window"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

type options struct {
	ConfigPath   string
	DBPath       string
	ImportPath   string
	RetireBefore float64 // NaN disables
	Summary      bool
	Metrics      bool     // dump hyper_* metrics after the run
	List         string   // "from,to" in seconds; replays stored measurements as JSON lines
	Migrate      []string // e.g. {"up"}, {"force", "1"}
}

type vectorStore = sqlite.MeasurementStore[sensors.Descriptor, variables.Vector]

func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := config.LoadEstimationConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	monitoring.SetDebug(cfg.GetDebug())

	path := opts.DBPath
	if path == "" {
		path = cfg.GetDatabasePath()
	}

	// Schema commands run on a raw connection so "down" is not undone by
	// the automatic migration in NewDB.
	if len(opts.Migrate) > 0 {
		database, err := db.OpenDB(path)
		if err != nil {
			return err
		}
		defer database.Close()
		return db.RunMigrateCommand(database, opts.Migrate, out)
	}

	database, err := db.NewDB(path)
	if err != nil {
		return err
	}
	defer database.Close()

	reg, err := sensors.RegistryFromConfig(cfg)
	if err != nil {
		return err
	}
	if err := sqlite.NewSensorStore(database.DB, nil).SaveRegistry(ctx, reg); err != nil {
		return err
	}

	store := sqlite.NewMeasurementStore[sensors.Descriptor, variables.Vector](
		database.DB, reg, variables.VectorCodec{Dim: cfg.GetVectorDim()}, timeutil.RealClock{})

	if opts.ImportPath != "" {
		wcfg, err := window.ConfigFromEstimation(cfg)
		if err != nil {
			return err
		}
		wcfg.Validate = registryValidator(reg)

		f, err := os.Open(opts.ImportPath)
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()

		stats, err := importRecords(ctx, f, reg, window.New(wcfg), store)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "imported %d measurements, rejected %d, retired from window %d, evicted %d\n",
			stats.Imported, stats.Rejected, stats.Retired, stats.Evicted)
	}

	if !math.IsNaN(opts.RetireBefore) {
		n, err := store.DeleteBefore(ctx, measurements.Time(opts.RetireBefore))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %d measurements before t=%.6f\n", n, opts.RetireBefore)
	}

	if opts.List != "" {
		if err := listMeasurements(ctx, out, database, cfg, opts.List); err != nil {
			return err
		}
	}

	if opts.Summary {
		if err := printSummary(ctx, out, store, reg); err != nil {
			return err
		}
	}
	if opts.Metrics {
		return writeMetrics(out, prometheus.DefaultGatherer)
	}
	return nil
}

// writeMetrics writes the pipeline's metric families in the Prometheus text
// format. Go runtime and process collectors are skipped.
func writeMetrics(out io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(out, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "hyper_") {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}

func registryValidator(reg *sensors.Registry[sensors.Descriptor]) func(measurements.Measurement) error {
	return func(m measurements.Measurement) error {
		refs, ok := m.(sensors.Refs[sensors.Descriptor])
		if !ok {
			return fmt.Errorf("%w: %T", measurements.ErrInstantiation, m)
		}
		return reg.Validate(refs)
	}
}

func printSummary(ctx context.Context, out io.Writer, store *vectorStore, reg *sensors.Registry[sensors.Descriptor]) error {
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	counts, err := store.CountByType(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "measurements: %d\n", total)
	for _, typ := range measurements.Types {
		fmt.Fprintf(out, "  %-22s %d\n", typ, counts[typ])
	}

	ids := reg.IDs()
	fmt.Fprintf(out, "sensors: %d\n", len(ids))
	for _, id := range ids {
		d, err := reg.Lookup(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-12s %s\n", id, d)
	}
	return nil
}
