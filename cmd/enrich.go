package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/player-enrich/internal/dataset"
	"github.com/sells-group/player-enrich/internal/enrich"
	"github.com/sells-group/player-enrich/internal/model"
	"github.com/sells-group/player-enrich/internal/store"
	"github.com/sells-group/player-enrich/pkg/geocode"
)

type enrichOptions struct {
	players      string
	countries    string
	output       string
	format       string
	geojson      string
	concurrency  int
	limit        int
	skipDistance bool
	head         int
}

var enrichOpts enrichOptions

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Compute PER and school-to-birthplace miles for every player",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mode := "enrich"
		if enrichOpts.skipDistance {
			mode = "per"
		}
		if enrichOpts.concurrency > 0 {
			cfg.Enrich.Concurrency = enrichOpts.concurrency
		}
		if err := cfg.Validate(mode); err != nil {
			return err
		}

		var gc geocode.Client
		if !enrichOpts.skipDistance {
			c, err := newGeocoder(cfg.Geocode)
			if err != nil {
				return err
			}
			gc = c
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		_, err = runEnrich(ctx, enrichOpts, gc, st, os.Stdout)
		return err
	},
}

func init() {
	f := enrichCmd.Flags()
	f.StringVar(&enrichOpts.players, "players", "player_locations_and_stat_totals.csv", "players table (path, http(s):// or ftp:// URL)")
	f.StringVar(&enrichOpts.countries, "countries", "country_codes.csv", "country code table (path, http(s):// or ftp:// URL)")
	f.StringVarP(&enrichOpts.output, "output", "o", "output_showing_miles_between.csv", "output file (.csv or .xlsx)")
	f.StringVar(&enrichOpts.format, "format", "", "output format: csv or xlsx (default from extension)")
	f.StringVar(&enrichOpts.geojson, "geojson", "", "also write school-to-birthplace lines as GeoJSON to this path")
	f.IntVar(&enrichOpts.concurrency, "concurrency", 0, "geocoding workers (default from config)")
	f.IntVar(&enrichOpts.limit, "limit", 0, "only process the first N players (0 = all)")
	f.BoolVar(&enrichOpts.skipDistance, "skip-distance", false, "compute PER only")
	f.IntVar(&enrichOpts.head, "head", 100, "print the top N rows after writing (0 = none)")
	rootCmd.AddCommand(enrichCmd)
}

// runEnrich executes the pipeline: load, join, enrich, sort, write, persist.
// A cancelled context still writes the partial result.
func runEnrich(ctx context.Context, opts enrichOptions, gc geocode.Client, st store.Store, out io.Writer) (*model.RunSummary, error) {
	start := time.Now()
	log := zap.L().With(zap.String("players", opts.players))

	format, err := dataset.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}

	var run *model.Run
	if st != nil {
		run, err = st.CreateRun(ctx, model.RunSource{
			Players:   opts.players,
			Countries: opts.countries,
			Output:    opts.output,
			Provider:  cfg.Geocode.Provider,
		})
		if err != nil {
			return nil, eris.Wrap(err, "enrich: create run")
		}
		log = log.With(zap.String("run_id", run.ID))
	}

	summary, enriched, err := enrichTables(ctx, opts, gc, format)
	if err != nil {
		if run != nil {
			// Background context: the run must be marked failed even after SIGINT.
			if ferr := st.FailRun(context.Background(), run.ID, err); ferr != nil {
				log.Error("enrich: mark run failed", zap.Error(ferr))
			}
		}
		return nil, err
	}

	if run != nil {
		if err := persistRun(st, run.ID, enriched, summary); err != nil {
			return nil, err
		}
	}

	log.Info("enrich: complete",
		zap.Int("total", summary.Total),
		zap.Int("per_undefined", summary.PERUndefined),
		zap.Int("resolved", summary.Resolved),
		zap.Int("unresolved", summary.Unresolved),
		zap.Int("country_missing", summary.CountryMissing),
		zap.String("output", opts.output),
		zap.Duration("elapsed", time.Since(start)),
	)

	if opts.head > 0 {
		printHead(out, enriched, opts.head)
	}
	return summary, nil
}

func enrichTables(ctx context.Context, opts enrichOptions, gc geocode.Client, format dataset.Format) (*model.RunSummary, []model.EnrichedPlayer, error) {
	loader := dataset.NewLoader(
		dataset.HTTPOptions{
			UserAgent:  cfg.Fetch.UserAgent,
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Fetch.MaxRetries,
		},
		dataset.FTPOptions{Timeout: time.Duration(cfg.Fetch.TimeoutSecs) * time.Second},
	)

	playerTable, err := loader.Load(ctx, opts.players, "")
	if err != nil {
		return nil, nil, eris.Wrap(err, "enrich: load players")
	}
	players, err := dataset.DecodePlayers(playerTable)
	if err != nil {
		return nil, nil, eris.Wrap(err, "enrich: decode players")
	}
	if opts.limit > 0 && opts.limit < len(players) {
		players = players[:opts.limit]
	}

	countryTable, err := loader.Load(ctx, opts.countries, "")
	if err != nil {
		return nil, nil, eris.Wrap(err, "enrich: load countries")
	}
	countries, err := dataset.LoadCountries(countryTable, cfg.Countries.KeyColumn, cfg.Countries.NameColumn)
	if err != nil {
		return nil, nil, err
	}
	missing := dataset.JoinCountries(players, countries)

	e := enrich.New(gc, enrich.Config{
		Concurrency:   cfg.Enrich.Concurrency,
		ProgressEvery: cfg.Enrich.ProgressEvery,
		SkipDistance:  opts.skipDistance,
	})
	enriched := e.Enrich(ctx, players)
	summary := enrich.Summarize(enriched, missing)

	table := dataset.BuildOutput(playerTable.Header, countries.Columns, enriched)
	if err := dataset.WriteFile(opts.output, format, table); err != nil {
		return nil, nil, eris.Wrap(err, "enrich: write output")
	}

	if opts.geojson != "" {
		if err := writeGeoJSON(opts.geojson, enriched); err != nil {
			return nil, nil, err
		}
	}
	return summary, enriched, nil
}

func writeGeoJSON(path string, enriched []model.EnrichedPlayer) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "enrich: create %s", path)
	}
	n, err := dataset.WriteGeoJSON(f, enriched)
	if err != nil {
		_ = f.Close()
		return err
	}
	zap.L().Info("enrich: geojson written", zap.String("path", path), zap.Int("features", n))
	return eris.Wrapf(f.Close(), "enrich: close %s", path)
}

func persistRun(st store.Store, runID string, enriched []model.EnrichedPlayer, summary *model.RunSummary) error {
	// Detached from the run context so an interrupted run is still recorded.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := st.SavePlayers(ctx, runID, enrich.Records(runID, enriched)); err != nil {
		_ = st.FailRun(ctx, runID, err)
		return eris.Wrap(err, "enrich: save players")
	}
	if err := st.CompleteRun(ctx, runID, summary); err != nil {
		return eris.Wrap(err, "enrich: complete run")
	}
	return nil
}
