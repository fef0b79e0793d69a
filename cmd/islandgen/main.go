// Command islandgen generates a toroidal island map, writes its layers as
// bitmaps and records the run in a SQLite catalogue.
//
// Configuration is read from the environment:
//
//	TIDEMAP_SIZE        map width and height in cells (default 512)
//	TIDEMAP_SEED        random seed, 0 for a fresh one (default 0)
//	TIDEMAP_OUT         output directory for images (default "out")
//	TIDEMAP_DB          run catalogue path, empty to disable (default "data/tidemap.db")
//	TIDEMAP_FLOW        "false" to skip the ocean current simulation
//	TIDEMAP_NOISE       elevation noise: "diamond-square" or "fractal"
//	TIDEMAP_LOG_FORMAT  "text" or "json" (default: text on a terminal)
package main

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/talgya/tidemap/internal/noise"
	"github.com/talgya/tidemap/internal/persistence"
	"github.com/talgya/tidemap/internal/render"
	"github.com/talgya/tidemap/internal/world"
)

func main() {
	setupLogging(envOrDefault("TIDEMAP_LOG_FORMAT", ""))

	cfg, err := configFromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	outDir := envOrDefault("TIDEMAP_OUT", "out")
	dbPath := envOrDefault("TIDEMAP_DB", "data/tidemap.db")

	slog.Info("generating map",
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"noise", cfg.Elevation.Kind,
		"flow", cfg.Flow.Enabled,
	)
	start := time.Now()
	m, err := world.Generate(cfg)
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("map ready",
		"seed", m.Stats.Seed,
		"land", humanize.Comma(int64(m.Stats.LandCells)),
		"sea", humanize.Comma(int64(m.Stats.SeaCells)),
		"land_fraction", fmt.Sprintf("%.3f", m.LandFraction()),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	// ── Images ───────────────────────────────────────────────────────
	if err := os.MkdirAll(outDir, 0755); err != nil {
		slog.Error("failed to create output directory", "path", outDir, "error", err)
		os.Exit(1)
	}
	if err := writeImage(filepath.Join(outDir, "elevation.bmp"), render.ElevationImage(m)); err != nil {
		slog.Error("failed to write elevation", "error", err)
		os.Exit(1)
	}
	if m.OceanFlow != nil {
		img, err := render.FlowImage(m)
		if err == nil {
			err = writeImage(filepath.Join(outDir, "flow.bmp"), img)
		}
		if err != nil {
			slog.Error("failed to write flow", "error", err)
			os.Exit(1)
		}
	}

	// ── Run catalogue ────────────────────────────────────────────────
	if dbPath == "" {
		return
	}
	if err := recordRun(dbPath, m, cfg.Elevation.Kind.String()); err != nil {
		slog.Error("failed to record run", "path", dbPath, "error", err)
		os.Exit(1)
	}
}

// configFromEnv builds a generation config from TIDEMAP_* variables.
func configFromEnv() (world.GenConfig, error) {
	size := envIntOrDefault("TIDEMAP_SIZE", 512)
	cfg := world.DefaultGenConfig().WithSize(size, size)

	seed, err := strconv.ParseInt(envOrDefault("TIDEMAP_SEED", "0"), 10, 64)
	if err != nil {
		return cfg, fmt.Errorf("TIDEMAP_SEED: %w", err)
	}
	cfg.Seed = seed

	if v := os.Getenv("TIDEMAP_FLOW"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("TIDEMAP_FLOW: %w", err)
		}
		cfg.Flow.Enabled = enabled
	}

	kind, err := noise.ParseKind(envOrDefault("TIDEMAP_NOISE", "diamond-square"))
	if err != nil {
		return cfg, fmt.Errorf("TIDEMAP_NOISE: %w", err)
	}
	if kind == noise.KindFractal {
		cfg.Elevation = noise.FractalConfig(4/float64(size), 6, 0)
		cfg.Roughness = noise.FractalConfig(16/float64(size), 4, 0)
	}

	return cfg, cfg.Validate()
}

func writeImage(path string, img image.Image) error {
	if err := render.WriteBMP(path, img); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	slog.Info("image written", "path", path, "size", humanize.Bytes(uint64(info.Size())))
	return nil
}

func recordRun(path string, m *world.UpperMap, noiseKind string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	db, err := persistence.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if prev, err := db.GetMeta("last_run"); err == nil {
		if r, err := db.GetRun(prev); err == nil {
			slog.Info("previous run", "id", r.ID, "seed", r.Seed, "when", humanize.Time(r.CreatedAt))
		}
	}

	id, err := db.SaveRun(persistence.NewRun(m, noiseKind))
	if err != nil {
		return err
	}
	if err := db.SaveMeta("last_run", id); err != nil {
		return err
	}

	same, err := db.RunsForSeed(m.Stats.Seed)
	if err != nil {
		return err
	}
	slog.Info("run recorded", "id", id, "db", path, "runs_with_seed", len(same))
	return nil
}

// setupLogging installs a text handler on terminals and JSON elsewhere,
// unless format names one explicitly.
func setupLogging(format string) {
	if format == "" {
		format = "json"
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			format = "text"
		}
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
