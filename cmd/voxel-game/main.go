package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"voxel-game/internal/config"
	"voxel-game/internal/game"
	"voxel-game/internal/input"
	"voxel-game/internal/logging"
	"voxel-game/internal/meshing"
	"voxel-game/internal/metrics"
	"voxel-game/internal/profiling"
	"voxel-game/internal/savedata"
	"voxel-game/pkg/blockmodel"
)

func main() {
	if err := run(); err != nil {
		logging.Error("%v", err)
		logging.Close()
		os.Exit(1)
	}
	logging.Close()
}

func run() error {
	cfg := config.Default()
	configPath := flag.String("config", "", "path to a YAML config file (default $"+config.EnvConfigPath+")")
	flag.StringVar(&cfg.World.Name, "world", cfg.World.Name, "name of the world to open or create")
	seed := flag.Uint("seed", 0, "world seed for new worlds (0 = random)")
	flag.StringVar(&cfg.World.Type, "generator", cfg.World.Type, "terrain generator: default or flat")
	flag.StringVar(&cfg.Storage.Dir, "save-dir", cfg.Storage.Dir, "directory for saved worlds")
	flag.StringVar(&cfg.Storage.Backend, "backend", cfg.Storage.Backend, "save backend: file or badger")
	flag.StringVar(&cfg.Metrics.Addr, "metrics-addr", cfg.Metrics.Addr, "serve Prometheus metrics on this address")
	flag.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "debug, info, warn or error")
	flag.IntVar(&cfg.HorizontalRenderDistance, "render-distance", cfg.HorizontalRenderDistance, "horizontal render distance in chunks")
	duration := flag.Duration("duration", 0, "stop after this long (0 = until interrupted)")
	atlasOut := flag.String("dump-atlas", "", "write the texture atlas to this PNG file")
	fromStdin := flag.Bool("stdin", false, "read player commands (press/release/tap/look) from stdin")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	cfg.World.Seed = uint32(*seed)

	fromFile, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	config.Merge(cfg, fromFile, explicit)
	mergeRest(cfg, fromFile)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := setupLogging(cfg.Log); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if *duration > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, *duration)
		defer stop()
	}

	m := metrics.New()
	profiling.SetObserver(m.ObserveSpan)
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr); err != nil {
				logging.Error("Metrics server stopped: %v", err)
			}
		}()
	}

	store, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	models, err := loadModels(cfg.Assets.Dir, *atlasOut)
	if err != nil {
		return err
	}

	session, err := game.NewSession(game.Options{
		Config:  cfg,
		Store:   store,
		Models:  models,
		Metrics: m,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	var source game.InputSource
	if *fromStdin {
		im := input.NewManager()
		go readCommands(im)
		source = im
	}

	start := time.Now()
	app := game.NewApp(session, source, cfg.FPSLimit)
	if err := app.Run(ctx); err != nil {
		return err
	}
	logging.Info("Stopped after %d ticks in %v", app.Ticks, time.Since(start).Round(time.Millisecond))
	return nil
}

func readCommands(im *input.Manager) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err := im.Exec(scanner.Text()); err != nil {
			logging.Warn("Ignoring command: %v", err)
		}
	}
}

// mergeRest copies the settings that have no command-line flag.
func mergeRest(cfg, fromFile *config.Config) {
	cfg.VerticalRenderDistance = fromFile.VerticalRenderDistance
	cfg.FPSLimit = fromFile.FPSLimit
	cfg.FOV = fromFile.FOV
	cfg.Meshing = fromFile.Meshing
	cfg.Log.Dir = fromFile.Log.Dir
	cfg.Assets = fromFile.Assets
}

func setupLogging(lc config.LogConfig) error {
	level, err := logging.ParseLevel(lc.Level)
	if err != nil {
		return err
	}
	logging.SetLevel(level)
	if lc.Dir != "" {
		path, err := logging.OpenFile(lc.Dir)
		if err != nil {
			return err
		}
		logging.Info("Logging to %s", path)
	}
	return nil
}

func openStore(sc config.StorageConfig) (savedata.Store, error) {
	if sc.Backend == config.BackendBadger {
		return savedata.OpenBadgerStore(filepath.Join(sc.Dir, "badger"))
	}
	return savedata.NewFileStore(sc.Dir), nil
}

// loadModels builds the block model table. A missing assets directory only
// disables meshing; an incomplete one is an error.
func loadModels(dir, atlasOut string) (*meshing.ModelTable, error) {
	if _, err := os.Stat(filepath.Join(dir, "blockmodel")); errors.Is(err, os.ErrNotExist) {
		logging.Warn("No block models in %s, meshing disabled", dir)
		return nil, nil
	}

	table, atlas, err := meshing.BuildModelTable(blockmodel.NewLoader(dir), blockmodel.DefaultTileSize)
	if err != nil {
		return nil, fmt.Errorf("load block models: %w", err)
	}
	logging.Info("Loaded block models: %d textures in a %dx%d atlas",
		len(atlas.Names()), atlas.Image.Bounds().Dx(), atlas.Image.Bounds().Dy())

	if atlasOut != "" {
		f, err := os.Create(atlasOut)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := png.Encode(f, atlas.Image); err != nil {
			return nil, fmt.Errorf("write atlas: %w", err)
		}
	}
	return table, nil
}
