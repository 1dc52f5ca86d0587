package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/cardhouse/internal/config"
	"github.com/zeusync/cardhouse/internal/core/observability/log"
	"github.com/zeusync/cardhouse/internal/core/sandbox"
	"github.com/zeusync/cardhouse/internal/injector"
)

//go:embed demo.yaml
var demoScript []byte

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		scriptPath = flag.String("script", "", "path to an input script (defaults to the built-in demo)")
		realtime   = flag.Bool("realtime", false, "pace frames at scene.frame_rate")
		report     = flag.Int("report", 60, "log a progress line every N frames (0 disables)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *scriptPath, *realtime, *report, os.Stdout); err != nil {
		fmt.Println("Error running sandbox:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, scriptPath string, realtime bool, report int, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	script, err := openScript(scriptPath)
	if err != nil {
		return err
	}

	sb, cleanup, err := injector.InitializeSandbox(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := sb.Logger().With(log.String("component", "replay"))

	frameTime := time.Second / time.Duration(cfg.Scene.FrameRate)
	progress := make(chan sandbox.Snapshot, 1)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(progress)

		var ticker *time.Ticker
		if realtime {
			ticker = time.NewTicker(frameTime)
			defer ticker.Stop()
		}

		var frames int
		p := &player{sb: sb, dt: frameTime.Seconds()}
		p.tick = func() {
			frames++
			if ticker != nil {
				select {
				case <-ticker.C:
				case <-ctx.Done():
				}
			}
			if report > 0 && frames%report == 0 {
				select {
				case progress <- sb.Snapshot():
				default:
				}
			}
		}

		for i, step := range script.Steps {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.apply(i, step); err != nil {
				return err
			}
		}
		logger.Info("script finished", log.Int("steps", len(script.Steps)), log.Int("frames", frames))
		return nil
	})

	g.Go(func() error {
		for snap := range progress {
			logger.Info("progress",
				log.Uint64("frame", snap.Frame),
				log.Int("cards", snap.Count),
				log.Int("sleeping", sleeping(snap)),
				log.Bool("frozen", snap.Frozen),
			)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(sb.Snapshot()); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}

func openScript(path string) (*Script, error) {
	if path == "" {
		return LoadScript(bytes.NewReader(demoScript))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return LoadScript(f)
}

func sleeping(snap sandbox.Snapshot) int {
	n := 0
	for _, b := range snap.Bodies {
		if b.Sleeping {
			n++
		}
	}
	return n
}
