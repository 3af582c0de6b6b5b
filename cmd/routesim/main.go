// Command routesim computes a baseline route, samples diverse alternatives,
// injects congestion around the baseline and routes again.
//
//	routesim [-config routesim.yaml] [run|serve]
//
// run (the default) renders each stage as GeoJSON when render.dir is set.
// serve exposes the same pipeline over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/katalvlaran/detour/builder"
	"github.com/katalvlaran/detour/config"
	"github.com/katalvlaran/detour/core"
	"github.com/katalvlaran/detour/metrics"
	"github.com/katalvlaran/detour/prm"
	"github.com/katalvlaran/detour/render"
	"github.com/katalvlaran/detour/rng"
	"github.com/katalvlaran/detour/server"
	"github.com/katalvlaran/detour/simulation"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "routesim: .env:", err)
	}

	configPath := flag.String("config", "", "path to routesim.yaml")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "routesim:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, cmd string) error {
	cfg, used, err := config.Load(configPath)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	log.Info("config loaded", "path", used, "network", cfg.Network.Kind, "seed", cfg.Seed)

	g, err := buildNetwork(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("network loaded", "vertices", g.VertexCount(), "edges", g.EdgeCount())

	switch cmd {
	case "", "run":
		return simulate(ctx, cfg, g, log)
	case "serve":
		return serve(ctx, cfg, g, log)
	default:
		return fmt.Errorf("unknown command %q (want run or serve)", cmd)
	}
}

func buildNetwork(ctx context.Context, cfg *config.Config) (*core.Graph, error) {
	n := cfg.Network
	bopts := []builder.BuilderOption{builder.WithSpacing(n.Spacing)}
	if n.Jitter > 0 {
		bopts = append(bopts, builder.WithSeed(cfg.Seed), builder.WithJitter(n.Jitter))
	}
	if n.OneWay {
		bopts = append(bopts, builder.WithOneWayStreets())
	}

	var gopts []core.GraphOption
	var cons builder.Constructor
	switch n.Kind {
	case config.KindGrid:
		cons = builder.Grid(n.Rows, n.Cols)
	case config.KindYAML, config.KindOSM:
		f, err := os.Open(n.Path)
		if err != nil {
			return nil, fmt.Errorf("open network: %w", err)
		}
		defer f.Close()
		if n.Kind == config.KindYAML {
			cons = builder.FromYAML(f)
		} else {
			gopts = append(gopts, core.WithMultiEdges())
			cons = builder.FromOSM(ctx, f)
		}
	}

	return builder.BuildNetwork(gopts, bopts, cons)
}

// endpoint resolves a vertex ID, or snaps a coordinate to the nearest vertex.
func endpoint(g *core.Graph, id string, p *config.LatLon) (string, error) {
	if id != "" {
		return id, nil
	}

	return g.Nearest(builder.Project(p.Lat, p.Lon))
}

func prmOptions(cfg *config.Config) []prm.Option {
	return []prm.Option{
		prm.WithK(cfg.PRM.K),
		prm.WithThreshold(cfg.PRM.Threshold),
		prm.WithMaxAttempts(cfg.PRM.Attempts),
		prm.WithRemovalFraction(cfg.PRM.RemovalFraction),
		prm.WithWorkers(cfg.PRM.Workers),
	}
}

func simulate(ctx context.Context, cfg *config.Config, g *core.Graph, log *slog.Logger) error {
	source, err := endpoint(g, cfg.Route.Source, cfg.Route.SourcePoint)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	target, err := endpoint(g, cfg.Route.Target, cfg.Route.TargetPoint)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}

	var renderer render.Renderer = render.Nop{}
	if cfg.Render.Dir != "" {
		gj := render.NewGeoJSON(cfg.Render.Dir, cfg.Render.Streets, log)
		if cfg.Network.Kind == config.KindOSM {
			gj.Projection = builder.Unproject
		}
		renderer = gj
	}

	rep, err := simulation.Run(ctx, g, source, target, rng.New(cfg.Seed),
		simulation.WithPRMOptions(prmOptions(cfg)...),
		simulation.WithRenderer(renderer),
		simulation.WithLogger(log),
	)
	if err != nil {
		return err
	}
	log.Info("run complete",
		"run", rep.RunID.String(),
		"baseline_km", fmt.Sprintf("%.2f", rep.BaselineMeters/1000),
		"alternatives", len(rep.Alternatives),
		"updates", len(rep.Updates),
		"rerouted_km", fmt.Sprintf("%.2f", rep.ReroutedMeters/1000),
		"diverged", rep.Diverged,
	)

	return nil
}

func serve(ctx context.Context, cfg *config.Config, g *core.Graph, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := server.New(g, cfg.Seed,
		server.WithMetrics(metrics.New(reg), reg),
		server.WithLogger(log),
		server.WithPRMOptions(prmOptions(cfg)...),
	).Handler()
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")

	return srv.Shutdown(shutdownCtx)
}
