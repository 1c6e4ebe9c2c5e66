package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chordstab/internal/bootstrap"
	"chordstab/internal/client"
	"chordstab/internal/config"
	"chordstab/internal/domain"
	"chordstab/internal/logger"
	zapfactory "chordstab/internal/logger/zap"
	"chordstab/internal/node"
	"chordstab/internal/router"
	"chordstab/internal/routingtable"
	"chordstab/internal/server"
	"chordstab/internal/storage"
	"chordstab/internal/telemetry"
	"chordstab/internal/telemetry/lookuptrace"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

var defaultConfigPath = "config/node/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %q: %v", *configPath, err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var lgr logger.Logger
	if cfg.Logger.Active {
		zapLog, err := zapfactory.New(cfg.Logger)
		if err != nil {
			log.Fatalf("failed to initialize logger: %v", err)
		}
		defer func() { _ = zapLog.Sync() }()
		lgr = zapfactory.NewZapAdapter(zapLog)
	} else {
		lgr = &logger.NopLogger{}
	}
	cfg.LogConfig(lgr)

	lis, advertised, err := server.Listen(cfg.DHT.Mode, cfg.Node.Bind, cfg.Node.Host, cfg.Node.Port)
	if err != nil {
		lgr.Error("failed to initialize listener", logger.F("err", err))
		os.Exit(1)
	}
	defer func() { _ = lis.Close() }()
	lgr.Debug("created listener", logger.F("addr", advertised))

	space, err := domain.NewSpace(cfg.DHT.IDBits, cfg.DHT.FaultTolerance.SuccessorListSize)
	if err != nil {
		lgr.Error("failed to initialize identifier space", logger.F("err", err))
		os.Exit(1)
	}
	lgr.Debug("identifier space initialized",
		logger.F("id_bits", space.Bits),
		logger.F("successor_list_size", space.SuccListSize))

	var id domain.ID
	if cfg.Node.Id == "" {
		id = space.NewIdFromString(advertised)
	} else {
		id, err = space.FromHexString(cfg.Node.Id)
		if err != nil {
			lgr.Error("invalid node ID in configuration", logger.F("err", err))
			os.Exit(1)
		}
	}
	self := domain.Node{ID: id, Addr: advertised}
	lgr = lgr.Named("node").With(logger.FNode("self", &self))
	lgr.Info("node initializing")

	shutdownTracer := telemetry.InitTracer(cfg.Telemetry, "chordstab-node", id)
	defer func() { _ = shutdownTracer(context.Background()) }()

	rt := routingtable.New(&self, space, space.SuccListSize, routingtable.WithLogger(lgr.Named("routingtable")))

	pool := client.New(lgr.Named("clientpool"), client.WithDialTimeout(cfg.DHT.FaultTolerance.FailureTimeout))
	defer pool.Close()

	rtr := router.New(rt, func(ctx context.Context, addr string) (router.RemotePeer, error) {
		peer, err := pool.Resolve(ctx, addr)
		if err != nil {
			return nil, err
		}
		rp, ok := peer.(router.RemotePeer)
		if !ok {
			return nil, domain.ErrAppropriateNodeNotFound
		}
		return rp, nil
	}, router.WithLogger(lgr.Named("router")))

	store := storage.NewMemoryStorage(lgr.Named("storage"))

	n := node.New(rt, store, pool, rtr,
		node.WithLogger(lgr),
		node.WithFailureTimeout(cfg.DHT.FaultTolerance.FailureTimeout),
	)
	lgr.Debug("node struct initialized")

	var grpcOpts []grpc.ServerOption
	if cfg.Telemetry.Tracing.Enabled {
		grpcOpts = append(grpcOpts,
			grpc.StatsHandler(otelgrpc.NewServerHandler()),
			grpc.ChainUnaryInterceptor(lookuptrace.ServerInterceptor()),
		)
		lgr.Debug("gRPC tracing enabled")
	}

	srv, err := server.New(lis, n, grpcOpts, server.WithLogger(lgr.Named("server")))
	if err != nil {
		lgr.Error("failed to initialize gRPC server", logger.F("err", err))
		os.Exit(1)
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()
	lgr.Debug("gRPC server started")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var boot bootstrap.Bootstrap
	switch cfg.DHT.Bootstrap.Mode {
	case "static":
		boot = bootstrap.NewStaticBootstrap(cfg.DHT.Bootstrap.Peers)
	case "dns":
		boot, err = bootstrap.NewDNSBootstrap(ctx, cfg.DHT.Bootstrap, lgr.Named("bootstrap"))
		if err != nil {
			lgr.Error("failed to initialize DNS bootstrap", logger.F("err", err))
			srv.Stop()
			os.Exit(1)
		}
	case "init":
		boot = nil
	}

	if boot == nil {
		n.CreateNewDHT()
		lgr.Info("new ring created, single-node mode")
	} else {
		discoverCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		peers, err := boot.Discover(discoverCtx)
		cancel()
		if err != nil {
			lgr.Error("bootstrap discovery failed", logger.F("err", err))
			srv.Stop()
			os.Exit(1)
		}
		lgr.Info("resolved bootstrap peers", logger.F("peers", peers))

		if len(peers) == 0 {
			n.CreateNewDHT()
			lgr.Info("no peers discovered, new ring created")
		} else {
			joined := false
			for _, p := range peers {
				if p == advertised {
					continue
				}
				joinCtx, cancel := context.WithTimeout(ctx, cfg.DHT.FaultTolerance.FailureTimeout)
				err := n.Join(joinCtx, p)
				cancel()
				if err != nil {
					lgr.Warn("join attempt failed, trying next peer", logger.F("mediator", p), logger.F("err", err))
					continue
				}
				joined = true
				lgr.Info("joined ring", logger.F("mediator", p))
				break
			}
			if !joined {
				lgr.Error("failed to join through any discovered peer")
				srv.Stop()
				os.Exit(1)
			}
		}

		regCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = boot.Register(regCtx, &self)
		cancel()
		if err != nil {
			lgr.Warn("node registration failed", logger.F("err", err))
		} else {
			defer func() {
				deregCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := boot.Deregister(deregCtx, &self); err != nil {
					lgr.Warn("node deregistration failed", logger.F("err", err))
				}
			}()
		}
	}

	// Re-drive any join left latched in the retry slot (spec's
	// process-wide single-slot retry record) alongside the ordinary
	// stabilization tickers.
	go func() {
		ticker := time.NewTicker(cfg.DHT.FaultTolerance.StabilizationInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pending, ok := n.RetrySlot().Take()
				if !ok {
					continue
				}
				retryCtx, cancel := context.WithTimeout(ctx, cfg.DHT.FaultTolerance.FailureTimeout)
				if err := n.Join(retryCtx, pending.Mediator); err != nil {
					lgr.Warn("retry join failed", logger.F("mediator", pending.Mediator), logger.F("err", err))
				}
				cancel()
			}
		}
	}()

	fatal := n.StartStabilizers(ctx,
		cfg.DHT.FaultTolerance.StabilizationInterval,
		cfg.DHT.Finger.FixInterval,
		cfg.DHT.Storage.RepairInterval,
	)
	lgr.Debug("stabilization workers started")

	select {
	case <-ctx.Done():
		lgr.Info("shutdown signal received, stopping gracefully")
	case err := <-fatal:
		lgr.Error("stabilization core reported a fatal condition", logger.F("err", err))
	case err := <-serveErr:
		lgr.Error("gRPC server terminated unexpectedly", logger.F("err", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
		lgr.Info("server stopped gracefully")
	case <-shutdownCtx.Done():
		lgr.Warn("graceful stop timed out, forcing shutdown")
		srv.Stop()
	}
}
