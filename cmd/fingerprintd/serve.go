package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	grpcctx "github.com/dtroode/fingerprint-server/internal/api/grpc/context"
	"github.com/dtroode/fingerprint-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/fingerprint-server/internal/api/grpc/server"
	httpapi "github.com/dtroode/fingerprint-server/internal/api/http"
	"github.com/dtroode/fingerprint-server/internal/model"
	"github.com/dtroode/fingerprint-server/internal/server"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC and HTTP transports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer log.Close()

	d, err := buildDaemon(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer d.close(log)

	if cfg.Sensor.Hotplug {
		if err := d.monitor.Start(ctx); err != nil {
			log.Warn("Hotplug monitor disabled", "error", err)
		}
	}

	ctxMgr := grpcctx.NewManager()
	grpcRouter := router.New(d.fingerprint, d.tokens, ctxMgr, log)
	servers := []model.Server{
		grpcServer.NewGRPCServer(grpcRouter.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port)),
	}
	if cfg.HTTP.Enabled {
		app := httpapi.New(d.fingerprint, d.tokens, ctxMgr, log).
			WithRequestTimeout(cfg.HTTP.RequestTimeout).
			Register()
		servers = append(servers, httpapi.NewServer(app, fmt.Sprintf(":%s", cfg.HTTP.Port)))
	}

	sl := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)

	log.Info("Starting fingerprintd",
		"version", buildVersion,
		"commit", buildCommit,
		"store", cfg.Database.Driver,
		"sensor", cfg.Sensor.Driver)

	err = server.Run(ctx, servers, sl, cfg.ShutdownTimeout, log,
		func(context.Context) { grpcRouter.Shutdown() },
		func(ctx context.Context) { d.shutdown(ctx, log) },
	)
	log.Info("Shutdown complete")
	return err
}
