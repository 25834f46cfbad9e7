// Package grpc serves the standard gRPC health protocol for the auth server.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name that tracks dependency readiness.
// The empty name reports process liveness only.
const ServiceName = "authkeeper.Auth"

const defaultProbeInterval = 10 * time.Second

type GRPCServer struct {
	address       string
	logger        logging.Logger
	health        *health.Server
	checks        map[string]Check
	probeInterval time.Duration
}

func NewGRPCServer(a string, l logging.Logger, checks map[string]Check) (*GRPCServer, error) {
	return &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		health:        health.NewServer(),
		checks:        checks,
		probeInterval: defaultProbeInterval,
	}, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.probe(ctx)

	go s.probeLoop(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
