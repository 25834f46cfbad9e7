package grpc

import (
	"context"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Check reports whether one dependency (database, revocation store) is usable.
type Check func(ctx context.Context) error

// probe runs every check once and publishes the combined result under
// ServiceName.
func (s *GRPCServer) probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	for name, check := range s.checks {
		cctx, cancel := context.WithTimeout(ctx, s.probeInterval)
		err := check(cctx)
		cancel()
		if err != nil {
			s.logger.Warn(ctx, "health check failed", "dependency", name, "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus(ServiceName, status)
}

func (s *GRPCServer) probeLoop(ctx context.Context) {
	t := time.NewTicker(s.probeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.probe(ctx)
		}
	}
}
