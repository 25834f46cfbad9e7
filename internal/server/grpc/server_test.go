package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv, err := NewGRPCServer("127.0.0.1:0", logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("NewGRPCServer error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv, err := NewGRPCServer("127.0.0.1:99999", logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("NewGRPCServer error (constructor should not fail here): %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

func TestHealthCheck_ReflectsDependencies(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)
	var dbDown atomic.Bool
	srv, err := NewGRPCServer(addr, logging.NewNop(), map[string]Check{
		"database": func(context.Context) error {
			if dbDown.Load() {
				return errors.New("connection refused")
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("NewGRPCServer error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.Run(ctx) }()

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	check := func(service string) healthpb.HealthCheckResponse_ServingStatus {
		t.Helper()
		var last error
		for i := 0; i < 50; i++ {
			cctx, ccancel := context.WithTimeout(ctx, time.Second)
			resp, err := client.Check(cctx, &healthpb.HealthCheckRequest{Service: service})
			ccancel()
			if err == nil {
				return resp.GetStatus()
			}
			last = err
			time.Sleep(20 * time.Millisecond)
		}
		t.Fatalf("health check %q: %v", service, last)
		return 0
	}

	if got := check(""); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("liveness: got %v", got)
	}
	if got := check(ServiceName); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("readiness: got %v", got)
	}

	dbDown.Store(true)
	srv.probe(ctx)

	if got := check(ServiceName); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("readiness after failure: got %v", got)
	}
}
