package grpc

import (
	"context"
	"net"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"hazel-marketplace/internal/logger"
)

// CheckFunc reports whether a dependency is reachable.
type CheckFunc func(ctx context.Context) error

// HealthServer exposes grpc.health.v1 for load balancers and orchestrators.
// The overall ("") status is SERVING only while every check passes; each
// check is also reported under its own service name.
type HealthServer struct {
	server *grpclib.Server
	health *health.Server
	checks map[string]CheckFunc
}

func NewHealthServer(checks map[string]CheckFunc) *HealthServer {
	s := grpclib.NewServer(grpclib.UnaryInterceptor(loggingInterceptor))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)

	for name := range checks {
		hs.SetServingStatus(name, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthServer{server: s, health: hs, checks: checks}
}

// CheckNow runs every check once and publishes the result.
func (h *HealthServer) CheckNow(ctx context.Context) bool {
	healthy := true
	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check(ctx)
		cancel()

		st := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			healthy = false
			st = healthpb.HealthCheckResponse_NOT_SERVING
			logger.Warn("Health check failed", "check", name, "error", err)
		}
		h.health.SetServingStatus(name, st)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", overall)
	return healthy
}

// Run checks every interval until ctx is done.
func (h *HealthServer) Run(ctx context.Context, interval time.Duration) {
	h.CheckNow(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.CheckNow(ctx)
		}
	}
}

func (h *HealthServer) Serve(lis net.Listener) error {
	logger.Info("gRPC health server listening", "address", lis.Addr().String())
	return h.server.Serve(lis)
}

// Stop marks everything NOT_SERVING so clients drain, then stops gracefully.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}

func loggingInterceptor(ctx context.Context, req interface{}, info *grpclib.UnaryServerInfo, handler grpclib.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	logger.Debug("gRPC request", "method", info.FullMethod, "code", status.Code(err).String(), "duration_ms", time.Since(start).Milliseconds())
	return resp, err
}
