package health

import (
	"context"
	"time"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServingStatus maps a registry status onto the gRPC health protocol.
// Degraded still serves traffic.
func ServingStatus(s Status) healthpb.HealthCheckResponse_ServingStatus {
	switch s {
	case StatusHealthy, StatusDegraded:
		return healthpb.HealthCheckResponse_SERVING
	case StatusUnhealthy:
		return healthpb.HealthCheckResponse_NOT_SERVING
	default:
		return healthpb.HealthCheckResponse_UNKNOWN
	}
}

// GRPCBridge publishes registry reports to a grpc health server, both for
// the overall server ("") and for the named gRPC service.
type GRPCBridge struct {
	registry *Registry
	server   *grpchealth.Server
	service  string
}

// NewGRPCBridge creates a bridge for the given gRPC service name
func NewGRPCBridge(registry *Registry, server *grpchealth.Server, service string) *GRPCBridge {
	return &GRPCBridge{registry: registry, server: server, service: service}
}

// Update runs the registry checks once and publishes the result
func (b *GRPCBridge) Update(ctx context.Context) *Report {
	report := b.registry.Check(ctx)
	status := ServingStatus(report.Status)
	b.server.SetServingStatus("", status)
	b.server.SetServingStatus(b.service, status)
	return report
}

// Run updates every interval until ctx is done
func (b *GRPCBridge) Run(ctx context.Context, interval time.Duration) {
	b.Update(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Update(ctx)
		}
	}
}
