package grpc

import (
	"context"

	"google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/viralforge/forensics-engine/internal/application"
)

// ForensicsInternalServer exposes the mesh-internal gRPC surface. Today that
// is health probing only; sibling services poll it before routing vetting
// traffic here.
type ForensicsInternalServer struct {
	grpc_health_v1.UnimplementedHealthServer
	service *application.Service
}

func NewForensicsInternalServer(service *application.Service) *ForensicsInternalServer {
	return &ForensicsInternalServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc *ForensicsInternalServer) {
	grpc_health_v1.RegisterHealthServer(server, svc)
}

func (s *ForensicsInternalServer) Check(_ context.Context, _ *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	return &grpc_health_v1.HealthCheckResponse{Status: s.status()}, nil
}

func (s *ForensicsInternalServer) Watch(_ *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	return stream.Send(&grpc_health_v1.HealthCheckResponse{Status: s.status()})
}

// status degrades to NOT_SERVING until the pricing model is fitted; the
// analysis endpoints cannot answer without it.
func (s *ForensicsInternalServer) status() grpc_health_v1.HealthCheckResponse_ServingStatus {
	if !s.service.Ready() {
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}
