package server

import (
	"context"
	"errors"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/msto63/venn/internal/venn/exercise"
	"github.com/msto63/venn/internal/venn/service"
	"github.com/msto63/venn/internal/venn/store"
	coreGrpc "github.com/msto63/venn/pkg/core/grpc"
	"github.com/msto63/venn/pkg/core/health"
	"github.com/msto63/venn/pkg/core/logging"
)

// Ensure Server implements VennServiceServer
var _ VennServiceServer = (*Server)(nil)

// Server is the venn gRPC server
type Server struct {
	UnimplementedVennServiceServer
	service *service.Service
	grpc    *coreGrpc.Server
	health  *health.Registry
	bridge  *health.GRPCBridge
	logger  *logging.Logger
	config  Config
}

// Config holds server configuration
type Config struct {
	GRPC coreGrpc.ServerConfig
	// HealthInterval controls how often registry checks are published to
	// the grpc health service
	HealthInterval time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		GRPC:           coreGrpc.DefaultServerConfig(),
		HealthInterval: 15 * time.Second,
	}
}

// New creates a new venn gRPC server. registry may be nil, in which case a
// registry with a single always-healthy check is used.
func New(cfg Config, svc *service.Service, registry *health.Registry) *Server {
	logger := logging.New("venn-grpc")

	if cfg.HealthInterval <= 0 {
		cfg.HealthInterval = 15 * time.Second
	}
	if registry == nil {
		registry = health.NewRegistry("venn", "")
		registry.Register(health.AlwaysHealthy("service"))
	}

	grpcServer := coreGrpc.NewServer(cfg.GRPC, logger)

	s := &Server{
		service: svc,
		grpc:    grpcServer,
		health:  registry,
		bridge:  health.NewGRPCBridge(registry, grpcServer.Health(), ServiceName),
		logger:  logger,
		config:  cfg,
	}

	RegisterVennServiceServer(grpcServer.GRPCServer(), s)

	return s
}

// Evaluate implements VennServiceServer.Evaluate. A parse error is returned
// as InvalidArgument with the structured error attached as a detail.
func (s *Server) Evaluate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req EvaluateRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	res, err := s.service.Evaluate(ctx, service.EvaluateRequest{
		ExerciseID: req.ExerciseID,
		Expression: req.Expression,
		Source:     store.SourceGRPC,
		RequestID:  coreGrpc.GetRequestID(ctx),
	})
	if err != nil {
		return nil, s.toStatus(err, "failed to evaluate")
	}

	if res.Failed() {
		return nil, parseErrorStatus(res.Error)
	}

	out, err := toStruct(res)
	if err != nil {
		s.logger.Error("Failed to encode result", "error", err)
		return nil, status.Error(codes.Internal, "failed to encode result")
	}
	return out, nil
}

// ListExercises implements VennServiceServer.ListExercises
func (s *Server) ListExercises(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := toStruct(ExercisesResponse{
		Default:   s.service.DefaultExercise(),
		Exercises: service.DescribeAll(s.service.Exercises()),
	})
	if err != nil {
		s.logger.Error("Failed to encode exercises", "error", err)
		return nil, status.Error(codes.Internal, "failed to encode exercises")
	}
	return out, nil
}

// GetHistory implements VennServiceServer.GetHistory
func (s *Server) GetHistory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req HistoryRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	filter, err := req.Filter()
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	entries, err := s.service.History(ctx, filter)
	if err != nil {
		return nil, s.toStatus(err, "failed to query history")
	}

	out, err := toStruct(HistoryResponse{Entries: entries, Count: len(entries)})
	if err != nil {
		s.logger.Error("Failed to encode history", "error", err)
		return nil, status.Error(codes.Internal, "failed to encode history")
	}
	return out, nil
}

// GetStats implements VennServiceServer.GetStats
func (s *Server) GetStats(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	stats, err := s.service.Stats(ctx)
	if err != nil {
		return nil, s.toStatus(err, "failed to get stats")
	}
	out, err := toStruct(stats)
	if err != nil {
		s.logger.Error("Failed to encode stats", "error", err)
		return nil, status.Error(codes.Internal, "failed to encode stats")
	}
	return out, nil
}

func (s *Server) toStatus(err error, msg string) error {
	switch {
	case errors.Is(err, exercise.ErrExerciseNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrHistoryDisabled):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		s.logger.Error(msg, "error", err)
		return status.Error(codes.Internal, msg)
	}
}

func parseErrorStatus(e *service.EvalError) error {
	st := status.New(codes.InvalidArgument, e.Message)
	detail, err := toStruct(e)
	if err != nil {
		return st.Err()
	}
	if withDetail, err := st.WithDetails(detail); err == nil {
		st = withDetail
	}
	return st.Err()
}

// Serve serves on an existing listener and blocks
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("Starting venn gRPC server", "address", listener.Addr().String())
	return s.grpc.Serve(listener)
}

// Start listens on the configured address and blocks
func (s *Server) Start() error {
	s.logger.Info("Starting venn gRPC server", "host", s.config.GRPC.Host, "port", s.config.GRPC.Port)
	return s.grpc.Start()
}

// RunHealth publishes health reports until ctx is done
func (s *Server) RunHealth(ctx context.Context) {
	s.bridge.Run(ctx, s.config.HealthInterval)
}

// Stop stops the server. The service is owned by the caller and stays open.
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Stopping venn gRPC server")
	s.grpc.StopWithTimeout(ctx)
}

// GRPCServer returns the underlying gRPC server
func (s *Server) GRPCServer() *grpc.Server {
	return s.grpc.GRPCServer()
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}

// Address returns the server address
func (s *Server) Address() string {
	return s.grpc.Address()
}
