package server

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/msto63/venn/internal/venn/service"
	coreGrpc "github.com/msto63/venn/pkg/core/grpc"
)

// Client talks to a remote venn gRPC server
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewClient creates a client for cfg.Target
func NewClient(cfg coreGrpc.ClientConfig, opts ...grpc.DialOption) (*Client, error) {
	conn, err := coreGrpc.Dial(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, timeout: cfg.Timeout}, nil
}

func (c *Client) invoke(ctx context.Context, method string, req interface{}, resp interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	in, err := toStruct(req)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		return err
	}
	if err := fromStruct(out, resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Evaluate evaluates an expression remotely. A parse error is reported in
// the result's Error field, as with the local service.
func (c *Client) Evaluate(ctx context.Context, exerciseID, expression string) (*service.EvaluateResult, error) {
	var res service.EvaluateResult
	err := c.invoke(ctx, EvaluateMethod, EvaluateRequest{ExerciseID: exerciseID, Expression: expression}, &res)
	if err == nil {
		return &res, nil
	}

	if evalErr, ok := parseErrorFromStatus(err); ok {
		return &service.EvaluateResult{
			ExerciseID: exerciseID,
			Expression: expression,
			Elements:   []uint{},
			Result:     "{}",
			Error:      evalErr,
		}, nil
	}
	return nil, err
}

// ListExercises returns the exercises known to the server
func (c *Client) ListExercises(ctx context.Context) (*ExercisesResponse, error) {
	var res ExercisesResponse
	if err := c.invoke(ctx, ListExercisesMethod, struct{}{}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// History queries the server's evaluation history
func (c *Client) History(ctx context.Context, req HistoryRequest) (*HistoryResponse, error) {
	var res HistoryResponse
	if err := c.invoke(ctx, GetHistoryMethod, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Stats returns the server's statistics
func (c *Client) Stats(ctx context.Context) (*service.Stats, error) {
	var res service.Stats
	if err := c.invoke(ctx, GetStatsMethod, struct{}{}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Health queries the grpc health service for VennService
func (c *Client) Health(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.Status, nil
}

// Close closes the underlying connection
func (c *Client) Close() error {
	return c.conn.Close()
}

func parseErrorFromStatus(err error) (*service.EvalError, bool) {
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.InvalidArgument {
		return nil, false
	}
	for _, d := range st.Details() {
		detail, ok := d.(*structpb.Struct)
		if !ok {
			continue
		}
		var evalErr service.EvalError
		if err := fromStruct(detail, &evalErr); err == nil && evalErr.Kind != "" {
			return &evalErr, true
		}
	}
	return nil, false
}
