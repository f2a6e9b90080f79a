package server

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/msto63/venn/internal/venn/exercise"
	"github.com/msto63/venn/internal/venn/service"
	"github.com/msto63/venn/internal/venn/store"
	coreGrpc "github.com/msto63/venn/pkg/core/grpc"
	"github.com/msto63/venn/pkg/core/health"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testEnv struct {
	server *Server
	client *Client
	conn   *grpc.ClientConn
}

func newTestEnv(t *testing.T, withHistory bool) *testEnv {
	t.Helper()

	var history store.HistoryStore
	if withHistory {
		s, err := store.NewSQLiteHistoryStore(store.Config{Path: filepath.Join(t.TempDir(), "history.db")})
		require.NoError(t, err)
		history = s
	}
	svc, err := service.NewService(service.DefaultConfig(), exercise.NewRegistry(), history)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.GRPC.EnableReflection = false
	srv := New(cfg, svc, nil)

	listener := bufconn.Listen(1024 * 1024)
	go func() {
		_ = srv.Serve(listener)
	}()

	dialer := grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return listener.DialContext(ctx)
	})
	client, err := NewClient(coreGrpc.DefaultClientConfig("passthrough:///bufnet"), dialer)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
		srv.Stop(context.Background())
		_ = svc.Close()
	})

	return &testEnv{server: srv, client: client, conn: client.conn}
}

func TestEvaluate(t *testing.T) {
	env := newTestEnv(t, false)

	res, err := env.client.Evaluate(context.Background(), "", "(A∪B∪C)'")
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Equal(t, exercise.ReferenceID, res.ExerciseID)
	assert.Equal(t, []uint{8}, res.Elements)
	assert.Equal(t, "{8}", res.Result)
	assert.Equal(t, "(A∪B∪C)'", res.Canonical)
	assert.Equal(t, "(A∪(B∪C))'", res.Explained)
	require.Len(t, res.Regions, 8)
	assert.True(t, res.Regions[7].InResult)
}

func TestEvaluate_ParseErrorDetails(t *testing.T) {
	env := newTestEnv(t, false)

	// Raw call: InvalidArgument carrying the structured error.
	in, err := structpb.NewStruct(map[string]interface{}{"expression": "AB"})
	require.NoError(t, err)
	err = env.conn.Invoke(context.Background(), EvaluateMethod, in, new(structpb.Struct))
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	// Client: the error comes back as part of the result.
	res, err := env.client.Evaluate(context.Background(), "", "AB")
	require.NoError(t, err)
	require.True(t, res.Failed())
	assert.Equal(t, "UnexpectedToken", res.Error.Kind)
	assert.Equal(t, 1, res.Error.Position)
	assert.Equal(t, "B", res.Error.Found)
	assert.Contains(t, res.Error.Expected, "∪")
}

func TestEvaluate_UnknownExercise(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.client.Evaluate(context.Background(), "missing", "A")
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestListExercises(t *testing.T) {
	env := newTestEnv(t, false)

	res, err := env.client.ListExercises(context.Background())
	require.NoError(t, err)
	assert.Equal(t, exercise.ReferenceID, res.Default)
	require.Len(t, res.Exercises, 1)
	assert.Equal(t, []uint{2, 5, 6, 7}, res.Exercises[0].Atoms["B"])
	assert.Equal(t, "nur A", res.Exercises[0].Labels[1])
}

func TestGetHistory(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	for _, expr := range []string{"A", "A∪", "B"} {
		_, err := env.client.Evaluate(ctx, "", expr)
		require.NoError(t, err)
	}

	res, err := env.client.History(ctx, HistoryRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	require.Len(t, res.Entries, 3)
	assert.Equal(t, store.SourceGRPC, res.Entries[0].Source)
	assert.NotEmpty(t, res.Entries[0].RequestID, "request id should come from the interceptor")

	res, err = env.client.History(ctx, HistoryRequest{OnlyErrors: true})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "UnexpectedEnd", res.Entries[0].ErrorKind)

	_, err = env.client.History(ctx, HistoryRequest{Since: "yesterday"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	stats, err := env.client.Stats(ctx)
	require.NoError(t, err)
	require.NotNil(t, stats.History)
	assert.Equal(t, int64(3), stats.History.Total)
}

func TestGetHistory_Disabled(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.client.History(context.Background(), HistoryRequest{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	report := env.server.bridge.Update(ctx)
	assert.Equal(t, health.StatusHealthy, report.Status)

	st, err := env.client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, st)
}

func TestHistoryRequest_Filter(t *testing.T) {
	f, err := HistoryRequest{ExerciseID: "kurse", Since: "2026-10-01T00:00:00Z", Limit: 5}.Filter()
	require.NoError(t, err)
	assert.Equal(t, "kurse", f.ExerciseID)
	assert.Equal(t, 2026, f.Since.Year())
	assert.Equal(t, 5, f.Limit)

	_, err = HistoryRequest{Limit: -1}.Filter()
	assert.Error(t, err)
}

func TestHTTPServer_ServeAndShutdown(t *testing.T) {
	svc, err := service.NewService(service.DefaultConfig(), exercise.NewRegistry(), nil)
	require.NoError(t, err)
	defer svc.Close()

	srv := NewHTTP(DefaultHTTPConfig(), svc, nil)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, <-done)
	http.DefaultClient.CloseIdleConnections()
}
