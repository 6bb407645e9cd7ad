package router

import (
	"context"
	"net"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dtroode/fingerprint-server/internal/api/grpc/fingerprintpb"
	"github.com/dtroode/fingerprint-server/internal/mocks"
	"github.com/dtroode/fingerprint-server/internal/model"
	"github.com/dtroode/fingerprint-server/internal/testutil"
)

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	r := New(nil, nil, mocks.NewContextManager(t), testutil.MakeNoopLogger())
	s := r.Register()
	require.NotNil(t, s)

	info := s.GetServiceInfo()
	assert.Contains(t, info, fingerprintpb.ServiceName)
	assert.Contains(t, info, "grpc.health.v1.Health")
	assert.Contains(t, info, "grpc.reflection.v1.ServerReflection")
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method string
		want   bool
	}{
		{method: fingerprintpb.FullMethodVerify, want: true},
		{method: fingerprintpb.FullMethodSubscribe, want: true},
		{method: "/grpc.health.v1.Health/Check", want: false},
		{method: "/grpc.reflection.v1.ServerReflection/ServerReflectionInfo", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			meta := interceptors.NewServerCallMeta(tt.method, nil, nil)
			assert.Equal(t, tt.want, authRequired(context.Background(), meta))
		})
	}
}

func dial(t *testing.T, s *grpc.Server) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 16)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRouter_AuthAndHealth(t *testing.T) {
	t.Parallel()

	svc := mocks.NewFingerprintService(t)
	tokens := mocks.NewTokenService(t)
	cm := mocks.NewContextManager(t)

	tokens.On("GetOperator", mock.Anything, "good").Return("kiosk-1", nil)
	cm.On("SetOperatorToContext", mock.Anything, "kiosk-1").
		Return(func(ctx context.Context, _ string) context.Context { return ctx })
	cm.On("GetOperatorFromContext", mock.Anything).Return("kiosk-1", true).Maybe()
	svc.On("DeviceStatus").Return(model.DeviceHandle(7), true).Once()

	r := New(svc, tokens, cm, testutil.MakeNoopLogger())
	conn := dial(t, r.Register())
	client := fingerprintpb.NewFingerprintClient(conn)

	_, err := client.DeviceStatus(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer good")
	out, err := client.DeviceStatus(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.True(t, fingerprintpb.DeviceStatusFromStruct(out).Open)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: fingerprintpb.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	r.Shutdown()
	resp, err = healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: fingerprintpb.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}
