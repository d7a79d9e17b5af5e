package grpcjson

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type echoRequest struct {
	Text string `json:"text"`
}

type echoResponse struct {
	Text  string `json:"text"`
	Calls int    `json:"calls"`
}

type echoService interface {
	Echo(context.Context, *echoRequest) (*echoResponse, error)
}

type echoServer struct{ calls int }

func (s *echoServer) Echo(_ context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Text == "" {
		return nil, status.Error(codes.InvalidArgument, "text is required")
	}
	s.calls++
	return &echoResponse{Text: req.Text, Calls: s.calls}, nil
}

const echoName = "test.EchoService"

var echoDesc = grpc.ServiceDesc{
	ServiceName: echoName,
	HandlerType: (*echoService)(nil),
	Methods: []grpc.MethodDesc{
		Unary(echoName, "Echo", echoService.Echo),
	},
}

func dial(t *testing.T, opts ...grpc.ServerOption) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&echoDesc, &echoServer{})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestUnaryRoundTrip(t *testing.T) {
	conn := dial(t)
	ctx := context.Background()

	resp, err := Invoke[echoResponse](ctx, conn, echoName, "Echo", &echoRequest{Text: "folio"})
	require.NoError(t, err)
	assert.Equal(t, "folio", resp.Text)
	assert.Equal(t, 1, resp.Calls)

	_, err = Invoke[echoResponse](ctx, conn, echoName, "Echo", &echoRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestUnaryRunsInterceptor(t *testing.T) {
	var seen string
	conn := dial(t, grpc.UnaryInterceptor(func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = info.FullMethod
		return handler(ctx, req)
	}))

	_, err := Invoke[echoResponse](context.Background(), conn, echoName, "Echo", &echoRequest{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "/test.EchoService/Echo", seen)
}
