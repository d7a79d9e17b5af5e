package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-billing-service/internal/auth"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestContextInterceptor(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.Pairs(auth.HeaderPropertyID, "prop-1", auth.HeaderUserID, "clerk-7"))

	var got auth.UserContext
	_, err := ContextInterceptor()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"},
		func(ctx context.Context, _ any) (any, error) {
			got = auth.UserContext{PropertyID: auth.GetPropertyID(ctx), UserID: auth.GetUserID(ctx)}
			return nil, nil
		})
	require.NoError(t, err)
	assert.Equal(t, auth.UserContext{PropertyID: "prop-1", UserID: "clerk-7"}, got)
}

func TestLoggingInterceptorPassesThrough(t *testing.T) {
	resp, err := LoggingInterceptor(logger.NewNop())(context.Background(), "req", &grpc.UnaryServerInfo{FullMethod: "/x/Y"},
		func(context.Context, any) (any, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestGinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(GinContext(), GinLogger(logger.NewNop()))
	engine.GET("/who", func(c *gin.Context) {
		c.String(http.StatusOK, auth.GetPropertyID(c.Request.Context())+"/"+auth.GetUserID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(auth.HeaderPropertyID, "prop-1")
	req.Header.Set(auth.HeaderUserID, "clerk-7")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "prop-1/clerk-7", w.Body.String())
}
