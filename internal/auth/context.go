package auth

import (
	"context"

	"google.golang.org/grpc/metadata"
)

const (
	HeaderPropertyID = "x-property-id"
	HeaderUserID     = "x-user-id"
)

type ctxKey int

const (
	propertyIDKey ctxKey = iota
	userIDKey
)

type UserContext struct {
	PropertyID string
	UserID     string
}

// WithUser stores the caller identity on ctx. Interceptors and HTTP
// middleware call it once per request.
func WithUser(ctx context.Context, u UserContext) context.Context {
	ctx = context.WithValue(ctx, propertyIDKey, u.PropertyID)
	return context.WithValue(ctx, userIDKey, u.UserID)
}

// GetPropertyID reads the property from ctx, falling back to incoming gRPC
// metadata.
func GetPropertyID(ctx context.Context) string {
	if val, ok := ctx.Value(propertyIDKey).(string); ok && val != "" {
		return val
	}
	return fromMetadata(ctx, HeaderPropertyID)
}

func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey).(string); ok && val != "" {
		return val
	}
	return fromMetadata(ctx, HeaderUserID)
}

// UserIDPtr is GetUserID for nullable created_by / recorded_by columns.
func UserIDPtr(ctx context.Context) *string {
	if id := GetUserID(ctx); id != "" {
		return &id
	}
	return nil
}

func FromMetadata(md metadata.MD) UserContext {
	return UserContext{
		PropertyID: first(md.Get(HeaderPropertyID)),
		UserID:     first(md.Get(HeaderUserID)),
	}
}

func fromMetadata(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	return first(md.Get(key))
}

func first(vals []string) string {
	if len(vals) > 0 {
		return vals[0]
	}
	return ""
}
