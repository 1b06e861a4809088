package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/visitkeeper/internal/api"
	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"github.com/dmitrijs2005/visitkeeper/internal/server/identity"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicMethods can be called without an access token.
var publicMethods = map[string]bool{
	api.FullMethod(api.MethodPing):     true,
	api.FullMethod(api.MethodRegister): true,
	api.FullMethod(api.MethodLogin):    true,
}

func accessTokenFromContext(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// accessTokenInterceptor puts an identity.Holder into every request context.
// Public methods get an anonymous holder; the rest need a token that resumes
// a live session.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if publicMethods[info.FullMethod] {
		return handler(identity.WithHolder(ctx, identity.NewHolder()), req)
	}

	accessToken := accessTokenFromContext(ctx)
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	holder, err := s.sessions.Resume(ctx, accessToken)
	if err != nil {
		if errors.Is(err, common.ErrUnauthenticated) {
			return nil, status.Error(codes.Unauthenticated, "invalid or expired session")
		}
		s.logger.Error(ctx, "session lookup failed", "method", info.FullMethod, "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return handler(identity.WithHolder(ctx, holder), req)
}

// loggingInterceptor records the outcome of every call.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
	switch code {
	case codes.OK:
		s.logger.Info(ctx, "rpc", args...)
	case codes.Internal, codes.Unknown:
		s.logger.Error(ctx, "rpc", args...)
	default:
		s.logger.Warn(ctx, "rpc", append(args, "error", status.Convert(err).Message())...)
	}
	return resp, err
}
