package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error onto a gRPC status. Business errors keep
// their message; anything else is logged and reported as "internal error".
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, common.ErrValidation):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrConflict):
		code = codes.AlreadyExists
	case errors.Is(err, common.ErrAuthorization):
		code = codes.PermissionDenied
	case errors.Is(err, common.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, common.ErrUnauthenticated):
		code = codes.Unauthenticated
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, common.ErrInternal.Error())
	}
	return status.Error(code, err.Error())
}
