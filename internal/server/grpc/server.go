// Package grpc exposes the visitkeeper services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/visitkeeper/internal/api"
	"github.com/dmitrijs2005/visitkeeper/internal/logging"
	"github.com/dmitrijs2005/visitkeeper/internal/server/identity"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
	"github.com/dmitrijs2005/visitkeeper/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	Register(ctx context.Context, username, email, password, description string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, bool, error)
	UpdateDescription(ctx context.Context, id int64, description string) error
}

type sessionSvc interface {
	Login(ctx context.Context, holder *identity.Holder, email, password string) (*services.Token, error)
	Resume(ctx context.Context, token string) (*identity.Holder, error)
	Logout(ctx context.Context, holder *identity.Holder) error
	ChangePassword(ctx context.Context, holder *identity.Holder, oldPassword, newPassword, confirmPassword string) error
}

type placeSvc interface {
	AddPlace(ctx context.Context, name, description string, lat, lon float64) (*models.Place, error)
	GetPlace(ctx context.Context, id int64) (*models.Place, bool, error)
	ListPlaces(ctx context.Context) ([]*models.Place, error)
}

type visitSvc interface {
	RecordVisit(ctx context.Context, userID, placeID int64, comment *string, rating *int) (*services.RecordResult, error)
	ListAll(ctx context.Context) ([]*models.Visit, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Visit, error)
	ListByPlace(ctx context.Context, placeID int64) ([]*models.Visit, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Visit, error)
	DeleteVisit(ctx context.Context, actorID, visitID int64) error
	UpdateVisit(ctx context.Context, actorID, visitID int64, comment *string, rating *int) (*models.Visit, error)
	HasVisited(ctx context.Context, userID, placeID int64) (bool, error)
	PlaceStats(ctx context.Context, placeID int64) (*models.PlaceStats, error)
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	users    userSvc
	sessions sessionSvc
	places   placeSvc
	visits   visitSvc
}

var _ api.VisitKeeperServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, us userSvc, ss sessionSvc, ps placeSvc, vs visitSvc) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		users:    us,
		sessions: ss,
		places:   ps,
		visits:   vs,
	}
}

// newGRPCServer builds the grpc.Server with interceptors and the service
// registered, ready to Serve on any listener.
func (s *GRPCServer) newGRPCServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterVisitKeeperServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done, then
// stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newGRPCServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
