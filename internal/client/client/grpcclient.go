package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/visitkeeper/internal/api"
	"github.com/dmitrijs2005/visitkeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	api         *api.Client

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.AccessToken(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient dials endpointURL lazily; the first call establishes the
// connection.
func NewGRPCClient(endpointURL string, timeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	conn, err := grpc.NewClient(endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.api = api.NewClient(conn)
	return c, nil
}

func newWithConn(cc grpc.ClientConnInterface, timeout time.Duration) *GRPCClient {
	return &GRPCClient{timeout: timeout, api: api.NewClient(cc)}
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrForbidden, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument, codes.AlreadyExists, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func call[Req, Resp any](ctx context.Context, s *GRPCClient, fn func(context.Context, *Req, ...grpc.CallOption) (*Resp, error), req *Req) (*Resp, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	resp, err := fn(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := call(ctx, s, s.api.Ping, &api.PingRequest{})
	if err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, username, email string, password []byte, description string) (*api.RegisterResponse, error) {
	return call(ctx, s, s.api.Register, &api.RegisterRequest{
		Username:    username,
		Email:       email,
		Password:    string(password),
		Description: description,
	})
}

// Login authenticates and, on success, uses the returned token for every
// subsequent call.
func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) (*api.LoginResponse, error) {
	resp, err := call(ctx, s, s.api.Login, &api.LoginRequest{Email: email, Password: string(password)})
	if err != nil {
		return nil, err
	}
	s.SetAccessToken(resp.AccessToken)
	return resp, nil
}

// Logout ends the server session. The local token is dropped even when the
// server call fails.
func (s *GRPCClient) Logout(ctx context.Context) (*api.LogoutResponse, error) {
	defer s.SetAccessToken("")
	return call(ctx, s, s.api.Logout, &api.LogoutRequest{})
}

func (s *GRPCClient) ChangePassword(ctx context.Context, oldPassword, newPassword, confirm []byte) (*api.ChangePasswordResponse, error) {
	return call(ctx, s, s.api.ChangePassword, &api.ChangePasswordRequest{
		OldPassword:     string(oldPassword),
		NewPassword:     string(newPassword),
		ConfirmPassword: string(confirm),
	})
}

func (s *GRPCClient) Me(ctx context.Context) (*api.User, error) {
	resp, err := call(ctx, s, s.api.Me, &api.MeRequest{})
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (s *GRPCClient) UpdateDescription(ctx context.Context, description string) (*api.UpdateDescriptionResponse, error) {
	return call(ctx, s, s.api.UpdateDescription, &api.UpdateDescriptionRequest{Description: description})
}

func (s *GRPCClient) AddPlace(ctx context.Context, name, description string, lat, lon float64) (*api.AddPlaceResponse, error) {
	return call(ctx, s, s.api.AddPlace, &api.AddPlaceRequest{
		Name:        name,
		Description: description,
		Latitude:    lat,
		Longitude:   lon,
	})
}

func (s *GRPCClient) GetPlace(ctx context.Context, id int64) (*api.Place, error) {
	resp, err := call(ctx, s, s.api.GetPlace, &api.GetPlaceRequest{ID: id})
	if err != nil {
		return nil, err
	}
	return &resp.Place, nil
}

func (s *GRPCClient) ListPlaces(ctx context.Context) ([]api.Place, error) {
	resp, err := call(ctx, s, s.api.ListPlaces, &api.ListPlacesRequest{})
	if err != nil {
		return nil, err
	}
	return resp.Places, nil
}

func (s *GRPCClient) RecordVisit(ctx context.Context, placeID int64, comment *string, rating *int) (*api.RecordVisitResponse, error) {
	return call(ctx, s, s.api.RecordVisit, &api.RecordVisitRequest{PlaceID: placeID, Comment: comment, Rating: rating})
}

func (s *GRPCClient) ListVisits(ctx context.Context, req *api.ListVisitsRequest) ([]api.Visit, error) {
	resp, err := call(ctx, s, s.api.ListVisits, req)
	if err != nil {
		return nil, err
	}
	return resp.Visits, nil
}

func (s *GRPCClient) DeleteVisit(ctx context.Context, id int64) (*api.DeleteVisitResponse, error) {
	return call(ctx, s, s.api.DeleteVisit, &api.DeleteVisitRequest{ID: id})
}

// UpdateVisit replaces the comment and rating of one of the caller's visits.
func (s *GRPCClient) UpdateVisit(ctx context.Context, id int64, comment *string, rating *int) (*api.UpdateVisitResponse, error) {
	return call(ctx, s, s.api.UpdateVisit, &api.UpdateVisitRequest{ID: id, Comment: comment, Rating: rating})
}

// HasVisited asks about userID, or about the caller when userID is zero.
func (s *GRPCClient) HasVisited(ctx context.Context, userID, placeID int64) (bool, error) {
	resp, err := call(ctx, s, s.api.HasVisited, &api.HasVisitedRequest{UserID: userID, PlaceID: placeID})
	if err != nil {
		return false, err
	}
	return resp.Visited, nil
}

func (s *GRPCClient) PlaceStats(ctx context.Context, placeID int64) (*api.PlaceStatsResponse, error) {
	return call(ctx, s, s.api.PlaceStats, &api.PlaceStatsRequest{PlaceID: placeID})
}
