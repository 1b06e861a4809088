package grpc

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/visitkeeper/internal/api"
	"github.com/dmitrijs2005/visitkeeper/internal/server/identity"
	"github.com/dmitrijs2005/visitkeeper/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// currentUserID returns the id bound to the request's holder.
func currentUserID(ctx context.Context) (*identity.Holder, int64, error) {
	h := identity.FromContext(ctx)
	id, ok := h.UserID()
	if !ok {
		return nil, 0, status.Error(codes.Unauthenticated, "login required")
	}
	return h, id, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {
	u, err := s.users.Register(ctx, req.Username, req.Email, req.Password, req.Description)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "username", u.UserName, "user_id", u.ID)
	return &api.RegisterResponse{
		User:    toAPIUser(u),
		Notices: []api.Notice{api.Info("Registration successful, you can now log in")},
	}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	h := identity.FromContext(ctx)

	tok, err := s.sessions.Login(ctx, h, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	u, _ := h.User()
	return &api.LoginResponse{
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.ExpiresAt,
		User:        toAPIUser(&u),
		Notices:     []api.Notice{api.Info(fmt.Sprintf("Welcome, %s", u.UserName))},
	}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *api.LogoutRequest) (*api.LogoutResponse, error) {
	if err := s.sessions.Logout(ctx, identity.FromContext(ctx)); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.LogoutResponse{Notices: []api.Notice{api.Info("Logged out")}}, nil
}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *api.ChangePasswordRequest) (*api.ChangePasswordResponse, error) {
	err := s.sessions.ChangePassword(ctx, identity.FromContext(ctx), req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.ChangePasswordResponse{Notices: []api.Notice{api.Info("Password changed")}}, nil
}

func (s *GRPCServer) Me(ctx context.Context, req *api.MeRequest) (*api.MeResponse, error) {
	h, _, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	u, _ := h.User()
	return &api.MeResponse{User: toAPIUser(&u)}, nil
}

func (s *GRPCServer) UpdateDescription(ctx context.Context, req *api.UpdateDescriptionRequest) (*api.UpdateDescriptionResponse, error) {
	h, id, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateDescription(ctx, id, req.Description); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if err := h.Refresh(ctx, s.users); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	u, _ := h.User()
	return &api.UpdateDescriptionResponse{
		User:    toAPIUser(&u),
		Notices: []api.Notice{api.Info("Profile updated")},
	}, nil
}

func (s *GRPCServer) AddPlace(ctx context.Context, req *api.AddPlaceRequest) (*api.AddPlaceResponse, error) {
	p, err := s.places.AddPlace(ctx, req.Name, req.Description, req.Latitude, req.Longitude)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.AddPlaceResponse{
		Place:   toAPIPlace(p),
		Notices: []api.Notice{api.Info(fmt.Sprintf("Place %q added", p.Name))},
	}, nil
}

func (s *GRPCServer) GetPlace(ctx context.Context, req *api.GetPlaceRequest) (*api.GetPlaceResponse, error) {
	p, ok, err := s.places.GetPlace(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if !ok {
		return nil, status.Errorf(codes.NotFound, "place %d not found", req.ID)
	}
	return &api.GetPlaceResponse{Place: toAPIPlace(p)}, nil
}

func (s *GRPCServer) ListPlaces(ctx context.Context, req *api.ListPlacesRequest) (*api.ListPlacesResponse, error) {
	ps, err := s.places.ListPlaces(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := make([]api.Place, 0, len(ps))
	for _, p := range ps {
		out = append(out, toAPIPlace(p))
	}
	return &api.ListPlacesResponse{Places: out}, nil
}

func (s *GRPCServer) RecordVisit(ctx context.Context, req *api.RecordVisitRequest) (*api.RecordVisitResponse, error) {
	_, userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.visits.RecordVisit(ctx, userID, req.PlaceID, req.Comment, req.Rating)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	notices := []api.Notice{api.Info("Visit recorded")}
	if res.AlreadyVisited {
		notices = append(notices, api.Warning("You have already visited this place"))
	}
	return &api.RecordVisitResponse{
		Visit:          toAPIVisit(res.Visit),
		AlreadyVisited: res.AlreadyVisited,
		Notices:        notices,
	}, nil
}

func (s *GRPCServer) ListVisits(ctx context.Context, req *api.ListVisitsRequest) (*api.ListVisitsResponse, error) {
	_, userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	var vs []*models.Visit
	switch req.Scope {
	case "", api.ScopeAll:
		vs, err = s.visits.ListAll(ctx)
	case api.ScopeMine:
		vs, err = s.visits.ListByUser(ctx, userID)
	case api.ScopeUser:
		if req.UserID <= 0 {
			return nil, status.Error(codes.InvalidArgument, "user_id is required for scope user")
		}
		vs, err = s.visits.ListByUser(ctx, req.UserID)
	case api.ScopePlace:
		if req.PlaceID <= 0 {
			return nil, status.Error(codes.InvalidArgument, "place_id is required for scope place")
		}
		vs, err = s.visits.ListByPlace(ctx, req.PlaceID)
	case api.ScopeRecent:
		vs, err = s.visits.ListRecent(ctx, req.Limit)
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown scope %q", req.Scope)
	}
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.ListVisitsResponse{Visits: toAPIVisits(vs)}, nil
}

func (s *GRPCServer) DeleteVisit(ctx context.Context, req *api.DeleteVisitRequest) (*api.DeleteVisitResponse, error) {
	_, userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.visits.DeleteVisit(ctx, userID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.DeleteVisitResponse{Notices: []api.Notice{api.Info("Visit deleted")}}, nil
}

func (s *GRPCServer) UpdateVisit(ctx context.Context, req *api.UpdateVisitRequest) (*api.UpdateVisitResponse, error) {
	_, userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	v, err := s.visits.UpdateVisit(ctx, userID, req.ID, req.Comment, req.Rating)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.UpdateVisitResponse{Visit: toAPIVisit(v), Notices: []api.Notice{api.Info("Visit updated")}}, nil
}

func (s *GRPCServer) HasVisited(ctx context.Context, req *api.HasVisitedRequest) (*api.HasVisitedResponse, error) {
	_, userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if req.UserID != 0 {
		userID = req.UserID
	}

	ok, err := s.visits.HasVisited(ctx, userID, req.PlaceID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.HasVisitedResponse{Visited: ok}, nil
}

func (s *GRPCServer) PlaceStats(ctx context.Context, req *api.PlaceStatsRequest) (*api.PlaceStatsResponse, error) {
	st, err := s.visits.PlaceStats(ctx, req.PlaceID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.PlaceStatsResponse{
		PlaceID:       st.PlaceID,
		VisitCount:    st.VisitCount,
		AverageRating: st.AverageRating,
	}, nil
}
