package api

import (
	"context"

	"google.golang.org/grpc"
)

// Client is a typed stub over a gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, c *Client, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingRequest, PingResponse](ctx, c, MethodPing, in, opts...)
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterRequest, RegisterResponse](ctx, c, MethodRegister, in, opts...)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginRequest, LoginResponse](ctx, c, MethodLogin, in, opts...)
}

func (c *Client) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutRequest, LogoutResponse](ctx, c, MethodLogout, in, opts...)
}

func (c *Client) ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*ChangePasswordResponse, error) {
	return invoke[ChangePasswordRequest, ChangePasswordResponse](ctx, c, MethodChangePassword, in, opts...)
}

func (c *Client) Me(ctx context.Context, in *MeRequest, opts ...grpc.CallOption) (*MeResponse, error) {
	return invoke[MeRequest, MeResponse](ctx, c, MethodMe, in, opts...)
}

func (c *Client) UpdateDescription(ctx context.Context, in *UpdateDescriptionRequest, opts ...grpc.CallOption) (*UpdateDescriptionResponse, error) {
	return invoke[UpdateDescriptionRequest, UpdateDescriptionResponse](ctx, c, MethodUpdateDescription, in, opts...)
}

func (c *Client) AddPlace(ctx context.Context, in *AddPlaceRequest, opts ...grpc.CallOption) (*AddPlaceResponse, error) {
	return invoke[AddPlaceRequest, AddPlaceResponse](ctx, c, MethodAddPlace, in, opts...)
}

func (c *Client) GetPlace(ctx context.Context, in *GetPlaceRequest, opts ...grpc.CallOption) (*GetPlaceResponse, error) {
	return invoke[GetPlaceRequest, GetPlaceResponse](ctx, c, MethodGetPlace, in, opts...)
}

func (c *Client) ListPlaces(ctx context.Context, in *ListPlacesRequest, opts ...grpc.CallOption) (*ListPlacesResponse, error) {
	return invoke[ListPlacesRequest, ListPlacesResponse](ctx, c, MethodListPlaces, in, opts...)
}

func (c *Client) RecordVisit(ctx context.Context, in *RecordVisitRequest, opts ...grpc.CallOption) (*RecordVisitResponse, error) {
	return invoke[RecordVisitRequest, RecordVisitResponse](ctx, c, MethodRecordVisit, in, opts...)
}

func (c *Client) ListVisits(ctx context.Context, in *ListVisitsRequest, opts ...grpc.CallOption) (*ListVisitsResponse, error) {
	return invoke[ListVisitsRequest, ListVisitsResponse](ctx, c, MethodListVisits, in, opts...)
}

func (c *Client) DeleteVisit(ctx context.Context, in *DeleteVisitRequest, opts ...grpc.CallOption) (*DeleteVisitResponse, error) {
	return invoke[DeleteVisitRequest, DeleteVisitResponse](ctx, c, MethodDeleteVisit, in, opts...)
}

func (c *Client) HasVisited(ctx context.Context, in *HasVisitedRequest, opts ...grpc.CallOption) (*HasVisitedResponse, error) {
	return invoke[HasVisitedRequest, HasVisitedResponse](ctx, c, MethodHasVisited, in, opts...)
}

func (c *Client) PlaceStats(ctx context.Context, in *PlaceStatsRequest, opts ...grpc.CallOption) (*PlaceStatsResponse, error) {
	return invoke[PlaceStatsRequest, PlaceStatsResponse](ctx, c, MethodPlaceStats, in, opts...)
}

func (c *Client) UpdateVisit(ctx context.Context, in *UpdateVisitRequest, opts ...grpc.CallOption) (*UpdateVisitResponse, error) {
	return invoke[UpdateVisitRequest, UpdateVisitResponse](ctx, c, MethodUpdateVisit, in, opts...)
}
