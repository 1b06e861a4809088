package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "visitkeeper.v1.VisitKeeper"

const (
	MethodPing              = "Ping"
	MethodRegister          = "Register"
	MethodLogin             = "Login"
	MethodLogout            = "Logout"
	MethodChangePassword    = "ChangePassword"
	MethodMe                = "Me"
	MethodUpdateDescription = "UpdateDescription"
	MethodAddPlace          = "AddPlace"
	MethodGetPlace          = "GetPlace"
	MethodListPlaces        = "ListPlaces"
	MethodRecordVisit       = "RecordVisit"
	MethodListVisits        = "ListVisits"
	MethodDeleteVisit       = "DeleteVisit"
	MethodUpdateVisit       = "UpdateVisit"
	MethodHasVisited        = "HasVisited"
	MethodPlaceStats        = "PlaceStats"
)

// FullMethod returns the "/service/method" path gRPC uses for method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// VisitKeeperServer is implemented by the server and registered with
// RegisterVisitKeeperServer.
type VisitKeeperServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*ChangePasswordResponse, error)
	Me(context.Context, *MeRequest) (*MeResponse, error)
	UpdateDescription(context.Context, *UpdateDescriptionRequest) (*UpdateDescriptionResponse, error)
	AddPlace(context.Context, *AddPlaceRequest) (*AddPlaceResponse, error)
	GetPlace(context.Context, *GetPlaceRequest) (*GetPlaceResponse, error)
	ListPlaces(context.Context, *ListPlacesRequest) (*ListPlacesResponse, error)
	RecordVisit(context.Context, *RecordVisitRequest) (*RecordVisitResponse, error)
	ListVisits(context.Context, *ListVisitsRequest) (*ListVisitsResponse, error)
	DeleteVisit(context.Context, *DeleteVisitRequest) (*DeleteVisitResponse, error)
	UpdateVisit(context.Context, *UpdateVisitRequest) (*UpdateVisitResponse, error)
	HasVisited(context.Context, *HasVisitedRequest) (*HasVisitedResponse, error)
	PlaceStats(context.Context, *PlaceStatsRequest) (*PlaceStatsResponse, error)
}

// unary builds the method descriptor for one request/response pair, running
// the server's interceptor chain the way generated code does.
func unary[Req, Resp any](name string, call func(VisitKeeperServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(VisitKeeperServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VisitKeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, VisitKeeperServer.Ping),
		unary(MethodRegister, VisitKeeperServer.Register),
		unary(MethodLogin, VisitKeeperServer.Login),
		unary(MethodLogout, VisitKeeperServer.Logout),
		unary(MethodChangePassword, VisitKeeperServer.ChangePassword),
		unary(MethodMe, VisitKeeperServer.Me),
		unary(MethodUpdateDescription, VisitKeeperServer.UpdateDescription),
		unary(MethodAddPlace, VisitKeeperServer.AddPlace),
		unary(MethodGetPlace, VisitKeeperServer.GetPlace),
		unary(MethodListPlaces, VisitKeeperServer.ListPlaces),
		unary(MethodRecordVisit, VisitKeeperServer.RecordVisit),
		unary(MethodListVisits, VisitKeeperServer.ListVisits),
		unary(MethodDeleteVisit, VisitKeeperServer.DeleteVisit),
		unary(MethodUpdateVisit, VisitKeeperServer.UpdateVisit),
		unary(MethodHasVisited, VisitKeeperServer.HasVisited),
		unary(MethodPlaceStats, VisitKeeperServer.PlaceStats),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "visitkeeper.proto",
}

func RegisterVisitKeeperServer(s grpc.ServiceRegistrar, srv VisitKeeperServer) {
	s.RegisterService(&ServiceDesc, srv)
}
