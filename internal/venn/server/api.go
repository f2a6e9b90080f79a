// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     server
// Description: Service descriptor of venn.v1.VennService
// Author:      Mike Stoffels
// Created:     2026-10-04
// License:     MIT
// ============================================================================

package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "venn.v1.VennService"

// Full method names
const (
	EvaluateMethod      = "/" + ServiceName + "/Evaluate"
	ListExercisesMethod = "/" + ServiceName + "/ListExercises"
	GetHistoryMethod    = "/" + ServiceName + "/GetHistory"
	GetStatsMethod      = "/" + ServiceName + "/GetStats"
)

// VennServiceServer is the server API for VennService. Payloads are
// google.protobuf.Struct messages carrying the JSON forms of the service types.
type VennServiceServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListExercises(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedVennServiceServer can be embedded for forward compatibility
type UnimplementedVennServiceServer struct{}

func (UnimplementedVennServiceServer) Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Evaluate not implemented")
}

func (UnimplementedVennServiceServer) ListExercises(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListExercises not implemented")
}

func (UnimplementedVennServiceServer) GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetHistory not implemented")
}

func (UnimplementedVennServiceServer) GetStats(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStats not implemented")
}

type unaryCall func(VennServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(VennServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(VennServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// VennServiceDesc is the grpc.ServiceDesc for VennService
var VennServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VennServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Evaluate",
			Handler:    unaryHandler(EvaluateMethod, VennServiceServer.Evaluate),
		},
		{
			MethodName: "ListExercises",
			Handler:    unaryHandler(ListExercisesMethod, VennServiceServer.ListExercises),
		},
		{
			MethodName: "GetHistory",
			Handler:    unaryHandler(GetHistoryMethod, VennServiceServer.GetHistory),
		},
		{
			MethodName: "GetStats",
			Handler:    unaryHandler(GetStatsMethod, VennServiceServer.GetStats),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "venn/v1/venn.proto",
}

// RegisterVennServiceServer registers srv on s
func RegisterVennServiceServer(s grpc.ServiceRegistrar, srv VennServiceServer) {
	s.RegisterService(&VennServiceDesc, srv)
}
