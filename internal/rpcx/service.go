package rpcx

import (
	"context"

	"google.golang.org/grpc"
)

// serviceName is the gRPC service path every RPC below is registered
// and dialed under.
const serviceName = "chordstab.rpcx.DHT"

// DHTServer is every RPC the stabilization core's gRPC surface exposes
// to other nodes. internal/server implements this by adapting a
// *node.Node; internal/client implements the matching client stub
// against it.
type DHTServer interface {
	// Identify answers "who are you", letting a caller that only has an
	// address learn the callee's ring ID.
	Identify(ctx context.Context, req *Empty) (*IdentifyResponse, error)
	Ping(ctx context.Context, req *Empty) (*Empty, error)

	CheckPredecessor(ctx context.Context, req *CheckPredecessorRequest) (*Empty, error)
	AdoptAsSuccessor(ctx context.Context, req *AdoptAsSuccessorRequest) (*Empty, error)
	InsertSuccessor(ctx context.Context, req *InsertSuccessorRequest) (*Empty, error)
	GetPredecessor(ctx context.Context, req *Empty) (*NodeResponse, error)
	GetSuccessorList(ctx context.Context, req *Empty) (*NodeListResponse, error)
	DelegateOwnedData(ctx context.Context, req *DelegateOwnedDataRequest) (*KeyValueListResponse, error)
	ReceiveReplica(ctx context.Context, req *ReceiveReplicaRequest) (*Empty, error)
	DeleteReplica(ctx context.Context, req *DeleteReplicaRequest) (*Empty, error)
	PassOwnedForReplication(ctx context.Context, req *Empty) (*KeyValueListResponse, error)
	PassAllReplica(ctx context.Context, req *Empty) (*AllReplicaResponse, error)
	CheckReplicationRedundancy(ctx context.Context, req *Empty) (*Empty, error)
	StoreOwned(ctx context.Context, req *StoreOwnedRequest) (*Empty, error)
	HandleLeave(ctx context.Context, req *HandleLeaveRequest) (*Empty, error)
	FindSuccessor(ctx context.Context, req *FindSuccessorRequest) (*NodeResponse, error)
}

// RegisterDHTServer wires srv's RPC methods into s under this
// package's ServiceDesc.
func RegisterDHTServer(s grpc.ServiceRegistrar, srv DHTServer) {
	s.RegisterService(&dhtServiceDesc, srv)
}

func fullMethod(name string) string { return "/" + serviceName + "/" + name }

func _DHT_Identify_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).Identify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("Identify")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).Identify(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_Ping_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("Ping")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).Ping(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_CheckPredecessor_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CheckPredecessorRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).CheckPredecessor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("CheckPredecessor")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).CheckPredecessor(ctx, req.(*CheckPredecessorRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_AdoptAsSuccessor_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AdoptAsSuccessorRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).AdoptAsSuccessor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("AdoptAsSuccessor")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).AdoptAsSuccessor(ctx, req.(*AdoptAsSuccessorRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_InsertSuccessor_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(InsertSuccessorRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).InsertSuccessor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("InsertSuccessor")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).InsertSuccessor(ctx, req.(*InsertSuccessorRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_GetPredecessor_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).GetPredecessor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("GetPredecessor")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).GetPredecessor(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_GetSuccessorList_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).GetSuccessorList(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("GetSuccessorList")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).GetSuccessorList(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_DelegateOwnedData_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DelegateOwnedDataRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).DelegateOwnedData(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("DelegateOwnedData")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).DelegateOwnedData(ctx, req.(*DelegateOwnedDataRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_ReceiveReplica_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ReceiveReplicaRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).ReceiveReplica(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("ReceiveReplica")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).ReceiveReplica(ctx, req.(*ReceiveReplicaRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_DeleteReplica_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteReplicaRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).DeleteReplica(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("DeleteReplica")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).DeleteReplica(ctx, req.(*DeleteReplicaRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_PassOwnedForReplication_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).PassOwnedForReplication(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("PassOwnedForReplication")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).PassOwnedForReplication(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_PassAllReplica_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).PassAllReplica(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("PassAllReplica")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).PassAllReplica(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_CheckReplicationRedundancy_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).CheckReplicationRedundancy(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("CheckReplicationRedundancy")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).CheckReplicationRedundancy(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_StoreOwned_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StoreOwnedRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).StoreOwned(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("StoreOwned")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).StoreOwned(ctx, req.(*StoreOwnedRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_HandleLeave_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(HandleLeaveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).HandleLeave(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("HandleLeave")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).HandleLeave(ctx, req.(*HandleLeaveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DHT_FindSuccessor_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FindSuccessorRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DHTServer).FindSuccessor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("FindSuccessor")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DHTServer).FindSuccessor(ctx, req.(*FindSuccessorRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var dhtServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*DHTServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Identify", Handler: _DHT_Identify_Handler},
		{MethodName: "Ping", Handler: _DHT_Ping_Handler},
		{MethodName: "CheckPredecessor", Handler: _DHT_CheckPredecessor_Handler},
		{MethodName: "AdoptAsSuccessor", Handler: _DHT_AdoptAsSuccessor_Handler},
		{MethodName: "InsertSuccessor", Handler: _DHT_InsertSuccessor_Handler},
		{MethodName: "GetPredecessor", Handler: _DHT_GetPredecessor_Handler},
		{MethodName: "GetSuccessorList", Handler: _DHT_GetSuccessorList_Handler},
		{MethodName: "DelegateOwnedData", Handler: _DHT_DelegateOwnedData_Handler},
		{MethodName: "ReceiveReplica", Handler: _DHT_ReceiveReplica_Handler},
		{MethodName: "DeleteReplica", Handler: _DHT_DeleteReplica_Handler},
		{MethodName: "PassOwnedForReplication", Handler: _DHT_PassOwnedForReplication_Handler},
		{MethodName: "PassAllReplica", Handler: _DHT_PassAllReplica_Handler},
		{MethodName: "CheckReplicationRedundancy", Handler: _DHT_CheckReplicationRedundancy_Handler},
		{MethodName: "StoreOwned", Handler: _DHT_StoreOwned_Handler},
		{MethodName: "HandleLeave", Handler: _DHT_HandleLeave_Handler},
		{MethodName: "FindSuccessor", Handler: _DHT_FindSuccessor_Handler},
	},
	Metadata: "internal/rpcx/service.go",
}
