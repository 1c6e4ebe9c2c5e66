package rpcx

import (
	"context"

	"google.golang.org/grpc"
)

// DHTClient is the client-side stub for DHTServer, dialed over a
// *grpc.ClientConn using this package's gob codec.
type DHTClient struct {
	cc *grpc.ClientConn
}

// NewDHTClient wraps an established connection.
func NewDHTClient(cc *grpc.ClientConn) *DHTClient {
	return &DHTClient{cc: cc}
}

var callOpts = []grpc.CallOption{grpc.CallContentSubtype(CodecName)}

func (c *DHTClient) invoke(ctx context.Context, method string, in, out any) error {
	return c.cc.Invoke(ctx, fullMethod(method), in, out, callOpts...)
}

func (c *DHTClient) Identify(ctx context.Context, in *Empty) (*IdentifyResponse, error) {
	out := new(IdentifyResponse)
	if err := c.invoke(ctx, "Identify", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) Ping(ctx context.Context, in *Empty) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "Ping", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) CheckPredecessor(ctx context.Context, in *CheckPredecessorRequest) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "CheckPredecessor", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) AdoptAsSuccessor(ctx context.Context, in *AdoptAsSuccessorRequest) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "AdoptAsSuccessor", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) InsertSuccessor(ctx context.Context, in *InsertSuccessorRequest) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "InsertSuccessor", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) GetPredecessor(ctx context.Context, in *Empty) (*NodeResponse, error) {
	out := new(NodeResponse)
	if err := c.invoke(ctx, "GetPredecessor", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) GetSuccessorList(ctx context.Context, in *Empty) (*NodeListResponse, error) {
	out := new(NodeListResponse)
	if err := c.invoke(ctx, "GetSuccessorList", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) DelegateOwnedData(ctx context.Context, in *DelegateOwnedDataRequest) (*KeyValueListResponse, error) {
	out := new(KeyValueListResponse)
	if err := c.invoke(ctx, "DelegateOwnedData", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) ReceiveReplica(ctx context.Context, in *ReceiveReplicaRequest) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "ReceiveReplica", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) DeleteReplica(ctx context.Context, in *DeleteReplicaRequest) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "DeleteReplica", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) PassOwnedForReplication(ctx context.Context, in *Empty) (*KeyValueListResponse, error) {
	out := new(KeyValueListResponse)
	if err := c.invoke(ctx, "PassOwnedForReplication", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) PassAllReplica(ctx context.Context, in *Empty) (*AllReplicaResponse, error) {
	out := new(AllReplicaResponse)
	if err := c.invoke(ctx, "PassAllReplica", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) CheckReplicationRedundancy(ctx context.Context, in *Empty) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "CheckReplicationRedundancy", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) StoreOwned(ctx context.Context, in *StoreOwnedRequest) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "StoreOwned", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) HandleLeave(ctx context.Context, in *HandleLeaveRequest) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "HandleLeave", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DHTClient) FindSuccessor(ctx context.Context, in *FindSuccessorRequest) (*NodeResponse, error) {
	out := new(NodeResponse)
	if err := c.invoke(ctx, "FindSuccessor", in, out); err != nil {
		return nil, err
	}
	return out, nil
}
