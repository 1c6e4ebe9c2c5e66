package client_test

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"

	"chordstab/internal/client"
	"chordstab/internal/domain"
	"chordstab/internal/logger"
	"chordstab/internal/rpcx"
)

// fakeDHTServer answers Identify/Ping and nothing else; only what
// Pool's Resolve/IsAlive paths exercise.
type fakeDHTServer struct {
	self rpcx.NodeMsg
}

func (f *fakeDHTServer) Identify(ctx context.Context, req *rpcx.Empty) (*rpcx.IdentifyResponse, error) {
	return &rpcx.IdentifyResponse{Self: f.self}, nil
}
func (f *fakeDHTServer) Ping(ctx context.Context, req *rpcx.Empty) (*rpcx.Empty, error) {
	return &rpcx.Empty{}, nil
}
func (f *fakeDHTServer) CheckPredecessor(ctx context.Context, req *rpcx.CheckPredecessorRequest) (*rpcx.Empty, error) {
	return &rpcx.Empty{}, nil
}
func (f *fakeDHTServer) AdoptAsSuccessor(ctx context.Context, req *rpcx.AdoptAsSuccessorRequest) (*rpcx.Empty, error) {
	return &rpcx.Empty{}, nil
}
func (f *fakeDHTServer) InsertSuccessor(ctx context.Context, req *rpcx.InsertSuccessorRequest) (*rpcx.Empty, error) {
	return &rpcx.Empty{}, nil
}
func (f *fakeDHTServer) GetPredecessor(ctx context.Context, req *rpcx.Empty) (*rpcx.NodeResponse, error) {
	return &rpcx.NodeResponse{Present: false}, nil
}
func (f *fakeDHTServer) GetSuccessorList(ctx context.Context, req *rpcx.Empty) (*rpcx.NodeListResponse, error) {
	return &rpcx.NodeListResponse{}, nil
}
func (f *fakeDHTServer) DelegateOwnedData(ctx context.Context, req *rpcx.DelegateOwnedDataRequest) (*rpcx.KeyValueListResponse, error) {
	return &rpcx.KeyValueListResponse{}, nil
}
func (f *fakeDHTServer) ReceiveReplica(ctx context.Context, req *rpcx.ReceiveReplicaRequest) (*rpcx.Empty, error) {
	return &rpcx.Empty{}, nil
}
func (f *fakeDHTServer) DeleteReplica(ctx context.Context, req *rpcx.DeleteReplicaRequest) (*rpcx.Empty, error) {
	return &rpcx.Empty{}, nil
}
func (f *fakeDHTServer) PassOwnedForReplication(ctx context.Context, req *rpcx.Empty) (*rpcx.KeyValueListResponse, error) {
	return &rpcx.KeyValueListResponse{}, nil
}
func (f *fakeDHTServer) PassAllReplica(ctx context.Context, req *rpcx.Empty) (*rpcx.AllReplicaResponse, error) {
	return &rpcx.AllReplicaResponse{}, nil
}
func (f *fakeDHTServer) CheckReplicationRedundancy(ctx context.Context, req *rpcx.Empty) (*rpcx.Empty, error) {
	return &rpcx.Empty{}, nil
}
func (f *fakeDHTServer) StoreOwned(ctx context.Context, req *rpcx.StoreOwnedRequest) (*rpcx.Empty, error) {
	return &rpcx.Empty{}, nil
}
func (f *fakeDHTServer) HandleLeave(ctx context.Context, req *rpcx.HandleLeaveRequest) (*rpcx.Empty, error) {
	return &rpcx.Empty{}, nil
}
func (f *fakeDHTServer) FindSuccessor(ctx context.Context, req *rpcx.FindSuccessorRequest) (*rpcx.NodeResponse, error) {
	return &rpcx.NodeResponse{Present: true, Node: f.self}, nil
}

func startFakeServer(t *testing.T, id domain.ID) (addr string, stop func()) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := grpc.NewServer()
	rpcx.RegisterDHTServer(s, &fakeDHTServer{self: rpcx.NodeMsg{ID: id, Addr: lis.Addr().String()}})
	go func() { _ = s.Serve(lis) }()
	return lis.Addr().String(), s.Stop
}

func TestPool_ResolveFetchesIdentity(t *testing.T) {
	sp, err := domain.NewSpace(16, 2)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	id := sp.FromUint64(42)
	addr, stop := startFakeServer(t, id)
	defer stop()

	pool := client.New(&logger.NopLogger{}, client.WithDialTimeout(2*time.Second))
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	peer, err := pool.Resolve(ctx, addr)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !peer.ID().Equal(id) {
		t.Fatalf("expected id %x, got %x", id, peer.ID())
	}
	if peer.Addr() != addr {
		t.Fatalf("expected addr %s, got %s", addr, peer.Addr())
	}
}

func TestPool_ResolveReusesConnection(t *testing.T) {
	sp, _ := domain.NewSpace(16, 2)
	id := sp.FromUint64(7)
	addr, stop := startFakeServer(t, id)
	defer stop()

	pool := client.New(&logger.NopLogger{})
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	first, err := pool.Resolve(ctx, addr)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, err := pool.Resolve(ctx, addr)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if !first.ID().Equal(second.ID()) {
		t.Fatalf("expected the same identity from a reused connection")
	}
}

func TestPool_IsAlive(t *testing.T) {
	sp, _ := domain.NewSpace(16, 2)
	id := sp.FromUint64(1)
	addr, stop := startFakeServer(t, id)
	defer stop()

	pool := client.New(&logger.NopLogger{})
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if !pool.IsAlive(ctx, addr) {
		t.Fatalf("expected IsAlive true against a live server")
	}
}

func TestPool_IsAliveFalseWhenUnreachable(t *testing.T) {
	pool := client.New(&logger.NopLogger{}, client.WithDialTimeout(200*time.Millisecond))
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if pool.IsAlive(ctx, "127.0.0.1:1") {
		t.Fatalf("expected IsAlive false against an unreachable address")
	}
}

func TestPool_EvictsIdleConnections(t *testing.T) {
	sp, _ := domain.NewSpace(16, 2)
	id := sp.FromUint64(9)
	addr, stop := startFakeServer(t, id)
	defer stop()

	pool := client.New(&logger.NopLogger{}, client.WithIdleTTL(50*time.Millisecond))
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := pool.Resolve(ctx, addr); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// Past idleTTL, the background sweep (ticking at idleTTL/2) should
	// have closed and forgotten this connection; resolving again must
	// redial rather than error.
	time.Sleep(200 * time.Millisecond)

	if _, err := pool.Resolve(ctx, addr); err != nil {
		t.Fatalf("Resolve after eviction: %v", err)
	}
}
