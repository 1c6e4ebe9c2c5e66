package node

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"chordstab/internal/domain"
	"chordstab/internal/routingtable"
	"chordstab/internal/storage"
)

// memberNode bundles a Node with the store it was constructed with, so
// tests can both drive it through the Node API and assert on stored
// state directly.
type memberNode struct {
	n     *Node
	store *storage.MemoryStorage
}

// fakeNetwork is a closed-world PeerResolver + Router over a set of
// in-process nodes, addressed by string. Nodes can be marked down to
// simulate failure without removing them from the ring.
type fakeNetwork struct {
	mu      sync.Mutex
	members map[string]*memberNode
	down    map[string]bool
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{
		members: make(map[string]*memberNode),
		down:    make(map[string]bool),
	}
}

func (f *fakeNetwork) add(addr string, m *memberNode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[addr] = m
}

func (f *fakeNetwork) setDown(addr string, down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down[addr] = down
}

func (f *fakeNetwork) remove(addr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.members, addr)
	delete(f.down, addr)
}

func (f *fakeNetwork) Resolve(ctx context.Context, addr string) (Peer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[addr]
	if !ok {
		return nil, domain.ErrTargetNodeDoesNotExist
	}
	if f.down[addr] {
		return nil, domain.ErrNodeIsDowned
	}
	return &fakePeer{net: f, m: m}, nil
}

func (f *fakeNetwork) IsAlive(ctx context.Context, addr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[addr]
	return ok && m != nil && !f.down[addr]
}

// FindSuccessor does a linear scan over every live member, looking for
// the member whose (predecessor, self] range holds id. When no live
// member has a predecessor it reports domain.ErrAppropriateNodeNotFound.
// It is deliberately simple: the stabilization core under test does not
// depend on a lookup strategy, only on the Router contract.
func (f *fakeNetwork) FindSuccessor(ctx context.Context, id domain.ID) (domain.Node, error) {
	f.mu.Lock()
	var live []*memberNode
	for addr, m := range f.members {
		if !f.down[addr] {
			live = append(live, m)
		}
	}
	f.mu.Unlock()

	if len(live) == 0 {
		return domain.Node{}, domain.ErrAppropriateNodeNotFound
	}
	sort.Slice(live, func(i, j int) bool {
		return live[i].n.Self().ID.Cmp(live[j].n.Self().ID) < 0
	})

	anyPred := false
	for _, m := range live {
		self := m.n.Self()
		pred := m.n.RoutingTable().GetPredecessor()
		if pred == nil {
			continue
		}
		anyPred = true
		if id.Between(pred.ID, self.ID) {
			return *self, nil
		}
	}
	if !anyPred {
		return domain.Node{}, domain.ErrAppropriateNodeNotFound
	}
	// Fall back to the smallest id (wrap-around owner) so a lookup
	// never spuriously fails while the ring is still converging.
	return *live[0].n.Self(), nil
}

// fakePeer adapts an in-process Node to the Peer interface, the way a
// real client.Peer would adapt a gRPC connection.
type fakePeer struct {
	net *fakeNetwork
	m   *memberNode
}

func (p *fakePeer) Addr() string     { return p.m.n.Self().Addr }
func (p *fakePeer) ID() domain.ID    { return p.m.n.Self().ID }

func (p *fakePeer) down() bool {
	p.net.mu.Lock()
	defer p.net.mu.Unlock()
	return p.net.down[p.Addr()]
}

func (p *fakePeer) CheckPredecessor(ctx context.Context, candidate domain.Node) error {
	if p.down() {
		return domain.ErrNodeIsDowned
	}
	return p.m.n.CheckPredecessor(ctx, candidate)
}

func (p *fakePeer) AdoptAsSuccessor(ctx context.Context, candidate domain.Node) error {
	if p.down() {
		return domain.ErrNodeIsDowned
	}
	return p.m.n.AdoptAsSuccessor(ctx, candidate)
}

func (p *fakePeer) InsertSuccessor(ctx context.Context, candidate domain.Node) error {
	if p.down() {
		return domain.ErrNodeIsDowned
	}
	return p.m.n.InsertSuccessor(ctx, candidate)
}

func (p *fakePeer) GetPredecessor(ctx context.Context) (*domain.Node, error) {
	if p.down() {
		return nil, domain.ErrNodeIsDowned
	}
	return p.m.n.GetPredecessor(ctx)
}

func (p *fakePeer) GetSuccessorList(ctx context.Context) ([]domain.Node, error) {
	if p.down() {
		return nil, domain.ErrNodeIsDowned
	}
	return p.m.n.GetSuccessorList(ctx)
}

func (p *fakePeer) DelegateOwnedData(ctx context.Context, newOwner domain.ID, force bool) ([]domain.KeyValue, error) {
	if p.down() {
		return nil, domain.ErrNodeIsDowned
	}
	return p.m.n.DelegateOwnedData(ctx, newOwner, force)
}

func (p *fakePeer) ReceiveReplica(ctx context.Context, master domain.Node, items []domain.KeyValue, replaceAll bool) error {
	if p.down() {
		return domain.ErrNodeIsDowned
	}
	return p.m.n.ReceiveReplica(ctx, master, items, replaceAll)
}

func (p *fakePeer) DeleteReplica(ctx context.Context, master domain.Node) error {
	if p.down() {
		return domain.ErrNodeIsDowned
	}
	return p.m.n.DeleteReplica(ctx, master)
}

func (p *fakePeer) PassOwnedForReplication(ctx context.Context) ([]domain.KeyValue, error) {
	if p.down() {
		return nil, domain.ErrNodeIsDowned
	}
	return p.m.n.PassOwnedForReplication(ctx)
}

func (p *fakePeer) PassAllReplica(ctx context.Context) ([]domain.ReplicaBundle, error) {
	if p.down() {
		return nil, domain.ErrNodeIsDowned
	}
	return p.m.n.PassAllReplica(ctx)
}

func (p *fakePeer) StoreOwned(ctx context.Context, kv domain.KeyValue) error {
	if p.down() {
		return domain.ErrNodeIsDowned
	}
	return p.m.n.StoreOwned(ctx, kv)
}

func (p *fakePeer) CheckReplicationRedundancy(ctx context.Context) error {
	if p.down() {
		return domain.ErrNodeIsDowned
	}
	return p.m.n.CheckReplicationRedundancy(ctx)
}

// newMember builds a fully wired Node at addr, backed by its own
// in-memory store, and registers it on net.
func newMember(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, net *fakeNetwork, space domain.Space, addr string) *memberNode {
	t.Helper()
	self := &domain.Node{ID: space.NewIdFromString(addr), Addr: addr}
	rt := routingtable.New(self, space, space.SuccListSize)
	store := storage.NewMemoryStorage(nil)
	n := New(rt, store, net, net, WithFailureTimeout(0))
	m := &memberNode{n: n, store: store}
	net.add(addr, m)
	return m
}

func testSpace() domain.Space {
	sp, err := domain.NewSpace(8, 3)
	if err != nil {
		panic(fmt.Sprintf("testSpace: %v", err))
	}
	return sp
}
