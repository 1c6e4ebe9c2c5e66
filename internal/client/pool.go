// Package client is the stabilization core's PeerResolver/Router
// collaborator: it dials other nodes over gRPC (using this module's
// hand-rolled rpcx transport) and exposes them as node.Peer values.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"chordstab/internal/domain"
	"chordstab/internal/logger"
	"chordstab/internal/node"
	"chordstab/internal/rpcx"
)

// Pool dials and reuses one gRPC connection per address. Connection
// lifetime is managed entirely here, behind Resolve/IsAlive: every use
// bumps a lastUsed timestamp, and a periodic sweep closes connections
// idle longer than idleTTL. The stabilization core's PeerResolver
// contract has no explicit acquire/release call, so there is nowhere
// else a caller-driven reference count could live; a usage-timestamp
// sweep is the pool-internal equivalent (see DESIGN.md).
type Pool struct {
	lgr logger.Logger

	mu    sync.RWMutex
	conns map[string]*pooledConn

	dialTimeout time.Duration
	idleTTL     time.Duration
	dialOpts    []grpc.DialOption

	stopOnce sync.Once
	stopCh   chan struct{}
}

type pooledConn struct {
	conn     *grpc.ClientConn
	client   *rpcx.DHTClient
	lastUsed time.Time
}

// New creates a connection pool. If idleTTL > 0, a background sweep
// closes connections that haven't been used for at least that long.
func New(lgr logger.Logger, opts ...Option) *Pool {
	if lgr == nil {
		lgr = &logger.NopLogger{}
	}
	p := &Pool{
		lgr:         lgr.Named("client"),
		conns:       make(map[string]*pooledConn),
		dialTimeout: 2 * time.Second,
		idleTTL:     5 * time.Minute,
		dialOpts:    []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())},
		stopCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.idleTTL > 0 {
		go p.evictLoop()
	}
	return p
}

// Close closes every pooled connection and stops the eviction sweep.
func (p *Pool) Close() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr, pc := range p.conns {
		_ = pc.conn.Close()
		delete(p.conns, addr)
	}
}

// Resolve satisfies node.PeerResolver: it returns a Peer backed by a
// pooled (dialed on demand) connection to addr.
func (p *Pool) Resolve(ctx context.Context, addr string) (node.Peer, error) {
	pc, err := p.get(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNodeIsDowned, addr, err)
	}
	peer := &grpcPeer{addr: addr, client: pc.client}
	if err := peer.ensureID(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNodeIsDowned, addr, err)
	}
	return peer, nil
}

// IsAlive satisfies node.PeerResolver with a lightweight Ping.
func (p *Pool) IsAlive(ctx context.Context, addr string) bool {
	pc, err := p.get(ctx, addr)
	if err != nil {
		return false
	}
	if _, err := pc.client.Ping(ctx, &rpcx.Empty{}); err != nil {
		return false
	}
	return true
}

func (p *Pool) get(ctx context.Context, addr string) (*pooledConn, error) {
	p.mu.RLock()
	pc, ok := p.conns[addr]
	p.mu.RUnlock()
	if ok {
		p.touch(addr)
		return pc, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pc, ok := p.conns[addr]; ok {
		pc.lastUsed = time.Now()
		return pc, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, p.dialTimeout)
	defer cancel()
	conn, err := grpc.DialContext(dialCtx, addr, p.dialOpts...)
	if err != nil {
		return nil, err
	}
	pc = &pooledConn{conn: conn, client: rpcx.NewDHTClient(conn), lastUsed: time.Now()}
	p.conns[addr] = pc
	p.lgr.Debug("dialed new connection", logger.F("addr", addr))
	return pc, nil
}

func (p *Pool) touch(addr string) {
	p.mu.RLock()
	pc, ok := p.conns[addr]
	p.mu.RUnlock()
	if ok {
		p.mu.Lock()
		pc.lastUsed = time.Now()
		p.mu.Unlock()
	}
}

func (p *Pool) evictLoop() {
	ticker := time.NewTicker(p.idleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.evictIdle()
		}
	}
}

func (p *Pool) evictIdle() {
	now := time.Now()
	var toClose []*grpc.ClientConn

	p.mu.Lock()
	for addr, pc := range p.conns {
		if now.Sub(pc.lastUsed) >= p.idleTTL {
			toClose = append(toClose, pc.conn)
			delete(p.conns, addr)
		}
	}
	p.mu.Unlock()

	for _, c := range toClose {
		_ = c.Close()
	}
	if len(toClose) > 0 {
		p.lgr.Debug("evicted idle connections", logger.F("count", len(toClose)))
	}
}
