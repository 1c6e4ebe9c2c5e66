package bootstrap

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"chordstab/internal/bootstrap/register"
	"chordstab/internal/config"
	"chordstab/internal/domain"
	"chordstab/internal/logger"
)

// DNSBootstrap discovers peers via ResolveBootstrap's miekg/dns-backed
// SRV/A lookup and, if configured, keeps this node's own record up to
// date through a register.Registrar backend (Route53 or CoreDNS/etcd).
type DNSBootstrap struct {
	cfg config.BootstrapConfig
	lgr logger.Logger

	registrar register.Registrar
}

// NewDNSBootstrap builds a DNSBootstrap from configuration. When
// cfg.Register.Enabled, it also dials the configured registration
// backend so Register/Deregister can publish this node's record.
func NewDNSBootstrap(ctx context.Context, cfg config.BootstrapConfig, lgr logger.Logger) (*DNSBootstrap, error) {
	if lgr == nil {
		lgr = &logger.NopLogger{}
	}
	b := &DNSBootstrap{cfg: cfg, lgr: lgr}
	if cfg.Register.Enabled {
		reg, err := register.NewRegistrar(ctx, cfg.Register)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: registrar init: %w", err)
		}
		b.registrar = reg
	}
	return b, nil
}

// Discover resolves the configured name into a list of peer addresses.
func (b *DNSBootstrap) Discover(ctx context.Context) ([]string, error) {
	return ResolveBootstrap(b.cfg, b.lgr)
}

// Register publishes node's record through the configured registrar.
// A no-op when registration was not enabled in configuration.
func (b *DNSBootstrap) Register(ctx context.Context, node *domain.Node) error {
	if b.registrar == nil {
		return nil
	}
	host, port, err := splitHostPortInt(node.Addr)
	if err != nil {
		return err
	}
	return b.registrar.RegisterNode(ctx, node.ID.ToHexString(true), host, port)
}

// Deregister removes node's record through the configured registrar.
// A no-op when registration was not enabled in configuration.
func (b *DNSBootstrap) Deregister(ctx context.Context, node *domain.Node) error {
	if b.registrar == nil {
		return nil
	}
	host, port, err := splitHostPortInt(node.Addr)
	if err != nil {
		return err
	}
	if err := b.registrar.DeregisterNode(ctx, node.ID.ToHexString(true), host, port); err != nil {
		return err
	}
	return b.registrar.Close()
}

func splitHostPortInt(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}
