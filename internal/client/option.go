package client

import (
	"time"

	"google.golang.org/grpc"
)

type Option func(*Pool)

// WithDialTimeout bounds how long dialing a new connection may take.
func WithDialTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.dialTimeout = d
		}
	}
}

// WithIdleTTL sets how long a connection may sit unused before the
// background sweep closes it. Zero disables the sweep.
func WithIdleTTL(d time.Duration) Option {
	return func(p *Pool) {
		p.idleTTL = d
	}
}

// WithDialOptions overrides the default (insecure) gRPC dial options,
// e.g. to add otelgrpc's client interceptors.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(p *Pool) {
		if len(opts) > 0 {
			p.dialOpts = opts
		}
	}
}
