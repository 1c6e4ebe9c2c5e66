// Package rpcx is this module's gRPC transport: a hand-written
// grpc.ServiceDesc and gob-encoded message structs standing in for
// protoc-generated code. There is no .proto file and no codegen step;
// every message type below is a plain Go struct, and wire encoding is
// done by gob rather than protobuf.
package rpcx

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is registered with grpc's encoding package and selected
// per-call via grpc.CallContentSubtype/grpc.ForceCodec.
const CodecName = "gob"

func init() {
	encoding.RegisterCodec(gobCodec{})
}

// gobCodec implements encoding.Codec by gob-encoding whatever message
// struct is handed to it. Every message type exchanged over this
// package's ServiceDesc must be safe to gob-encode (exported fields,
// no channels/funcs).
type gobCodec struct{}

func (gobCodec) Name() string { return CodecName }

func (gobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("rpcx: gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (gobCodec) Unmarshal(data []byte, v any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("rpcx: gob decode: %w", err)
	}
	return nil
}
