package telemetry

import (
	"chordstab/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// IdAttributes renders a ring identifier into the three representations
// (decimal, hex, binary) useful when eyeballing traces for ring
// position.
func IdAttributes(prefix string, id domain.ID) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(prefix+".dec", id.ToBigInt().String()),
		attribute.String(prefix+".hex", id.ToHexString(true)),
		attribute.String(prefix+".bin", id.ToBinaryString(true)),
	}
}
