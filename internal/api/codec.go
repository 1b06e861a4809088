// Package api defines the visitkeeper wire contract: request and response
// messages, the gRPC service descriptor and a typed client. Messages use the
// protobuf wire format described in visitkeeper.proto and travel through
// the codec registered under the standard "proto" name.
package api

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/mem"
	"google.golang.org/protobuf/proto"
)

// CodecName is the content-subtype gRPC uses when none is requested.
const CodecName = "proto"

// Codec encodes this package's messages with protowire and hands any
// generated proto.Message to the protobuf runtime.
type Codec struct{}

func (Codec) Marshal(v any) (mem.BufferSlice, error) {
	b, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return mem.BufferSlice{mem.SliceBuffer(b)}, nil
}

func (Codec) Unmarshal(data mem.BufferSlice, v any) error {
	return Unmarshal(data.Materialize(), v)
}

func (Codec) Name() string { return CodecName }

// Marshal encodes v in the protobuf wire format.
func Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case Message:
		return m.appendWire(nil), nil
	case proto.Message:
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("proto codec marshal: unsupported type %T", v)
}

// Unmarshal decodes b into v, which must be a Message or a proto.Message.
func Unmarshal(b []byte, v any) error {
	switch m := v.(type) {
	case Message:
		if err := m.consumeWire(b); err != nil {
			return fmt.Errorf("proto codec unmarshal %T: %w", v, err)
		}
		return nil
	case proto.Message:
		return proto.Unmarshal(b, m)
	}
	return fmt.Errorf("proto codec unmarshal: unsupported type %T", v)
}

func init() {
	encoding.RegisterCodecV2(Codec{})
}
