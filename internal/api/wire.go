package api

import (
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Message is implemented by every request and response in this package.
// Field numbers and types follow visitkeeper.proto.
type Message interface {
	appendWire(b []byte) []byte
	consumeWire(b []byte) error
}

var errWireType = errors.New("unexpected wire type")

func appendInt[T ~int | ~int64](b []byte, num protowire.Number, v T) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendString[T ~string](b []byte, num protowire.Number, v T) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, string(v))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

// appendOptString and appendOptInt write a present value even when it is
// the zero value, the way proto3 optional fields do.
func appendOptString(b []byte, num protowire.Number, v *string) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, *v)
}

func appendOptInt(b []byte, num protowire.Number, v *int) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(*v))
}

// appendTime writes t as a google.protobuf.Timestamp. The zero time is omitted.
func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	// Timestamp has no required fields, so Marshal cannot fail.
	ts, _ := proto.Marshal(timestamppb.New(t))
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, ts)
}

func appendMessage(b []byte, num protowire.Number, m Message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.appendWire(nil))
}

func appendRepeated[T any, P interface {
	*T
	Message
}](b []byte, num protowire.Number, xs []T) []byte {
	for i := range xs {
		b = appendMessage(b, num, P(&xs[i]))
	}
	return b
}

// walk calls field for every field in b. field returns how many bytes of
// the value it consumed; 0 skips the field. A nil field skips everything.
func walk(b []byte, field func(num protowire.Number, typ protowire.Type, v []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m := 0
		if field != nil {
			var err error
			if m, err = field(num, typ, b); err != nil {
				return fmt.Errorf("field %d: %w", num, err)
			}
		}
		if m == 0 {
			if m = protowire.ConsumeFieldValue(num, typ, b); m < 0 {
				return protowire.ParseError(m)
			}
		}
		b = b[m:]
	}
	return nil
}

func consumeVarint(typ protowire.Type, v []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, errWireType
	}
	x, n := protowire.ConsumeVarint(v)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return x, n, nil
}

func consumeBytes(typ protowire.Type, v []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, errWireType
	}
	x, n := protowire.ConsumeBytes(v)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return x, n, nil
}

func consumeInt[T ~int | ~int64](typ protowire.Type, v []byte, dst *T) (int, error) {
	x, n, err := consumeVarint(typ, v)
	if err != nil {
		return 0, err
	}
	*dst = T(int64(x))
	return n, nil
}

func consumeBool(typ protowire.Type, v []byte, dst *bool) (int, error) {
	x, n, err := consumeVarint(typ, v)
	if err != nil {
		return 0, err
	}
	*dst = protowire.DecodeBool(x)
	return n, nil
}

func consumeString[T ~string](typ protowire.Type, v []byte, dst *T) (int, error) {
	x, n, err := consumeBytes(typ, v)
	if err != nil {
		return 0, err
	}
	*dst = T(x)
	return n, nil
}

func consumeDouble(typ protowire.Type, v []byte, dst *float64) (int, error) {
	if typ != protowire.Fixed64Type {
		return 0, errWireType
	}
	x, n := protowire.ConsumeFixed64(v)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = math.Float64frombits(x)
	return n, nil
}

func consumeOptString(typ protowire.Type, v []byte, dst **string) (int, error) {
	var s string
	n, err := consumeString(typ, v, &s)
	if err != nil {
		return 0, err
	}
	*dst = &s
	return n, nil
}

func consumeOptInt(typ protowire.Type, v []byte, dst **int) (int, error) {
	var x int
	n, err := consumeInt(typ, v, &x)
	if err != nil {
		return 0, err
	}
	*dst = &x
	return n, nil
}

func consumeTime(typ protowire.Type, v []byte, dst *time.Time) (int, error) {
	raw, n, err := consumeBytes(typ, v)
	if err != nil {
		return 0, err
	}
	var ts timestamppb.Timestamp
	if err := proto.Unmarshal(raw, &ts); err != nil {
		return 0, err
	}
	if err := ts.CheckValid(); err != nil {
		return 0, err
	}
	*dst = ts.AsTime()
	return n, nil
}

func consumeMessage(typ protowire.Type, v []byte, m Message) (int, error) {
	raw, n, err := consumeBytes(typ, v)
	if err != nil {
		return 0, err
	}
	if err := m.consumeWire(raw); err != nil {
		return 0, err
	}
	return n, nil
}

func consumeRepeated[T any, P interface {
	*T
	Message
}](typ protowire.Type, v []byte, dst *[]T) (int, error) {
	var x T
	n, err := consumeMessage(typ, v, P(&x))
	if err != nil {
		return 0, err
	}
	*dst = append(*dst, x)
	return n, nil
}
