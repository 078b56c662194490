package packet

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrTruncated is returned when a field runs past the end of the body.
var ErrTruncated = errors.New("packet: truncated field")

// Unmarshaler is implemented by request messages.
type Unmarshaler interface {
	UnmarshalWire(r *Reader) error
}

// Reader walks the protobuf-wire fields of a message body. Callers loop on
// Next and read the value with the matching typed method; anything they do
// not recognise is dropped with Skip.
type Reader struct {
	data []byte
	off  int
	typ  protowire.Type
	err  error
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Next advances to the next field tag. It returns false at the end of the
// body or after the first decode error.
func (r *Reader) Next() (protowire.Number, bool) {
	if r.err != nil || r.off >= len(r.data) {
		return 0, false
	}
	num, typ, n := protowire.ConsumeTag(r.data[r.off:])
	if n < 0 {
		r.fail(protowire.ParseError(n))
		return 0, false
	}
	r.off += n
	r.typ = typ
	return num, true
}

// Err returns the first decode error.
func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = fmt.Errorf("packet: offset %d: %w", r.off, err)
	}
}

// Skip discards the value of the current field.
func (r *Reader) Skip() {
	if r.err != nil {
		return
	}
	n := protowire.ConsumeFieldValue(0, r.typ, r.data[r.off:])
	if n < 0 {
		r.fail(protowire.ParseError(n))
		return
	}
	r.off += n
}

// Uint64 reads a varint.
func (r *Reader) Uint64() uint64 {
	if r.err != nil {
		return 0
	}
	if r.typ != protowire.VarintType {
		r.fail(fmt.Errorf("want varint, got wire type %d", r.typ))
		return 0
	}
	v, n := protowire.ConsumeVarint(r.data[r.off:])
	if n < 0 {
		r.fail(protowire.ParseError(n))
		return 0
	}
	r.off += n
	return v
}

func (r *Reader) Int64() int64   { return int64(r.Uint64()) }
func (r *Reader) Int32() int32   { return int32(r.Uint64()) }
func (r *Reader) Uint32() uint32 { return uint32(r.Uint64()) }
func (r *Reader) Bool() bool     { return r.Uint64() != 0 }

// Bytes reads a length-delimited value. The slice aliases the body.
func (r *Reader) Bytes() []byte {
	if r.err != nil {
		return nil
	}
	if r.typ != protowire.BytesType {
		r.fail(fmt.Errorf("want bytes, got wire type %d", r.typ))
		return nil
	}
	v, n := protowire.ConsumeBytes(r.data[r.off:])
	if n < 0 {
		r.fail(ErrTruncated)
		return nil
	}
	r.off += n
	return v
}

// Str reads a length-delimited value as a string.
func (r *Reader) Str() string { return string(r.Bytes()) }

// Message decodes a nested message into m.
func (r *Reader) Message(m Unmarshaler) {
	b := r.Bytes()
	if r.err != nil {
		return
	}
	if err := m.UnmarshalWire(NewReader(b)); err != nil {
		r.fail(err)
	}
}

// AppendInt32s reads a repeated int32 field in either packed or unpacked
// encoding and appends the values to dst.
func (r *Reader) AppendInt32s(dst []int32) []int32 {
	if r.typ != protowire.BytesType {
		return append(dst, r.Int32())
	}
	b := r.Bytes()
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			r.fail(protowire.ParseError(n))
			return dst
		}
		dst = append(dst, int32(v))
		b = b[n:]
	}
	return dst
}

// Unmarshal decodes body into m.
func Unmarshal(body []byte, m Unmarshaler) error {
	return m.UnmarshalWire(NewReader(body))
}

// Fields calls fn for every field in the body. fn must consume the value,
// calling Skip for fields it does not know.
func (r *Reader) Fields(fn func(num protowire.Number)) error {
	for {
		num, ok := r.Next()
		if !ok {
			break
		}
		fn(num)
	}
	return r.Err()
}
