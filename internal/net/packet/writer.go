package packet

import "google.golang.org/protobuf/encoding/protowire"

// Marshaler is implemented by reply and push messages.
type Marshaler interface {
	MarshalWire(w *Writer)
}

// Writer appends protobuf-wire fields to a buffer. Scalar writers always emit
// the field, so a zero value still reaches the client as present.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

func (w *Writer) Uint64(num protowire.Number, v uint64) {
	w.buf = protowire.AppendTag(w.buf, num, protowire.VarintType)
	w.buf = protowire.AppendVarint(w.buf, v)
}

func (w *Writer) Int64(num protowire.Number, v int64)   { w.Uint64(num, uint64(v)) }
func (w *Writer) Int32(num protowire.Number, v int32)   { w.Uint64(num, uint64(int64(v))) }
func (w *Writer) Uint32(num protowire.Number, v uint32) { w.Uint64(num, uint64(v)) }

func (w *Writer) Bool(num protowire.Number, v bool) {
	w.Uint64(num, protowire.EncodeBool(v))
}

func (w *Writer) Bytes(num protowire.Number, v []byte) {
	w.buf = protowire.AppendTag(w.buf, num, protowire.BytesType)
	w.buf = protowire.AppendBytes(w.buf, v)
}

func (w *Writer) String(num protowire.Number, v string) {
	w.buf = protowire.AppendTag(w.buf, num, protowire.BytesType)
	w.buf = protowire.AppendString(w.buf, v)
}

// Message writes m as a nested length-delimited field.
func (w *Writer) Message(num protowire.Number, m Marshaler) {
	w.Bytes(num, Marshal(m))
}

// PackedInt32s writes a packed repeated int32 field. Empty slices are omitted.
func (w *Writer) PackedInt32s(num protowire.Number, vs []int32) {
	if len(vs) == 0 {
		return
	}
	var body []byte
	for _, v := range vs {
		body = protowire.AppendVarint(body, uint64(int64(v)))
	}
	w.Bytes(num, body)
}

// PackedInt64s writes a packed repeated int64 field. Empty slices are omitted.
func (w *Writer) PackedInt64s(num protowire.Number, vs []int64) {
	if len(vs) == 0 {
		return
	}
	var body []byte
	for _, v := range vs {
		body = protowire.AppendVarint(body, uint64(v))
	}
	w.Bytes(num, body)
}

// Encoded returns the encoded message.
func (w *Writer) Encoded() []byte {
	return w.buf
}

func (w *Writer) Len() int {
	return len(w.buf)
}

// Marshal encodes m. A nil message encodes to an empty body.
func Marshal(m Marshaler) []byte {
	if m == nil {
		return nil
	}
	w := NewWriter()
	m.MarshalWire(w)
	return w.buf
}
