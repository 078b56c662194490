package net

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sonettogo/server/internal/net/packet"
)

// MaxFrameSize bounds the length field of a frame in either direction.
const MaxFrameSize = 1 << 20

const (
	requestHeader = 2 + 1     // cmd + up_tag
	replyHeader   = 2 + 2 + 1 // cmd + status + up_tag
)

// ReadFrame reads one client frame from r.
// Wire format: [4B BE: length of rest][2B BE cmd][1B up_tag][body].
func ReadFrame(r io.Reader) (*packet.Packet, error) {
	rest, err := readLengthPrefixed(r, requestHeader)
	if err != nil {
		return nil, err
	}
	return &packet.Packet{
		Cmd:   packet.CmdID(binary.BigEndian.Uint16(rest[0:2])),
		UpTag: rest[2],
		Body:  rest[requestHeader:],
	}, nil
}

// EncodeFrame builds one server frame.
// Wire format: [4B BE: length of rest][2B BE cmd][2B BE status][1B up_tag][body].
func EncodeFrame(cmd packet.CmdID, status uint16, upTag uint8, body []byte) []byte {
	buf := make([]byte, 4+replyHeader+len(body))
	binary.BigEndian.PutUint32(buf[0:4], uint32(replyHeader+len(body)))
	binary.BigEndian.PutUint16(buf[4:6], uint16(cmd))
	binary.BigEndian.PutUint16(buf[6:8], status)
	buf[8] = upTag
	copy(buf[9:], body)
	return buf
}

// Frame is a decoded server frame, as seen by a client.
type Frame struct {
	Cmd    packet.CmdID
	Status uint16
	UpTag  uint8
	Body   []byte
}

// EncodeRequest builds one client frame. Used by tools and tests that drive
// the server from the client side.
func EncodeRequest(cmd packet.CmdID, upTag uint8, body []byte) []byte {
	buf := make([]byte, 4+requestHeader+len(body))
	binary.BigEndian.PutUint32(buf[0:4], uint32(requestHeader+len(body)))
	binary.BigEndian.PutUint16(buf[4:6], uint16(cmd))
	buf[6] = upTag
	copy(buf[7:], body)
	return buf
}

// ReadServerFrame reads one server frame from r.
func ReadServerFrame(r io.Reader) (*Frame, error) {
	rest, err := readLengthPrefixed(r, replyHeader)
	if err != nil {
		return nil, err
	}
	return &Frame{
		Cmd:    packet.CmdID(binary.BigEndian.Uint16(rest[0:2])),
		Status: binary.BigEndian.Uint16(rest[2:4]),
		UpTag:  rest[4],
		Body:   rest[replyHeader:],
	}, nil
}

func readLengthPrefixed(r io.Reader, minLen int) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}
	n := int(binary.BigEndian.Uint32(header[:]))
	if n < minLen || n > MaxFrameSize {
		return nil, fmt.Errorf("invalid frame length: %d", n)
	}
	rest := make([]byte, n)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, fmt.Errorf("read frame payload (%d bytes): %w", n, err)
	}
	return rest, nil
}
