package netpeer

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
)

// StatusCode mirrors original_source/src/gui/net/common.h's
// NetCommon::StatusCode.
type StatusCode int

const (
	StatusOK StatusCode = iota
	StatusMethodNotFound
	StatusMethodWrongArgs
)

// MessageKind distinguishes a request from a response on the wire, since
// both flow over the same connection in both directions (a client issues
// requests and a server may itself send DoAction requests to broadcast
// remote edits back out).
type MessageKind int

const (
	KindRequest MessageKind = iota
	KindResponse
)

// Method names the RPC entry points: getFile fetches the song, and
// MethodDoAction (original_source's Method::DO_ACTION) carries a Command
// under the wire name execCommand.
const (
	MethodGetFile   = "getFile"
	MethodDoAction  = "execCommand"
)

// Request is a call: an id the caller picks (monotonically increasing per
// peer) to correlate the eventual Response, a method name, and opaque
// gob-encoded arguments the method implementation knows how to decode.
type Request struct {
	ID     uint64
	Method string
	Args   []byte
}

// Response answers a Request with the same ID.
type Response struct {
	ID     uint64
	Status StatusCode
	Result []byte
}

// message is the outermost frame written to the wire: exactly one of
// Request/Response is populated, selected by Kind.
type message struct {
	Kind     MessageKind
	Request  Request
	Response Response
}

// writeMessage length-prefixes and gob-encodes msg to w. The framing
// (uint32 big-endian length, then payload) is the same shape
// tracker/history.go's recovery file uses for its own length-prefixed
// records, generalized here to a live socket instead of a file.
func writeMessage(w io.Writer, msg message) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(msg); err != nil {
		return fmt.Errorf("netpeer: encode message: %w", err)
	}
	// Prefix and body go out in a single Write, so a writer that locks per
	// Write call (Peer's writeLocked) never lets two frames interleave.
	frame := make([]byte, 4+buf.Len())
	binary.BigEndian.PutUint32(frame[:4], uint32(buf.Len()))
	copy(frame[4:], buf.Bytes())
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("netpeer: write message: %w", err)
	}
	return nil
}

// maxMessageBytes bounds a single frame's payload, guarding against a
// corrupt or hostile length prefix causing an unbounded allocation.
const maxMessageBytes = 64 << 20

func readMessage(r io.Reader) (message, error) {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		return message{}, err
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])
	if n > maxMessageBytes {
		return message{}, fmt.Errorf("netpeer: message of %d bytes exceeds limit", n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return message{}, fmt.Errorf("netpeer: read message body: %w", err)
	}
	var msg message
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&msg); err != nil {
		return message{}, fmt.Errorf("netpeer: decode message: %w", err)
	}
	return msg, nil
}

// encodeArgs and decodeArgs gob-encode/decode a method's argument or
// result payload into the opaque []byte the Request/Response frame
// carries, keeping the outer message type independent of any particular
// method's argument shape.
func encodeArgs(v any) []byte {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		panic(fmt.Sprintf("netpeer: encodeArgs: %v", err))
	}
	return buf.Bytes()
}

func decodeArgs(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
