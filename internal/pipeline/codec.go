// Package pipeline runs a compiled program over streams of records.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"remap/internal/value"
)

// Format selects the wire encoding of the record streams.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatMsgpack:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or msgpack)", s)
	}
}

// Decoder yields one record per call; io.EOF ends the stream. Every
// record must decode to an object.
type Decoder interface {
	Next() (value.Value, error)
}

// Encoder writes one record per call.
type Encoder interface {
	Write(v value.Value) error
}

// NewDecoder returns a streaming decoder for the given format. JSON
// input is newline-delimited or concatenated objects; msgpack input is
// a concatenated stream of maps.
func NewDecoder(f Format, r io.Reader) Decoder {
	switch f {
	case FormatMsgpack:
		return &msgpackDecoder{dec: msgpack.NewDecoder(r)}
	default:
		return &jsonDecoder{dec: json.NewDecoder(r)}
	}
}

// NewEncoder returns a streaming encoder for the given format. JSON
// output is newline-delimited.
func NewEncoder(f Format, w io.Writer) Encoder {
	switch f {
	case FormatMsgpack:
		return &msgpackEncoder{enc: msgpack.NewEncoder(w)}
	default:
		return &jsonEncoder{enc: json.NewEncoder(w)}
	}
}

type jsonDecoder struct {
	dec *json.Decoder
	n   int
}

func (d *jsonDecoder) Next() (value.Value, error) {
	var raw map[string]any
	if err := d.dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return value.Value{}, io.EOF
		}
		return value.Value{}, fmt.Errorf("record %d: %w", d.n+1, err)
	}
	d.n++
	return value.FromAny(raw), nil
}

type jsonEncoder struct {
	enc *json.Encoder
}

func (e *jsonEncoder) Write(v value.Value) error {
	return e.enc.Encode(value.ToAny(v))
}

type msgpackDecoder struct {
	dec *msgpack.Decoder
	n   int
}

func (d *msgpackDecoder) Next() (value.Value, error) {
	var raw map[string]any
	if err := d.dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return value.Value{}, io.EOF
		}
		return value.Value{}, fmt.Errorf("record %d: %w", d.n+1, err)
	}
	d.n++
	return value.FromAny(raw), nil
}

type msgpackEncoder struct {
	enc *msgpack.Encoder
}

func (e *msgpackEncoder) Write(v value.Value) error {
	return e.enc.Encode(value.ToAny(v))
}
