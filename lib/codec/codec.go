// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Content types understood by this package.
const (
	ContentTypeJSON = "application/json"
	ContentTypeCBOR = "application/cbor"
)

// Codec encodes and decodes request and response bodies in one wire
// format.
type Codec interface {
	// Name is the configuration name: "json" or "cbor".
	Name() string

	// ContentType is the MIME type sent in Content-Type and Accept.
	ContentType() string

	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error

	// Decode reads exactly one value from r.
	Decode(r io.Reader, v any) error
}

// JSON is the default codec.
var JSON Codec = jsonCodec{}

// CBOR is the deterministic CBOR codec.
var CBOR Codec = cborCodec{}

// ByName returns the codec registered under a configuration name. An
// empty name selects JSON.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON, nil
	case "cbor":
		return CBOR, nil
	default:
		return nil, fmt.Errorf("unknown wire format %q (expected json or cbor)", name)
	}
}

// ByContentType returns the codec for a Content-Type header value.
// Parameters such as charset are ignored. An empty or unrecognized
// header falls back to the given default; the service is not required
// to label error bodies produced by intermediaries.
func ByContentType(header string, fallback Codec) Codec {
	if header == "" {
		return fallback
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return fallback
	}
	switch mediaType {
	case ContentTypeJSON:
		return JSON
	case ContentTypeCBOR:
		return CBOR
	default:
		return fallback
	}
}

type jsonCodec struct{}

func (jsonCodec) Name() string        { return "json" }
func (jsonCodec) ContentType() string { return ContentTypeJSON }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Decode(r io.Reader, v any) error { return json.NewDecoder(r).Decode(v) }

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Timestamps travel as RFC 3339 text, the same representation the
	// JSON codec produces, so a value re-encoded in the other format
	// compares equal.
	encOptions.Time = cbor.TimeRFC3339Nano
	cborEncMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	cborDecMode, err = cbor.DecOptions{
		// any-typed targets (error bodies decoded into map[string]any)
		// must get string keys to stay interchangeable with JSON.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

type cborCodec struct{}

func (cborCodec) Name() string        { return "cbor" }
func (cborCodec) ContentType() string { return ContentTypeCBOR }

func (cborCodec) Marshal(v any) ([]byte, error) { return cborEncMode.Marshal(v) }

func (cborCodec) Unmarshal(data []byte, v any) error { return cborDecMode.Unmarshal(data, v) }

func (cborCodec) Decode(r io.Reader, v any) error { return cborDecMode.NewDecoder(r).Decode(v) }

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) of data.
// Used by debug logging of CBOR response bodies.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
