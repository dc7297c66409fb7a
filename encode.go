package endpoint

import (
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v3"
)

const defaultCharset = "utf-8"

// Encoder turns values of one concrete type into a response body.
// Charset returns "" when the content type carries no charset.
type Encoder[A any] interface {
	Encode(v A) ([]byte, error)
	ContentType() string
	Charset() string
}

// AnyEncoder is a generic encoding strategy that accepts values of any type
// and decides how to encode them at the call site. Use Typed to bind it to a
// concrete type.
type AnyEncoder interface {
	Encode(v any) ([]byte, error)
	ContentType() string
	Charset() string
}

// EncoderFunc builds an Encoder from a function and a fixed content type.
func EncoderFunc[A any](contentType, charset string, fn func(A) ([]byte, error)) Encoder[A] {
	return funcEncoder[A]{fn: fn, contentType: contentType, charset: charset}
}

type funcEncoder[A any] struct {
	fn          func(A) ([]byte, error)
	contentType string
	charset     string
}

func (e funcEncoder[A]) Encode(v A) ([]byte, error) { return e.fn(v) }
func (e funcEncoder[A]) ContentType() string        { return e.contentType }
func (e funcEncoder[A]) Charset() string            { return e.charset }

// Typed adapts a generic strategy into an Encoder for A.
func Typed[A any](g AnyEncoder) Encoder[A] {
	return typedEncoder[A]{generic: g}
}

type typedEncoder[A any] struct {
	generic AnyEncoder
}

func (e typedEncoder[A]) Encode(v A) ([]byte, error) { return e.generic.Encode(v) }
func (e typedEncoder[A]) ContentType() string        { return e.generic.ContentType() }
func (e typedEncoder[A]) Charset() string            { return e.generic.Charset() }

// Text encodes strings as text/plain.
func Text() Encoder[string] {
	return EncoderFunc("text/plain", defaultCharset, func(s string) ([]byte, error) {
		return []byte(s), nil
	})
}

// Bytes passes raw bytes through as application/octet-stream.
func Bytes() Encoder[[]byte] {
	return EncoderFunc("application/octet-stream", "", func(b []byte) ([]byte, error) {
		return b, nil
	})
}

// Empty encodes Void as an empty application/json body.
func Empty() Encoder[Void] {
	return EmptyAs("application/json")
}

// EmptyAs encodes Void as an empty body with the given content type.
func EmptyAs(contentType string) Encoder[Void] {
	return EncoderFunc(contentType, defaultCharset, func(Void) ([]byte, error) {
		return []byte{}, nil
	})
}

// JSONErrors is the default error encoder: an ErrorMap as a JSON object.
func JSONErrors() Encoder[ErrorMap] {
	return Typed[ErrorMap](JSON())
}

// ProblemErrors encodes an ErrorMap as an RFC 9457 problem details object
// (application/problem+json). The title, status, detail, type and instance
// members are read from the keys of the same name; other keys become
// field errors.
func ProblemErrors() Encoder[ErrorMap] {
	return EncoderFunc("application/problem+json", "", func(m ErrorMap) ([]byte, error) {
		return json.Marshal(problemFromMap(m))
	})
}

// jsonCodec encodes any value with encoding/json.
type jsonCodec struct{}

// JSON returns the generic JSON strategy.
func JSON() AnyEncoder { return jsonCodec{} }

func (jsonCodec) ContentType() string { return "application/json" }
func (jsonCodec) Charset() string     { return defaultCharset }

func (jsonCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// xmlCodec encodes any value with encoding/xml, prefixed by the XML header.
type xmlCodec struct{}

// XML returns the generic XML strategy.
func XML() AnyEncoder { return xmlCodec{} }

func (xmlCodec) ContentType() string { return "application/xml" }
func (xmlCodec) Charset() string     { return defaultCharset }

func (xmlCodec) Encode(v any) ([]byte, error) {
	b, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), b...), nil
}

type yamlCodec struct{}

// YAML returns the generic YAML strategy.
func YAML() AnyEncoder { return yamlCodec{} }

func (yamlCodec) ContentType() string { return "application/yaml" }
func (yamlCodec) Charset() string     { return defaultCharset }

func (yamlCodec) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

type tomlCodec struct{}

// TOML returns the generic TOML strategy. Only values that encode to a TOML
// table (structs and maps) are supported.
func TOML() AnyEncoder { return tomlCodec{} }

func (tomlCodec) ContentType() string { return "application/toml" }
func (tomlCodec) Charset() string     { return defaultCharset }

func (tomlCodec) Encode(v any) ([]byte, error) {
	return toml.Marshal(v)
}

type protoCodec struct{}

// Protobuf returns the generic protobuf strategy. Values must implement
// proto.Message; anything else fails with ErrUnsupportedValue.
func Protobuf() AnyEncoder { return protoCodec{} }

func (protoCodec) ContentType() string { return "application/x-protobuf" }
func (protoCodec) Charset() string     { return "" }

func (protoCodec) Encode(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a proto.Message", ErrUnsupportedValue, v)
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(msg)
}

// contentTypeHeader joins a media type and an optional charset.
func contentTypeHeader(ct, charset string) string {
	if charset == "" {
		return ct
	}
	return ct + "; charset=" + charset
}
