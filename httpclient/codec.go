package httpclient

import (
	"encoding/json"
)

// Codec encodes request bodies and decodes response bodies.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

// JSONCodec is the JSON codec. It is the only codec the API speaks.
type JSONCodec struct{}

// JSON is the shared JSON codec.
var JSON Codec = JSONCodec{}

func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSONCodec) ContentType() string                { return MIMEApplicationJSON }

// Empty is the response type of endpoints that return no body.
type Empty struct{}

// Decode decodes the response body into T. Decoding into Empty never reads
// the body. A zero-length body is ErrEmptyResponse and a codec failure is
// KindDecodingFailed.
func Decode[T any](codec Codec, resp *Response) (T, error) {
	var out T
	if _, ok := any(out).(Empty); ok {
		return out, nil
	}
	if resp == nil || len(resp.Body) == 0 {
		return out, ErrEmptyResponse
	}
	if codec == nil {
		codec = JSON
	}
	if err := codec.Unmarshal(resp.Body, &out); err != nil {
		return out, NewDecodingFailed(err)
	}
	return out, nil
}
