package mcp

import (
	"bytes"
	"encoding/json"
	"io"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ErrDecode is returned by DecodeRequest for lines that are not a single
// JSON object.
var ErrDecode = errors.New("decode request")

// DecodeRequest parses one line of input into a Request.
//
// The line must hold exactly one JSON object in valid UTF-8. Unknown members
// are ignored, a missing or null params member is left nil.
func DecodeRequest(line []byte) (*Request, error) {
	line = bytes.TrimSpace(line)
	if !utf8.Valid(line) {
		return nil, errors.Wrap(ErrDecode, "invalid utf-8")
	}
	if !jx.Valid(line) {
		return nil, errors.Wrap(ErrDecode, "invalid json")
	}

	d := jx.DecodeBytes(line)
	if d.Next() != jx.Object {
		return nil, errors.Wrap(ErrDecode, "request is not an object")
	}

	req := &Request{}
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "jsonrpc":
			if d.Next() != jx.String {
				return d.Skip()
			}
			v, err := d.Str()
			req.JSONRPC = v
			return err
		case "id":
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			req.ID = cloneRaw(raw)
		case "method":
			if d.Next() == jx.String {
				v, err := d.Str()
				req.Method = v
				return err
			}
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			req.rawMethod = string(raw)
		case "params":
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			if raw.Type() != jx.Null {
				req.Params = cloneRaw(raw)
			}
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}

	return req, nil
}

// decodeToolCallParams parses tools/call params. A non-string name is kept
// as its JSON text so it can be reported as an unknown tool.
func decodeToolCallParams(raw json.RawMessage) (ToolCallParams, error) {
	var p ToolCallParams
	if len(raw) == 0 {
		return p, nil
	}

	d := jx.DecodeBytes(raw)
	if t := d.Next(); t != jx.Object {
		return p, errors.Errorf("params must be an object, got %s", t)
	}

	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "name":
			switch d.Next() {
			case jx.String:
				v, err := d.Str()
				p.Name = v
				return err
			case jx.Null:
				return d.Null()
			}
			v, err := d.Raw()
			if err != nil {
				return err
			}
			p.rawName = string(v)
		case "arguments":
			v, err := d.Raw()
			if err != nil {
				return err
			}
			if v.Type() != jx.Null {
				p.Arguments = cloneRaw(v)
			}
		default:
			return d.Skip()
		}
		return nil
	})
	return p, err
}

func cloneRaw(raw jx.Raw) json.RawMessage {
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}

// marshalError reports a result that could not be encoded as JSON.
type marshalError struct {
	err error
}

func (e *marshalError) Error() string { return "marshal result: " + e.err.Error() }
func (e *marshalError) Unwrap() error { return e.err }

type flusher interface {
	Flush() error
}

// Encoder writes responses as newline-delimited JSON.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w. If w has a Flush method it is
// called after every response.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes resp as a single line and flushes it.
func (e *Encoder) Encode(resp *Response) error {
	line, err := marshalResponse(resp)
	if err != nil {
		return err
	}

	if _, err := e.w.Write(line); err != nil {
		return errors.Wrap(err, "write response")
	}
	if f, ok := e.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, "flush response")
		}
	}
	return nil
}

func marshalResponse(resp *Response) ([]byte, error) {
	var result []byte
	if resp.Error == nil {
		data, err := json.Marshal(resp.Result)
		if err != nil {
			return nil, &marshalError{err: err}
		}
		result = data
	}

	var enc jx.Encoder
	enc.Obj(func(enc *jx.Encoder) {
		enc.Field("jsonrpc", func(enc *jx.Encoder) {
			enc.Str(jsonrpcVersion)
		})
		enc.Field("id", func(enc *jx.Encoder) {
			if len(resp.ID) == 0 {
				enc.Null()
				return
			}
			enc.Raw(resp.ID)
		})
		if resp.Error != nil {
			enc.Field("error", func(enc *jx.Encoder) {
				enc.Obj(func(enc *jx.Encoder) {
					enc.Field("code", func(enc *jx.Encoder) {
						enc.Int(resp.Error.Code)
					})
					enc.Field("message", func(enc *jx.Encoder) {
						enc.Str(resp.Error.Message)
					})
				})
			})
			return
		}
		enc.Field("result", func(enc *jx.Encoder) {
			enc.Raw(result)
		})
	})

	return append(enc.Bytes(), '\n'), nil
}
