package fetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strings"
)

// ContentTypeJSON is set on outgoing JSON bodies lacking a content type.
const ContentTypeJSON = "application/json"

// BodyKind enumerates the shapes a request or response body can take.
type BodyKind uint8

const (
	BodyNone BodyKind = iota
	BodyText
	BodyBytes
	BodyForm
	BodyJSON
)

func (k BodyKind) String() string {
	switch k {
	case BodyNone:
		return "none"
	case BodyText:
		return "text"
	case BodyBytes:
		return "bytes"
	case BodyForm:
		return "form"
	case BodyJSON:
		return "json"
	default:
		return fmt.Sprintf("BodyKind(%d)", uint8(k))
	}
}

// Body is a closed variant over the supported body shapes. The zero
// value is an absent body.
type Body struct {
	kind  BodyKind
	text  string
	bytes []byte
	form  *FormData
	value any
}

func TextBody(s string) Body {
	return Body{kind: BodyText, text: s}
}

func BytesBody(b []byte) Body {
	return Body{kind: BodyBytes, bytes: b}
}

// FormBody wraps f. A nil f is an absent body.
func FormBody(f *FormData) Body {
	if f == nil {
		return Body{}
	}

	return Body{kind: BodyForm, form: f}
}

// JSONBody wraps a structured value to be JSON-encoded on the way out.
func JSONBody(v any) Body {
	return Body{kind: BodyJSON, value: v}
}

// BodyOf classifies a dynamic value. Strings are text, byte slices and
// arrays of any named byte type are bytes, *FormData is a form and nil is
// absent. Anything else, json.RawMessage included, is a JSON value.
func BodyOf(v any) Body {
	switch b := v.(type) {
	case nil:
		return Body{}
	case Body:
		return b
	case string:
		return TextBody(b)
	case []byte:
		return BytesBody(b)
	case json.RawMessage:
		return JSONBody(b)
	case *FormData:
		return FormBody(b)
	}

	if raw, ok := byteSequence(v); ok {
		return BytesBody(raw)
	}

	return JSONBody(v)
}

// byteSequence copies out a slice or array whose elements are bytes.
func byteSequence(v any) ([]byte, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, false
	}
	if rv.Type().Elem().Kind() != reflect.Uint8 {
		return nil, false
	}

	out := make([]byte, rv.Len())
	for i := range out {
		out[i] = byte(rv.Index(i).Uint())
	}

	return out, true
}

func (b Body) Kind() BodyKind {
	return b.kind
}

// IsZero reports whether the body is absent.
func (b Body) IsZero() bool {
	return b.kind == BodyNone
}

// Empty reports whether the body carries no content: absent, an empty
// string or zero bytes.
func (b Body) Empty() bool {
	switch b.kind {
	case BodyNone:
		return true
	case BodyText:
		return b.text == ""
	case BodyBytes:
		return len(b.bytes) == 0
	}

	return false
}

// Form returns the wrapped form for a form body.
func (b Body) Form() (*FormData, bool) {
	return b.form, b.kind == BodyForm
}

// Value returns the wrapped structured value for a JSON body.
func (b Body) Value() (any, bool) {
	return b.value, b.kind == BodyJSON
}

// clone copies mutable backing storage so descriptors do not share it.
func (b Body) clone() Body {
	switch b.kind {
	case BodyBytes:
		b.bytes = slices.Clone(b.bytes)
	case BodyForm:
		b.form = b.form.Clone()
	}

	return b
}

// readText renders the body as the string a local response reads.
func (b Body) readText() (string, error) {
	switch b.kind {
	case BodyText:
		return b.text, nil
	case BodyBytes:
		return string(b.bytes), nil
	case BodyForm:
		values := url.Values{}
		for _, p := range b.form.Entries() {
			values.Add(p[0], p[1])
		}
		return values.Encode(), nil
	case BodyJSON:
		data, err := json.Marshal(b.value)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrBodyEncoding, err)
		}
		return string(data), nil
	}

	return "", nil
}

// /////////////////////////////////////////////////////////////////

// PayloadKind enumerates the transport-ready body representations.
type PayloadKind uint8

const (
	PayloadText PayloadKind = iota
	PayloadBytes
	PayloadForm
)

// Payload is the body representation handed to a [Transport].
type Payload struct {
	Kind  PayloadKind
	Text  string
	Bytes []byte
	Form  [][2]string
}

type formPayload struct {
	IsFormData bool        `json:"isFormData"`
	Entries    [][2]string `json:"entries"`
}

// MarshalJSON renders the wire form: a JSON string for text, an array of
// integers for bytes, and {"isFormData":true,"entries":[...]} for forms.
func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PayloadText:
		return json.Marshal(p.Text)
	case PayloadBytes:
		ints := make([]int, len(p.Bytes))
		for i, b := range p.Bytes {
			ints[i] = int(b)
		}
		return json.Marshal(ints)
	case PayloadForm:
		entries := p.Form
		if entries == nil {
			entries = [][2]string{}
		}
		return json.Marshal(formPayload{IsFormData: true, Entries: entries})
	default:
		return nil, fmt.Errorf("unknown payload kind %d", p.Kind)
	}
}

// UnmarshalJSON parses the wire form produced by MarshalJSON.
func (p *Payload) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return errors.New("empty payload")
	}

	switch trimmed[0] {
	case '"':
		*p = Payload{Kind: PayloadText}
		return json.Unmarshal(data, &p.Text)

	case '[':
		var ints []int
		if err := json.Unmarshal(data, &ints); err != nil {
			return fmt.Errorf("decoding byte payload: %w", err)
		}
		b := make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return fmt.Errorf("byte payload[%d] out of range: %d", i, v)
			}
			b[i] = byte(v)
		}
		*p = Payload{Kind: PayloadBytes, Bytes: b}
		return nil

	case '{':
		var fp formPayload
		if err := json.Unmarshal(data, &fp); err != nil {
			return fmt.Errorf("decoding form payload: %w", err)
		}
		if !fp.IsFormData {
			return errors.New("object payload is not form data")
		}
		*p = Payload{Kind: PayloadForm, Form: fp.Entries}
		return nil
	}

	return fmt.Errorf("unsupported payload %q", trimmed)
}

// Encode classifies body and produces the payload for the transport.
// headers is the flattened outgoing header map; a JSON body sets
// Content-Type when no content type is present in any case. The returned
// map is headers itself, allocated when nil and a header had to be added.
// An absent body yields a nil payload.
func Encode(body Body, headers map[string]string) (*Payload, map[string]string, error) {
	switch body.kind {
	case BodyNone:
		return nil, headers, nil

	case BodyText:
		return &Payload{Kind: PayloadText, Text: body.text}, headers, nil

	case BodyBytes:
		return &Payload{Kind: PayloadBytes, Bytes: slices.Clone(body.bytes)}, headers, nil

	case BodyForm:
		return &Payload{Kind: PayloadForm, Form: body.form.Entries()}, headers, nil

	case BodyJSON:
		data, err := json.Marshal(body.value)
		if err != nil {
			return nil, headers, fmt.Errorf("%w: %w", ErrBodyEncoding, err)
		}

		if !hasContentType(headers) {
			if headers == nil {
				headers = make(map[string]string, 1)
			}
			headers["Content-Type"] = ContentTypeJSON
		}

		return &Payload{Kind: PayloadText, Text: string(data)}, headers, nil
	}

	return nil, headers, fmt.Errorf("%w: unknown body kind %s", ErrTypeError, body.kind)
}

func hasContentType(headers map[string]string) bool {
	for k := range headers {
		if strings.EqualFold(k, "content-type") {
			return true
		}
	}

	return false
}
