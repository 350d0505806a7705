package fetch

import "slices"

// ContentTypeOctetStream is the blob type used when none is known.
const ContentTypeOctetStream = "application/octet-stream"

// Blob is an immutable chunk of bytes with a media type.
type Blob struct {
	typ  string
	data []byte
}

// NewBlob copies data into a new blob. An empty typ defaults to
// application/octet-stream.
func NewBlob(data []byte, typ string) *Blob {
	if typ == "" {
		typ = ContentTypeOctetStream
	}

	return &Blob{typ: typ, data: slices.Clone(data)}
}

func (b *Blob) Size() int    { return len(b.data) }
func (b *Blob) Type() string { return b.typ }

// Bytes returns a copy of the blob's content.
func (b *Blob) Bytes() []byte {
	return slices.Clone(b.data)
}

func (b *Blob) Text() string {
	return string(b.data)
}
