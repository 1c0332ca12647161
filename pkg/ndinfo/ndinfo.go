// Package ndinfo describes ND records as YAML without decoding their
// payload.
package ndinfo

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/ndarray"
)

// Info summarizes one record header.
type Info struct {
	Type         string   `yaml:"type"`
	Rank         int      `yaml:"rank"`
	Extents      []uint64 `yaml:"extents,flow"`
	Elements     int      `yaml:"elements"`
	PayloadBytes int      `yaml:"payload_bytes"`
	RecordBytes  int      `yaml:"record_bytes"`
}

// FromHeader builds the summary of h.
func FromHeader(h ndarray.Header) *Info {
	return &Info{
		Type:         h.Type.String(),
		Rank:         h.Rank,
		Extents:      h.Extents,
		Elements:     h.Elements,
		PayloadBytes: h.PayloadSize(),
		RecordBytes:  h.Size() + h.PayloadSize(),
	}
}

// Describe reads one record header from r. The payload is left unread.
func Describe(r io.Reader, opts ...ndarray.Option) (*Info, error) {
	h, err := ndarray.ReadHeader(r, opts...)
	if err != nil {
		return nil, err
	}
	return FromHeader(h), nil
}

func (i *Info) YAML() ([]byte, error) {
	return yaml.Marshal(i)
}

// Header converts the summary back into a record header.
func (i *Info) Header() (ndarray.Header, error) {
	t, err := ParseElemType(i.Type)
	if err != nil {
		return ndarray.Header{}, err
	}
	if len(i.Extents) != i.Rank {
		return ndarray.Header{}, fmt.Errorf("ndinfo: rank %d with %d extents: %w",
			i.Rank, len(i.Extents), ndarray.ErrInvalidShape)
	}
	return ndarray.Header{Type: t, Rank: i.Rank, Extents: i.Extents, Elements: i.Elements}, nil
}

// ParseYAML decodes an Info; unknown keys are rejected.
func ParseYAML(b []byte) (*Info, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var i Info
	if err := dec.Decode(&i); err != nil {
		return nil, fmt.Errorf("ndinfo: %w", err)
	}
	return &i, nil
}

// ParseElemType maps a type name produced by ElemType.String back to its
// tag.
func ParseElemType(name string) (ndarray.ElemType, error) {
	for _, t := range []ndarray.ElemType{ndarray.TypeUint8, ndarray.TypeFloat32, ndarray.TypeBits} {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("ndinfo: unknown element type %q: %w", name, ndarray.ErrUnsupported)
}
