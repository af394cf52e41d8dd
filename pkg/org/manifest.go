package org

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Encode writes o as a YAML manifest.
func (o *Organization) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(o); err != nil {
		return errors.Wrap(err, "encode organization")
	}
	return errors.Wrap(enc.Close(), "encode organization")
}

// Marshal returns o as a YAML manifest.
func (o *Organization) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := o.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a YAML manifest. Unknown fields are rejected.
func Decode(r io.Reader) (*Organization, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var o Organization
	if err := dec.Decode(&o); err != nil {
		if err == io.EOF {
			return nil, errors.New("decode organization: empty manifest")
		}
		return nil, errors.Wrap(err, "decode organization")
	}
	return &o, nil
}

// Load reads the manifest at path.
func Load(path string) (*Organization, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open manifest")
	}
	defer f.Close()
	o, err := Decode(f)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return o, nil
}

// WriteFile writes o to path.
func (o *Organization) WriteFile(path string) error {
	raw, err := o.Marshal()
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, raw, 0o644), "write manifest")
}
