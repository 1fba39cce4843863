package codec

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAML writes one YAML document per value.
type YAML struct{}

// Name returns "yaml".
func (YAML) Name() string { return "yaml" }

// Ext returns "yaml".
func (YAML) Ext() string { return "yaml" }

// NewEncoder returns an encoder appending documents to w.
func (YAML) NewEncoder(w io.Writer) Encoder {
	return &yamlEncoder{w: w}
}

// NewDecoder returns a decoder reading documents from r.
func (YAML) NewDecoder(r io.Reader) Decoder {
	return &yamlDecoder{dec: yaml.NewDecoder(r)}
}

// yamlEncoder writes each document in a single call so nothing stays
// buffered between appends.
type yamlEncoder struct {
	w    io.Writer
	docs int
}

func (e *yamlEncoder) Encode(v any) error {
	data, err := yaml.Marshal(Wrap(v))
	if err != nil {
		return err
	}
	if e.docs > 0 {
		data = append([]byte("---\n"), data...)
	}
	if _, err := e.w.Write(data); err != nil {
		return err
	}
	e.docs++
	return nil
}

type yamlDecoder struct {
	dec *yaml.Decoder
}

func (d *yamlDecoder) Decode() (any, error) {
	var env Envelope
	if err := d.dec.Decode(&env); err != nil {
		return nil, err
	}
	return env.Unwrap()
}
