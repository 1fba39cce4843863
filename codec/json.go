package codec

import (
	"encoding/json"
	"io"
)

// JSONLines writes one JSON object per line.
type JSONLines struct{}

// Name returns "json".
func (JSONLines) Name() string { return "json" }

// Ext returns "jsonl".
func (JSONLines) Ext() string { return "jsonl" }

// NewEncoder returns an encoder appending lines to w.
func (JSONLines) NewEncoder(w io.Writer) Encoder {
	return &jsonEncoder{enc: json.NewEncoder(w)}
}

// NewDecoder returns a decoder reading lines from r. Numbers are kept exact
// until the envelope kind picks their Go type.
func (JSONLines) NewDecoder(r io.Reader) Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonDecoder{dec: dec}
}

type jsonEncoder struct {
	enc *json.Encoder
}

func (e *jsonEncoder) Encode(v any) error {
	return e.enc.Encode(Wrap(v))
}

type jsonDecoder struct {
	dec *json.Decoder
}

func (d *jsonDecoder) Decode() (any, error) {
	var env Envelope
	if err := d.dec.Decode(&env); err != nil {
		return nil, err
	}
	return env.Unwrap()
}
