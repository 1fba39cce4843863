// Package codec serializes captured values into channel streams.
//
// Every value is written as an envelope {kind, value} so primitive kinds
// survive a round trip: an int32 written to a channel is read back as an
// int32, not as whatever integer type the wire format prefers.
package codec

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/iocapture/errors"
)

// Encoder appends values to an underlying stream.
type Encoder interface {
	Encode(v any) error
}

// Decoder reads values back in the order they were encoded. Decode returns
// io.EOF once the stream is exhausted.
type Decoder interface {
	Decode() (any, error)
}

// Codec creates encoders and decoders for one wire format.
type Codec interface {
	// Name is the configuration name of the codec.
	Name() string
	// Ext is the file extension of channels written with this codec.
	Ext() string
	NewEncoder(w io.Writer) Encoder
	NewDecoder(r io.Reader) Decoder
}

var (
	mu     sync.RWMutex
	codecs = map[string]Codec{}
)

// Register makes a codec available by name.
func Register(c Codec) {
	mu.Lock()
	defer mu.Unlock()
	codecs[strings.ToLower(c.Name())] = c
}

// ByName returns the registered codec with the given name.
func ByName(name string) (Codec, error) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := codecs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.InvalidConfig("capture.codec",
			fmt.Sprintf("unknown codec %q (available: %s)", name, strings.Join(namesLocked(), ", ")))
	}
	return c, nil
}

// Names returns the registered codec names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(YAML{})
	Register(JSONLines{})
}
