// Package channel manages sets of append-only value streams, one per tuple
// position, persisted through a storage backend.
package channel

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/kbukum/iocapture/codec"
	"github.com/kbukum/iocapture/errors"
	"github.com/kbukum/iocapture/storage"
)

// Direction tells inputs from outputs.
type Direction string

const (
	In  Direction = "in"
	Out Direction = "out"
)

// ParseDirection accepts "in" or "out".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case In, Out:
		return Direction(s), nil
	default:
		return "", errors.InvalidConfig("direction", fmt.Sprintf("unknown direction %q (want in or out)", s))
	}
}

// Name returns the resource name of channel index in direction dir.
func Name(dir Direction, index int, ext string) string {
	return fmt.Sprintf("%s%d.%s", dir, index, ext)
}

type channel struct {
	name string
	w    io.WriteCloser
	enc  codec.Encoder
}

// Set is an ordered group of channels of one direction. A Set is owned by a
// single caller and is not safe for concurrent use.
type Set struct {
	dir      Direction
	location string
	channels []*channel
	closed   bool
}

// Open creates arity channels named {dir}{i}.{ext}. If any of them cannot be
// created the ones already created are closed and a CHANNEL_IO error naming
// the failing resource is returned.
func Open(ctx context.Context, store storage.Storage, c codec.Codec, dir Direction, arity int) (*Set, error) {
	if arity < 0 {
		return nil, errors.Internal(fmt.Sprintf("negative channel count %d", arity))
	}
	s := &Set{dir: dir, location: store.Location(), channels: make([]*channel, 0, arity)}
	for i := 0; i < arity; i++ {
		name := Name(dir, i, c.Ext())
		w, err := store.Create(ctx, name)
		if err != nil {
			s.CloseAll() //nolint:errcheck // the create failure is reported
			return nil, errors.ChannelCreate(s.resource(name), err)
		}
		s.channels = append(s.channels, &channel{name: name, w: w, enc: c.NewEncoder(w)})
	}
	return s, nil
}

func (s *Set) resource(name string) string {
	return s.location + "/" + name
}

// Direction returns the direction of every channel in the set.
func (s *Set) Direction() Direction { return s.dir }

// Len returns the number of channels.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.channels)
}

// Names returns the resource names in index order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.channels))
	for i, ch := range s.channels {
		names[i] = ch.name
	}
	return names
}

// Append encodes value at the end of channel index.
func (s *Set) Append(index int, value any) error {
	if s == nil || index < 0 || index >= len(s.channels) {
		return errors.ChannelWrite(fmt.Sprintf("%s[%d]", s.dirName(), index), value,
			fmt.Errorf("no channel at index %d", index))
	}
	ch := s.channels[index]
	if s.closed {
		return errors.ChannelWrite(s.resource(ch.name), value, stderrors.New("channel closed"))
	}
	if err := ch.enc.Encode(value); err != nil {
		return errors.ChannelWrite(s.resource(ch.name), value, err)
	}
	return nil
}

func (s *Set) dirName() string {
	if s == nil {
		return "channel"
	}
	return string(s.dir)
}

// CloseAll closes every channel exactly once. Later calls, and calls on a
// nil Set, do nothing.
func (s *Set) CloseAll() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	var errs []error
	for _, ch := range s.channels {
		if err := ch.w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.ChannelClose(s.location, stderrors.Join(errs...))
	}
	return nil
}

// ReadAll decodes channel index of direction dir in append order.
func ReadAll(ctx context.Context, store storage.Storage, c codec.Codec, dir Direction, index int) ([]any, error) {
	name := Name(dir, index, c.Ext())
	r, err := store.Open(ctx, name)
	if err != nil {
		return nil, errors.DecodeFailed(name, err)
	}
	defer r.Close() //nolint:errcheck // read-only

	dec := c.NewDecoder(r)
	values := []any{}
	for {
		v, err := dec.Decode()
		if err == io.EOF {
			return values, nil
		}
		if err != nil {
			return nil, errors.DecodeFailed(name, err).WithDetail("position", len(values))
		}
		values = append(values, v)
	}
}
