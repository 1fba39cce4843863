package channel

import (
	"context"
	stderrors "errors"
	"reflect"
	"strings"
	"testing"

	"github.com/kbukum/iocapture/codec"
	"github.com/kbukum/iocapture/errors"
	"github.com/kbukum/iocapture/storage/local"
	"github.com/kbukum/iocapture/storage/memory"
)

func TestName(t *testing.T) {
	if got := Name(In, 0, "yaml"); got != "in0.yaml" {
		t.Errorf("got %q", got)
	}
	if got := Name(Out, 12, "jsonl"); got != "out12.jsonl" {
		t.Errorf("got %q", got)
	}
}

func TestOpenCreatesOneResourcePerPosition(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	s, err := Open(ctx, store, codec.YAML{}, In, 3)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 || s.Direction() != In {
		t.Errorf("unexpected set: len %d dir %s", s.Len(), s.Direction())
	}
	if want := []string{"in0.yaml", "in1.yaml", "in2.yaml"}; !reflect.DeepEqual(s.Names(), want) {
		t.Errorf("Names() = %v, want %v", s.Names(), want)
	}
	if err := s.CloseAll(); err != nil {
		t.Fatal(err)
	}
	files, _ := store.List(ctx, "")
	if len(files) != 3 {
		t.Errorf("expected 3 committed channels, got %+v", files)
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	store, err := local.NewStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, c := range []codec.Codec{codec.YAML{}, codec.JSONLines{}} {
		s, err := Open(ctx, store, c, Out, 2)
		if err != nil {
			t.Fatal(err)
		}
		for i := int32(0); i < 5; i++ {
			if err := s.Append(0, i); err != nil {
				t.Fatal(err)
			}
			if err := s.Append(1, "v"+string(rune('a'+i))); err != nil {
				t.Fatal(err)
			}
		}
		if err := s.CloseAll(); err != nil {
			t.Fatal(err)
		}

		got, err := ReadAll(ctx, store, c, Out, 0)
		if err != nil {
			t.Fatal(err)
		}
		if want := []any{int32(0), int32(1), int32(2), int32(3), int32(4)}; !reflect.DeepEqual(got, want) {
			t.Errorf("%s: out0 = %v, want %v", c.Name(), got, want)
		}
		got, _ = ReadAll(ctx, store, c, Out, 1)
		if want := []any{"va", "vb", "vc", "vd", "ve"}; !reflect.DeepEqual(got, want) {
			t.Errorf("%s: out1 = %v, want %v", c.Name(), got, want)
		}
	}
}

func TestOpenFailureClosesCreatedChannels(t *testing.T) {
	store := memory.New()
	store.Fail(memory.OpCreate, "in1.yaml", stderrors.New("permission denied"))

	_, err := Open(context.Background(), store, codec.YAML{}, In, 3)
	if !errors.Is(err, errors.ErrCodeChannelIO) {
		t.Fatalf("expected CHANNEL_IO, got %v", err)
	}
	if !strings.Contains(err.Error(), "cannot create channel file: memory:///in1.yaml") {
		t.Errorf("error must name the resource, got %q", err.Error())
	}
	if ok, _ := store.Exists(context.Background(), "in0.yaml"); !ok {
		t.Error("in0.yaml should have been closed (and committed) on failure")
	}
}

func TestAppendErrors(t *testing.T) {
	store := memory.New()
	store.Fail(memory.OpWrite, "out0.yaml", stderrors.New("quota exceeded"))
	s, err := Open(context.Background(), store, codec.YAML{}, Out, 1)
	if err != nil {
		t.Fatal(err)
	}

	err = s.Append(0, int32(9))
	if !errors.Is(err, errors.ErrCodeChannelIO) || !strings.Contains(err.Error(), "cannot serialize value: 9") {
		t.Errorf("unexpected write error %v", err)
	}
	if err := s.Append(1, int32(9)); !errors.Is(err, errors.ErrCodeChannelIO) {
		t.Errorf("expected CHANNEL_IO for out-of-range index, got %v", err)
	}

	s.CloseAll()
	if err := s.Append(0, int32(1)); !errors.Is(err, errors.ErrCodeChannelIO) {
		t.Errorf("expected CHANNEL_IO after close, got %v", err)
	}
}

func TestCloseAllExactlyOnce(t *testing.T) {
	store := memory.New()
	store.Fail(memory.OpClose, "in0.yaml", stderrors.New("flush failed"))
	s, err := Open(context.Background(), store, codec.YAML{}, In, 2)
	if err != nil {
		t.Fatal(err)
	}

	err = s.CloseAll()
	if !errors.Is(err, errors.ErrCodeChannelIO) || !strings.Contains(err.Error(), "cannot close channels in: memory://") {
		t.Errorf("unexpected close error %v", err)
	}
	if ok, _ := store.Exists(context.Background(), "in1.yaml"); !ok {
		t.Error("remaining channels must still be closed after one fails")
	}
	if err := s.CloseAll(); err != nil {
		t.Errorf("second CloseAll must be a no-op, got %v", err)
	}

	var nilSet *Set
	if err := nilSet.CloseAll(); err != nil {
		t.Errorf("nil set CloseAll: %v", err)
	}
	if nilSet.Len() != 0 || nilSet.Names() != nil {
		t.Error("nil set has no channels")
	}
}

func TestZeroArity(t *testing.T) {
	store := memory.New()
	s, err := Open(context.Background(), store, codec.YAML{}, Out, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 || store.Creates() != 0 {
		t.Error("zero arity must create nothing")
	}
	if err := s.CloseAll(); err != nil {
		t.Fatal(err)
	}
}

func TestReadAllMissing(t *testing.T) {
	_, err := ReadAll(context.Background(), memory.New(), codec.YAML{}, In, 0)
	if !errors.Is(err, errors.ErrCodeDecodeFailed) {
		t.Errorf("expected DECODE_FAILED, got %v", err)
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection("out"); err != nil || d != Out {
		t.Errorf("got %v, %v", d, err)
	}
	if _, err := ParseDirection("sideways"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}
