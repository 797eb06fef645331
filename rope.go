package rope

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// ErrInvalidText is returned by Text when the rope's content is not
// valid UTF-8.
var ErrInvalidText = errors.New("rope content is not valid UTF-8")

// A Rope is the byte content of a file or of a dynamically assembled
// build artifact: either a single chunk (flat) or an ordered sequence
// of shared chunks with a cached total length (concat).
//
// The zero value is a valid empty rope. A rope is mutated only by
// Push, PushShared and Concat; chunk order is append order and is
// never rebalanced, and total length is always known without
// traversal.
type Rope struct {
	flat   Chunk   // the single chunk while concat == nil
	concat []Chunk // non-nil after the first merge; never demoted
	length int     // cached sum of chunk lengths, concat form only
}

// New returns a single-chunk rope owning the given bytes. The caller
// must not use the slice afterwards.
func New(bytes []byte) *Rope {
	return &Rope{flat: NewChunk(bytes)}
}

// FromString returns a single-chunk rope holding a copy of s.
func FromString(s string) *Rope {
	return New([]byte(s))
}

// FromBytes returns a single-chunk rope holding a copy of p.
func FromBytes(p []byte) *Rope {
	return New(append([]byte(nil), p...))
}

// materialize gives a zero-value rope its empty flat chunk, so that
// the chunk accounting below never deals with a missing handle.
func (r *Rope) materialize() {
	if r.concat == nil && r.flat.d == nil {
		r.flat = NewChunk(nil)
	}
}

func (r *Rope) lastChunk() Chunk {
	if r.concat != nil {
		return r.concat[len(r.concat)-1]
	}
	return r.flat
}

// Push appends an owned copy of the given bytes. When the rope's last
// chunk has no other holders it is extended in place; otherwise the
// bytes become a new chunk. The fast path is purely an optimization:
// it changes copy count, never content.
func (r *Rope) Push(p []byte) {
	if len(p) == 0 {
		return
	}
	r.materialize()
	if last := r.lastChunk(); last.exclusive() {
		last.extend(p)
		if r.concat != nil {
			r.length += len(p)
		}
		return
	}
	r.PushShared(NewChunk(append([]byte(nil), p...)))
}

// PushShared appends a chunk handle without copying or inspecting its
// bytes. The rope takes ownership of the handle; to keep using the
// chunk elsewhere, pass c.Share() instead.
func (r *Rope) PushShared(c Chunk) {
	if r.concat != nil {
		r.length += c.Len()
		r.concat = append(r.concat, c)
		return
	}
	r.materialize()
	r.length = r.flat.Len() + c.Len()
	r.concat = []Chunk{r.flat, c}
	r.flat = Chunk{}
}

// Concat appends the other rope's content to the receiver, sharing
// every chunk. Byte content is never copied, only handles.
func (r *Rope) Concat(other *Rope) {
	r.materialize()
	if other.concat == nil {
		other.materialize()
		r.PushShared(other.flat.Share())
		return
	}
	if r.concat == nil {
		chunks := make([]Chunk, 0, len(other.concat)+1)
		chunks = append(chunks, r.flat)
		length := r.flat.Len() + other.length
		for _, c := range other.concat {
			chunks = append(chunks, c.Share())
		}
		r.concat, r.length = chunks, length
		r.flat = Chunk{}
		return
	}
	r.length += other.length
	for _, c := range other.concat {
		r.concat = append(r.concat, c.Share())
	}
}

// Len returns the total byte length, always in O(1).
func (r *Rope) Len() int {
	if r.concat != nil {
		return r.length
	}
	return r.flat.Len()
}

func (r *Rope) IsEmpty() bool {
	return r.Len() == 0
}

// Bytes returns the flattened content. A flat rope returns its chunk's
// bytes without copying (callers must not modify them); a concat rope
// allocates a contiguous buffer and copies each chunk in order. This
// is the only operation whose cost is proportional to total size.
func (r *Rope) Bytes() []byte {
	if r.concat == nil {
		return r.flat.Bytes()
	}
	buf := make([]byte, 0, r.length)
	for _, c := range r.concat {
		buf = appendRaw(buf, c.Bytes())
	}
	return buf
}

// Text returns the flattened content as a string, or ErrInvalidText if
// it is not valid UTF-8.
func (r *Rope) Text() (string, error) {
	b := r.Bytes()
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w (%d bytes)", ErrInvalidText, len(b))
	}
	return string(b), nil
}

var _ io.Writer = (*Rope)(nil)

// Write appends an owned copy of p, making the rope usable as a
// generic byte sink. It never fails.
func (r *Rope) Write(p []byte) (int, error) {
	r.Push(p)
	return len(p), nil
}

// ContentHash returns the fast 64-bit xxhash of the flattened content.
// The hash is fed chunk by chunk, so ropes with identical content but
// different chunk layouts hash identically.
func (r *Rope) ContentHash() uint64 {
	d := xxhash.New()
	if r.concat == nil {
		_, _ = d.Write(r.flat.Bytes())
	} else {
		for _, c := range r.concat {
			_, _ = d.Write(c.Bytes())
		}
	}
	return d.Sum64()
}

// Equal reports content equality regardless of chunk structure: the
// lengths must match and the 64-bit content hashes must match. There
// is no confirming byte comparison; a hash collision between
// equal-length ropes would be treated as equality. That risk is
// accepted for speed — this check runs on every memoized artifact
// comparison.
func (r *Rope) Equal(other *Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	return r.ContentHash() == other.ContentHash()
}
