package rope

import (
	"fmt"
	"sync/atomic"
	"unicode/utf8"
)

// Chunk is a handle over a shared, heap-allocated run of bytes, the
// unit of structural sharing between ropes. The bytes are meant to be
// immutable once the chunk is shared; a rope extends a chunk in place
// only while it holds the sole handle.
//
// Go has no reference-counted pointer, so the share count is tracked
// explicitly. With no destructors, the count never goes back down:
// once shared, a chunk stays shared. That is safe — it only disables
// the in-place append fast path for that chunk.
type Chunk struct {
	d *chunkData
}

type chunkData struct {
	refs atomic.Int32
	buf  []byte
}

// NewChunk returns a chunk owning the given bytes. The caller must not
// use the slice afterwards.
func NewChunk(bytes []byte) Chunk {
	d := &chunkData{buf: bytes}
	d.refs.Store(1)
	return Chunk{d}
}

// Share registers another holder of the chunk and returns a handle for
// it. Every handle stored into a second rope (or kept by external
// code) must come from Share, otherwise the exclusivity check behind
// in-place appends breaks.
func (c Chunk) Share() Chunk {
	c.d.refs.Add(1)
	return c
}

// Bytes returns the chunk's content. Callers must not modify it.
func (c Chunk) Bytes() []byte {
	if c.d == nil {
		return nil
	}
	return c.d.buf
}

func (c Chunk) Len() int {
	if c.d == nil {
		return 0
	}
	return len(c.d.buf)
}

// exclusive reports whether this handle is the only one.
func (c Chunk) exclusive() bool {
	return c.d != nil && c.d.refs.Load() == 1
}

// extend appends bytes in place. Only valid while exclusive.
func (c Chunk) extend(p []byte) {
	c.d.buf = appendRaw(c.d.buf, p)
}

// String renders the chunk for diagnostics: Owned(...) or Shared(...)
// depending on the current holder count, with the content as text when
// it is valid UTF-8 and a byte-count placeholder otherwise.
func (c Chunk) String() string {
	state := "Owned"
	if c.d != nil && c.d.refs.Load() > 1 {
		state = "Shared"
	}
	b := c.Bytes()
	if utf8.Valid(b) {
		return fmt.Sprintf("%s(%q)", state, b)
	}
	return fmt.Sprintf("%s([%d bytes])", state, len(b))
}
