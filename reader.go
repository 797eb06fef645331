package rope

import (
	"fmt"
	"io"
)

// A Reader is a stateful cursor over a rope or a sub-range of it,
// yielding bytes in order across chunk boundaries. All content is
// memory-resident, so no read ever blocks; both the io.Reader contract
// and the non-blocking PollRead contract are thin adapters over the
// same cursor-advance primitive and agree exactly on byte accounting.
//
// A Reader must not outlive mutations of the rope it reads.
type Reader struct {
	rope       *Rope
	chunkIndex int
	bytePos    int // offset within the current chunk
	budget     int // bytes this reader is still allowed to produce
}

// NewReader returns a reader over the rope's entire content.
func (r *Rope) NewReader() *Reader {
	return &Reader{rope: r, budget: r.Len()}
}

// Slice returns a reader over the byte range [start, end). It panics
// if the range is out of bounds, matching slice-expression semantics.
func (r *Rope) Slice(start, end int) *Reader {
	if start < 0 || end < start || end > r.Len() {
		panic(fmt.Sprintf("rope: slice bounds out of range [%d:%d] with length %d", start, end, r.Len()))
	}
	rd := r.NewReader()
	rd.readInternal(start, nil) // discard the prefix
	rd.budget = end - start
	return rd
}

// readInternal is the cursor-advance primitive shared by every read
// contract. It produces up to want bytes into dst (or discards them if
// dst is nil), advancing across chunks, and returns the count actually
// produced. Per-iteration progress is bounded by the bytes left in the
// current chunk, the bytes still wanted, and the reader's budget; an
// iteration that copies zero bytes advances past an exhausted chunk,
// so empty chunks never cut a read short. Every iteration produces
// bytes or advances the chunk index, so the loop terminates.
func (rd *Reader) readInternal(want int, dst []byte) int {
	produced := 0
	for produced < want && rd.budget > 0 {
		chunk, ok := rd.currentChunk()
		if !ok {
			break
		}
		pos := rd.bytePos
		n := min(len(chunk)-pos, want-produced, rd.budget)
		if pos+n == len(chunk) {
			rd.bytePos = 0
			rd.chunkIndex++
		} else {
			rd.bytePos = pos + n
		}
		if dst != nil {
			copy(dst[produced:], chunk[pos:pos+n])
		}
		produced += n
		rd.budget -= n
	}
	return produced
}

func (rd *Reader) currentChunk() ([]byte, bool) {
	r := rd.rope
	if r.concat == nil {
		if rd.chunkIndex > 0 {
			return nil, false
		}
		return r.flat.Bytes(), true
	}
	if rd.chunkIndex >= len(r.concat) {
		return nil, false
	}
	return r.concat[rd.chunkIndex].Bytes(), true
}

var _ io.Reader = (*Reader)(nil)

// Read implements io.Reader. A short read signals that less data was
// available, not an error; io.EOF is returned only once the reader is
// exhausted.
func (rd *Reader) Read(p []byte) (int, error) {
	n := rd.readInternal(len(p), p)
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// PollRead is the non-blocking read contract: it fills p with whatever
// bytes are available right now (possibly zero at end of data) and
// reports whether the reader is exhausted. Because all content is in
// memory, a poll always completes on the first call — the contract
// exists for streaming consumers that poll, not because suspension is
// ever needed.
func (rd *Reader) PollRead(p []byte) (n int, done bool) {
	n = rd.readInternal(len(p), p)
	return n, rd.budget == 0
}

var _ io.WriterTo = (*Reader)(nil)

// WriteTo streams the reader's remaining range into w chunk by chunk,
// without flattening. A sink failure is propagated immediately and is
// not retried; the reader is left positioned after the bytes the sink
// accepted.
func (rd *Reader) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for rd.budget > 0 {
		chunk, ok := rd.currentChunk()
		if !ok {
			break
		}
		pos := rd.bytePos
		n := min(len(chunk)-pos, rd.budget)
		if n > 0 {
			written, err := w.Write(chunk[pos : pos+n])
			total += int64(written)
			rd.budget -= written
			if err != nil {
				rd.bytePos = pos + written
				return total, err
			}
			if written != n {
				rd.bytePos = pos + written
				return total, io.ErrShortWrite
			}
		}
		if pos+n == len(chunk) {
			rd.bytePos = 0
			rd.chunkIndex++
		} else {
			rd.bytePos = pos + n
		}
	}
	return total, nil
}
