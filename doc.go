/*
Package rope implements a content buffer for incremental build pipelines:
a rope-like sequence of shared, append-oriented byte chunks.

We implement:

1. Cheap appends and concatenations that share chunks instead of copying
byte content, so many independent computations can assemble and reuse
the same underlying bytes.

2. An ownership-aware append: when the last chunk is exclusively held,
appended bytes extend it in place; otherwise a new chunk is added. This
only affects copy count, never observable content.

3. Structure-insensitive equality and hashing: two ropes holding the
same bytes compare equal and hash identically no matter how the bytes
are split into chunks. Equality is length plus a fast 64-bit content
hash (xxhash), without a confirming byte comparison — a deliberate,
documented trade of an astronomically small false-positive chance for
speed. This contract is the sole surface a memoization layer needs to
recognize a recomputed artifact as unchanged.

4. Readers over a rope or a sub-range of it, streaming bytes in order
across chunk boundaries, with both a blocking-style pull contract and a
non-blocking poll contract over the same cursor state.

# Serialization

A rope always serializes (msgpack) as its flattened content.
Deserialization yields a fresh single-chunk rope: a freshly decoded
rope is the sole owner of its bytes, so there is no sharing worth
reconstructing.

# Concurrency

The type carries no internal synchronization. Concurrent mutation of
the same rope requires external locking. The in-place append is safe
under sharing because it only fires while the acting rope holds the
only reference to the target chunk; once a chunk is shared, mutation
falls back to adding a new chunk.
*/
package rope
