package memo

import (
	"fmt"
)

// EntryError reports a cache entry that could not be decoded. The raw
// data is included (truncated) to aid debugging corrupted caches; the
// entry is never silently repaired or dropped.
type EntryError struct {
	Key  string
	Data []byte
	Err  error
	Msg  string
}

func entryErrf(key string, data []byte, err error, format string, args ...any) error {
	return &EntryError{key, data, err, fmt.Sprintf(format, args...)}
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

func (e *EntryError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("memo entry %q: %s: %v: (%d) %x", e.Key, e.Msg, e.Err, n, e.Data)
		} else {
			return fmt.Sprintf("memo entry %q: %s: (%d) %x", e.Key, e.Msg, n, e.Data)
		}
	} else {
		p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
		if e.Err != nil {
			return fmt.Sprintf("memo entry %q: %s: %v: (%d) %x...%x", e.Key, e.Msg, e.Err, n, p, s)
		} else {
			return fmt.Sprintf("memo entry %q: %s: (%d) %x...%x", e.Key, e.Msg, n, p, s)
		}
	}
}
