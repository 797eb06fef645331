package rope

import (
	"fmt"
	"strings"
)

// Dump renders the rope's internal structure for diagnostics: its
// form, total length, and each chunk's sharing state and content.
func (r *Rope) Dump() string {
	var buf strings.Builder
	if r.concat == nil {
		fmt.Fprintf(&buf, "Flat (%d bytes)\n", r.flat.Len())
		fmt.Fprintf(&buf, "  %s\n", r.flat)
	} else {
		fmt.Fprintf(&buf, "Concat (%d bytes, %d chunks)\n", r.length, len(r.concat))
		for i, c := range r.concat {
			fmt.Fprintf(&buf, "  %d: %s\n", i, c)
		}
	}
	return buf.String()
}
