package rope

import (
	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = (*Rope)(nil)
	_ msgpack.CustomDecoder = (*Rope)(nil)
)

// EncodeMsgpack serializes the rope as its flattened content only.
// Chunk boundaries and sharing never survive the wire: a freshly
// decoded rope is the sole owner of its bytes by construction, so
// there is nothing worth reconstructing.
func (r *Rope) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(string(r.Bytes()))
}

// DecodeMsgpack replaces the rope with a fresh single-chunk rope
// holding the decoded content.
func (r *Rope) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	*r = Rope{flat: NewChunk([]byte(s))}
	return nil
}
