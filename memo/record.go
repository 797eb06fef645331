package memo

import (
	"github.com/vmihailenco/msgpack/v5"
)

// record is the stored form of one artifact: the 64-bit content hash
// alongside the flattened content. The hash is persisted so that Put
// can decide "unchanged" on the stored side without rehashing.
type record struct {
	Hash    uint64 `msgpack:"h"`
	Content string `msgpack:"c"`
}

func encodeRecord(rec record) ([]byte, error) {
	return msgpack.Marshal(&rec)
}

func decodeRecord(key string, raw []byte) (record, error) {
	var rec record
	if err := msgpack.Unmarshal(raw, &rec); err != nil {
		return record{}, entryErrf(key, raw, err, "failed to decode record")
	}
	return rec, nil
}
