package rope

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestMsgpack_RoundTrip(t *testing.T) {
	cases := []func() *Rope{
		func() *Rope { return New(nil) },
		func() *Rope { return FromString("hello") },
		func() *Rope {
			r := FromString("hello ")
			r.PushShared(NewChunk([]byte("world")))
			r.Concat(FromString("!"))
			return r
		},
		func() *Rope { return New([]byte{0x00, 0xFF, 0xFE}) }, // not UTF-8
	}
	for _, mk := range cases {
		orig := mk()
		raw := must(msgpack.Marshal(orig))

		var decoded Rope
		if err := msgpack.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if got, want := string(decoded.Bytes()), string(orig.Bytes()); got != want {
			t.Fatalf("round trip = %q, wanted %q", got, want)
		}
		if !decoded.Equal(orig) {
			t.Fatalf("round-tripped rope compares unequal to original:\n%s%s", orig.Dump(), decoded.Dump())
		}
	}
}

func TestMsgpack_DecodeYieldsSingleChunk(t *testing.T) {
	orig := buildChunky("a", "b", "c")
	raw := must(msgpack.Marshal(orig))

	var decoded Rope
	if err := msgpack.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if n := chunkCount(&decoded); n != 1 {
		t.Fatalf("decoded chunk count = %d, wanted 1 (sharing must not survive the wire)", n)
	}
	if !decoded.lastChunk().exclusive() {
		t.Fatalf("decoded rope is not the sole owner of its bytes")
	}
}

func TestMsgpack_FieldEncoding(t *testing.T) {
	// Ropes embedded in larger records must serialize as plain
	// strings.
	type artifact struct {
		Name    string `msgpack:"n"`
		Content *Rope  `msgpack:"c"`
	}

	orig := artifact{Name: "main.js", Content: FromString("console.log(1)")}
	raw := must(msgpack.Marshal(&orig))

	var plain struct {
		Name    string `msgpack:"n"`
		Content string `msgpack:"c"`
	}
	if err := msgpack.Unmarshal(raw, &plain); err != nil {
		t.Fatalf("Unmarshal into plain struct failed: %v", err)
	}
	if plain.Content != "console.log(1)" {
		t.Fatalf("Content = %q, wanted %q", plain.Content, "console.log(1)")
	}

	var decoded artifact
	if err := msgpack.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !decoded.Content.Equal(orig.Content) {
		t.Fatalf("Content = %q, wanted %q", decoded.Content.Bytes(), orig.Content.Bytes())
	}
}
