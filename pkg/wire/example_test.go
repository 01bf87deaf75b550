package wire_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dapwire/dapwire/pkg/wire"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ExampleEncoder_Encode() {
	var buf bytes.Buffer
	enc := wire.NewEncoder(wire.WriterFunc(&buf))

	enc.Encode(map[string]any{"seq": 1})

	fmt.Printf("%q\n", buf.String())
	// Output: "Content-Length: 9\r\n\r\n{\"seq\":1}"
}

func ExampleEncoder_EncodeRaw() {
	var buf bytes.Buffer
	enc := wire.NewEncoder(wire.WriterFunc(&buf))

	enc.EncodeRaw(json.RawMessage(`{"ok": true}`))

	fmt.Printf("%q\n", buf.String())
	// Output: "Content-Length: 12\r\n\r\n{\"ok\": true}"
}

func ExampleDecoder_Decode() {
	stream := "Content-Length: 12\r\n\r\n{\"ok\": true}" +
		"Content-Length: 5\r\n\r\nfalse"
	dec := wire.NewDecoder(wire.ReaderFunc(strings.NewReader(stream)))

	for {
		msg, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			panic(err)
		}
		fmt.Println(msg)
	}
	// Output:
	// map[ok:true]
	// false
}

func ExampleMaxHeaderBytes() {
	// A peer that never sends a usable header block trips the cap.
	junk := strings.Repeat("X-Noise: 1\r\n\r\n", 100)
	dec := wire.NewDecoder(
		wire.ReaderFunc(strings.NewReader(junk)),
		wire.MaxHeaderBytes(64),
		wire.WithLogger(discard()),
	)

	_, err := dec.Decode()
	fmt.Println(err)
	// Output: wire: header block exceeds maximum size
}
