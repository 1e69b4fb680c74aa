package pipeline

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/tmdlayout/pkg/layout"
)

// Encode serializes doc in every requested format.
func Encode(doc *layout.Document, formats []layout.Format) (map[layout.Format][]byte, error) {
	out := make(map[layout.Format][]byte, len(formats))
	for _, f := range formats {
		var buf bytes.Buffer
		if err := layout.Write(&buf, doc, f); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f, err)
		}
		out[f] = buf.Bytes()
	}
	return out, nil
}

// marshalDocument encodes doc for the cache. The json tags name the fields
// so cached entries stay readable by msgpack tooling.
func marshalDocument(doc *layout.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshalDocument(data []byte) (*layout.Document, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	var doc layout.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc.Version != layout.Version {
		return nil, fmt.Errorf("cached document version %d", doc.Version)
	}
	return &doc, nil
}
