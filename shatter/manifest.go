package shatter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/antigravity-labs/securecore"
)

// manifestVersion is the only version this package writes. Read supports
// both JSON integer (3) and float (3.0) spellings on the wire but accepts
// no value besides exactly "3".
const manifestVersion = 3

// ChunkEntry describes one on-disk chunk: its position in the original
// file, its identity, its wrapped key, and the plaintext hash used as a
// second integrity check alongside the AEAD tag.
type ChunkEntry struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Key      string `json:"key"`  // base64 of nonce‖AEAD_ct(chunk_key)‖tag
	Hash     string `json:"hash"` // hex SHA-256 of plaintext chunk
}

// Manifest is the plaintext JSON body of a shatter manifest, before it is
// serialised and sealed under the master key.
type Manifest struct {
	Version          json.Number  `json:"version"`
	OriginalFilename string       `json:"original_filename"`
	OriginalSize     int64        `json:"original_size"`
	ChunkSize        int64        `json:"chunk_size"`
	Chunks           []ChunkEntry `json:"chunks"`
}

func newManifest(originalFilename string, originalSize, chunkSize int64) *Manifest {
	return &Manifest{
		Version:          json.Number(fmt.Sprintf("%d", manifestVersion)),
		OriginalFilename: originalFilename,
		OriginalSize:     originalSize,
		ChunkSize:        chunkSize,
		Chunks:           make([]ChunkEntry, 0),
	}
}

func (m *Manifest) marshal() ([]byte, error) {
	return json.Marshal(m)
}

// parseManifest decodes and validates manifest JSON bytes, rejecting any
// version other than 3 / 3.0 and any chunk entry missing an id (the legacy
// v2.5 shape this format superseded).
func parseManifest(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, securecore.NewFormatError("", "manifest JSON malformed", err)
	}

	v, err := m.Version.Float64()
	if err != nil || (v != 3 && v != 3.0) {
		return nil, securecore.NewFormatError("", fmt.Sprintf("unsupported manifest version %q", m.Version.String()), nil)
	}

	for _, c := range m.Chunks {
		if c.ID == "" {
			return nil, securecore.NewFormatError("", "manifest v3 incompatible: chunk entry missing id", nil)
		}
	}

	return &m, nil
}
