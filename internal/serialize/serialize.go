// Package serialize provides the snapshot codec used by the in-memory
// engine: MessagePack encoding compressed with ZStandard.
package serialize

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/chrono-lab/tsmeta/model"
)

// Snapshot is the serializable state of a storage engine: the database
// schemas it owns. Table data is not part of a snapshot.
type Snapshot struct {
	Databases []*model.DatabaseSchema `msgpack:"databases"`
}

// Encode serializes a snapshot to compressed bytes.
func Encode(s *Snapshot) ([]byte, error) {
	raw, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	defer enc.Close()

	return enc.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Decode deserializes a snapshot produced by Encode.
func Decode(data []byte) (*Snapshot, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	var s Snapshot
	if err := msgpack.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
