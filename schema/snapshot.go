package schema

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/zkurtz/pandahandler/frames"
)

const snapshotVersion = 1

type snapshot struct {
	Version   int                 `msgpack:"version"`
	Columns   []columnSnapshot    `msgpack:"columns"`
	Encodings map[string][]string `msgpack:"encodings,omitempty"`
}

type columnSnapshot struct {
	Name  string       `msgpack:"name"`
	DType frames.DType `msgpack:"dtype"`
}

// MarshalBinary encodes the schema as zstd-compressed MessagePack.
func (s *Schema) MarshalBinary() ([]byte, error) {
	snap := snapshot{
		Version:   snapshotVersion,
		Columns:   make([]columnSnapshot, len(s.columnTypes)),
		Encodings: s.encodings,
	}
	for k, col := range s.columnTypes {
		snap.Columns[k] = columnSnapshot{Name: col.Name, DType: col.DType}
	}
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// UnmarshalBinary decodes a schema written by MarshalBinary, replacing the receiver.
// The decoded schema is validated as by New.
func (s *Schema) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty schema data")
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer decoder.Close()
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("failed to decompress schema: %w", err)
	}
	var snap snapshot
	if err := msgpack.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("failed to decode schema: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported schema version %d", snap.Version)
	}
	columnTypes := make([]frames.ColumnType, len(snap.Columns))
	for k, col := range snap.Columns {
		columnTypes[k] = frames.ColumnType{Name: col.Name, DType: col.DType}
	}
	decoded, err := New(columnTypes, snap.Encodings)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}
