package cart

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotVersion is the current wire version of serialized carts
const SnapshotVersion = 1

// Snapshot is the serialized form of a cart, written to the key-value store
// after each mutation and read back to rehydrate a session.
type Snapshot struct {
	Version    int       `json:"version"`
	Lines      []Line    `json:"lines"`
	Total      int64     `json:"total"`
	CapturedAt time.Time `json:"captured_at"`
}

// EncodeSnapshot serializes the cart state at the given instant
func EncodeSnapshot(c *Cart, now time.Time) ([]byte, error) {
	snap := Snapshot{
		Version:    SnapshotVersion,
		Lines:      c.Lines(),
		Total:      c.Total(),
		CapturedAt: now.UTC(),
	}
	return json.Marshal(snap)
}

// DecodeSnapshot rebuilds a cart from serialized state. Snapshots with an
// unknown version are rejected; callers fall back to an empty cart.
func DecodeSnapshot(data []byte) (*Cart, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}

	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported cart snapshot version: %d", snap.Version)
	}

	return &Cart{lines: snap.Lines}, nil
}
