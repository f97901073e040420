// Package snapshot is the outbound-state boundary of the engine: it encodes
// round snapshots after every action and hands them to pluggable sinks for
// the external logger, replayer, and UI layers. It holds no game-rule logic.
package snapshot

import (
	"context"
	"sync"

	"github.com/goccy/go-json"

	"github.com/davidh38/doppelkopf-trainv2/pkg/doppelkopf"
)

// Envelope wraps one round snapshot with its table identity and sequence
// number. Seq is strictly increasing per table, so readers can order and
// deduplicate.
type Envelope struct {
	TableID string            `json:"tableId"`
	RoundID string            `json:"roundId"`
	Seq     int64             `json:"seq"`
	TakenAt int64             `json:"takenAt"`
	Round   *doppelkopf.Round `json:"round"`
}

// Encode serializes an envelope.
func Encode(env *Envelope) ([]byte, error) {
	return json.Marshal(env)
}

// Decode deserializes an envelope.
func Decode(data []byte) (*Envelope, error) {
	env := new(Envelope)
	if err := json.Unmarshal(data, env); err != nil {
		return nil, err
	}
	return env, nil
}

// Sink receives encoded snapshots. Implementations must be safe for
// concurrent use; the table layer may fan out writes from multiple
// goroutines.
type Sink interface {
	Write(ctx context.Context, tableID string, data []byte) error
}

// MemorySink keeps snapshots in memory, in write order per table. Used by
// tests and in-process consumers.
type MemorySink struct {
	mu      sync.RWMutex
	byTable map[string][][]byte
}

func NewMemorySink() *MemorySink {
	return &MemorySink{byTable: make(map[string][][]byte)}
}

func (m *MemorySink) Write(_ context.Context, tableID string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.byTable[tableID] = append(m.byTable[tableID], buf)
	return nil
}

// Snapshots returns every snapshot written for the table, oldest first.
func (m *MemorySink) Snapshots(tableID string) [][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]byte, len(m.byTable[tableID]))
	copy(out, m.byTable[tableID])
	return out
}

// Len returns the number of snapshots written for the table.
func (m *MemorySink) Len(tableID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byTable[tableID])
}
