package snowflake

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func restoreClock() { NowMs = func() int64 { return time.Now().UnixMilli() } }

func TestNodeRangeValidation(t *testing.T) {
	tests := []struct {
		name    string
		node    uint16
		wantErr error
	}{
		{name: "node zero", node: 0, wantErr: nil},
		{name: "max node", node: 1023, wantErr: nil},
		{name: "node out of range", node: 1024, wantErr: ErrMachineIDOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.node)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New(%d) err = %v, want %v", tt.node, err, tt.wantErr)
			}
			if tt.wantErr == nil && g.NodeID() != tt.node {
				t.Fatalf("NodeID = %d, want %d", g.NodeID(), tt.node)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	g, err := New(42)
	require.NoError(t, err)

	before := time.Now().UnixMilli()
	id, err := g.Next()
	require.NoError(t, err)
	after := time.Now().UnixMilli()

	ts, node, seq := Parse(uint64(id))
	require.Equal(t, uint16(42), node)
	require.Zero(t, seq)

	abs := int64(ts) + g.EpochMs()
	require.GreaterOrEqual(t, abs, before)
	require.LessOrEqual(t, abs, after)
}

func TestParseBoundaryPatterns(t *testing.T) {
	maxTs := uint64(1<<TimestampBits) - 1
	id := maxTs<<TimestampShift | uint64(NodeMax)<<NodeShift | uint64(StepMax)

	ts, node, seq := Parse(id)
	require.Equal(t, maxTs, ts)
	require.Equal(t, uint16(NodeMax), node)
	require.Equal(t, uint16(StepMax), seq)

	require.Equal(t, maxTs, ID(id).Timestamp())
	require.Equal(t, uint16(NodeMax), ID(id).Node())
	require.Equal(t, uint16(StepMax), ID(id).Sequence())
}

func TestIDStringRoundTrip(t *testing.T) {
	g, err := New(7)
	require.NoError(t, err)
	id, err := g.Next()
	require.NoError(t, err)

	back, err := ParseString(id.String())
	require.NoError(t, err)
	require.Equal(t, id, back)
}

func TestSameMillisecondIncrementsSequence(t *testing.T) {
	g, err := NewWithEpoch(1, 0)
	require.NoError(t, err)
	NowMs = func() int64 { return 1000 }
	defer restoreClock()

	a, err := g.Next()
	require.NoError(t, err)
	b, err := g.Next()
	require.NoError(t, err)

	require.Equal(t, uint64(1000), a.Timestamp())
	require.Equal(t, uint64(1000), b.Timestamp())
	require.Equal(t, uint16(0), a.Sequence())
	require.Equal(t, uint16(1), b.Sequence())
	require.Less(t, uint64(a), uint64(b))
}

func TestClockRegressionFails(t *testing.T) {
	g, err := NewWithEpoch(1, 0)
	require.NoError(t, err)
	ms := int64(5000)
	NowMs = func() int64 { return ms }
	defer restoreClock()

	_, err = g.Next()
	require.NoError(t, err)

	ms = 4000
	_, err = g.Next()
	require.ErrorIs(t, err, ErrClockMovedBackwards)
}

func TestSequenceWraparoundAdvancesMillisecond(t *testing.T) {
	g, err := NewWithEpoch(1, 0)
	require.NoError(t, err)
	var ms atomic.Int64
	ms.Store(3000)
	NowMs = func() int64 { return ms.Load() }
	defer restoreClock()

	// Drain the full sequence space of one millisecond.
	for i := 0; i <= StepMax; i++ {
		id, err := g.Next()
		require.NoError(t, err)
		require.Equal(t, uint64(3000), id.Timestamp())
		require.Equal(t, uint16(i), id.Sequence())
	}

	// The next call must wait for the clock to pass 3000.
	time.AfterFunc(10*time.Millisecond, func() { ms.Store(3001) })
	id, err := g.Next()
	require.NoError(t, err)
	require.Equal(t, uint64(3001), id.Timestamp())
	require.Equal(t, uint16(0), id.Sequence())
}

func TestEpochOffsetsTimestamp(t *testing.T) {
	g, err := NewWithEpoch(3, 1000)
	require.NoError(t, err)
	NowMs = func() int64 { return 1500 }
	defer restoreClock()

	id, err := g.Next()
	require.NoError(t, err)
	require.Equal(t, uint64(500), id.Timestamp())
	require.Equal(t, int64(1500), id.Time(g.EpochMs()).UnixMilli())
}
