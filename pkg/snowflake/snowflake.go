package snowflake

import (
	"errors"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

// Bit allocation within a 64-bit ID, most significant to least:
// [1 unused][41 timestamp][10 node][12 sequence].
const (
	TimestampBits = 41
	NodeBits      = 10
	StepBits      = 12

	// NodeMax and StepMax are the largest encodable node id and
	// per-millisecond sequence value.
	NodeMax = (1 << NodeBits) - 1
	StepMax = (1 << StepBits) - 1

	TimestampShift = NodeBits + StepBits
	NodeShift      = StepBits
)

// DefaultEpoch is 2021-01-01T00:00:00Z in milliseconds since the Unix epoch.
// It is subtracted from wall-clock time before encoding, which gives the
// 41-bit timestamp field roughly 69 years of range.
const DefaultEpoch int64 = 1609459200000

// maxSequenceWait bounds the busy-wait for the next millisecond when the
// sequence space of the current millisecond is exhausted.
const maxSequenceWait = 5000 * time.Millisecond

var (
	// ErrMachineIDOutOfRange is returned by New when node exceeds NodeMax.
	ErrMachineIDOutOfRange = errors.New("snowflake: machine id out of range")

	// ErrClockMovedBackwards is returned by Next when the wall clock reads
	// behind the last committed timestamp. The condition may be transient
	// (NTP correction, or a racing commit by another goroutine); the caller
	// decides whether to retry.
	ErrClockMovedBackwards = errors.New("snowflake: clock moved backwards")

	// ErrSequenceOverflow is returned by Next when the wait for the next
	// millisecond exceeds its deadline, indicating sustained load past
	// 4096 ids/ms on one generator or a stalled clock source.
	ErrSequenceOverflow = errors.New("snowflake: sequence overflow")
)

// NowMs returns the current wall-clock time in milliseconds since the Unix
// epoch. It is a variable so tests can drive the clock deterministically.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// Generator produces collision-free, time-ordered 64-bit IDs. A single
// instance is safe for concurrent use by any number of goroutines.
//
// The only mutable state is a packed (lastTimestampMs<<12)|lastSequence
// register advanced by compare-and-swap. Keeping timestamp and sequence in
// one word is what makes the generator lock-free: two independent atomics
// would let a sequence reset race a timestamp advance and mint duplicates.
type Generator struct {
	node    int64
	epochMs int64
	state   atomic.Int64
}

// New creates a Generator for the given node id using DefaultEpoch.
func New(node uint16) (*Generator, error) {
	return NewWithEpoch(node, DefaultEpoch)
}

// NewWithEpoch creates a Generator with a custom epoch in milliseconds since
// the Unix epoch. It returns ErrMachineIDOutOfRange when node exceeds NodeMax.
func NewWithEpoch(node uint16, epochMs int64) (*Generator, error) {
	if node > NodeMax {
		return nil, ErrMachineIDOutOfRange
	}
	return &Generator{node: int64(node), epochMs: epochMs}, nil
}

// NodeID returns the node id this generator encodes into every ID.
func (g *Generator) NodeID() uint16 { return uint16(g.node) }

// EpochMs returns the epoch this generator subtracts before encoding.
func (g *Generator) EpochMs() int64 { return g.epochMs }

// Next mints one ID.
//
// The loop observes the packed register, derives the next (timestamp,
// sequence) pair, and commits it with a single compare-and-swap. A failed
// swap means another goroutine advanced the register first; the loop restarts
// from the freshly observed value without re-reading the wall clock. Each
// failed attempt sees strictly newer state, so retries are bounded by the
// number of contending goroutines.
func (g *Generator) Next() (ID, error) {
	now := NowMs()
	last := g.state.Load()
	for {
		lastTs, lastSeq := unpackState(last)
		if now < lastTs {
			return 0, ErrClockMovedBackwards
		}
		var newTs, newSeq int64
		if now == lastTs {
			newSeq = (lastSeq + 1) & StepMax
			if newSeq == 0 {
				// Sequence space for this millisecond is spent; the new
				// state must land on a strictly later millisecond.
				ts, err := g.waitNextMillis(lastTs)
				if err != nil {
					return 0, err
				}
				newTs = ts
			} else {
				newTs = lastTs
			}
		} else {
			newTs, newSeq = now, 0
		}
		if g.state.CompareAndSwap(last, packState(newTs, newSeq)) {
			return g.makeID(newTs, newSeq), nil
		}
		last = g.state.Load()
	}
}

// waitNextMillis polls the clock until it passes lastTs, yielding the
// processor between polls. It gives up with ErrSequenceOverflow once
// maxSequenceWait elapses without the clock advancing.
func (g *Generator) waitNextMillis(lastTs int64) (int64, error) {
	deadline := time.Now().Add(maxSequenceWait)
	for {
		now := NowMs()
		if now > lastTs {
			return now, nil
		}
		if time.Now().After(deadline) {
			return 0, ErrSequenceOverflow
		}
		runtime.Gosched()
	}
}

func (g *Generator) makeID(timestampMs, sequence int64) ID {
	return ID(uint64(timestampMs-g.epochMs)<<TimestampShift |
		uint64(g.node)<<NodeShift |
		uint64(sequence))
}

// packState combines a millisecond timestamp and a sequence into the single
// word the generator swaps atomically.
func packState(timestampMs, sequence int64) int64 {
	return timestampMs<<StepBits | sequence
}

func unpackState(state int64) (timestampMs, sequence int64) {
	return state >> StepBits, state & StepMax
}

// Parse extracts the three fields of an ID. The returned timestamp is the
// raw 41-bit value, relative to the epoch of the generator that minted the
// ID; add that epoch back to recover an absolute wall-clock millisecond.
func Parse(id uint64) (timestamp uint64, node uint16, sequence uint16) {
	timestamp = (id >> TimestampShift) & ((1 << TimestampBits) - 1)
	node = uint16((id >> NodeShift) & NodeMax)
	sequence = uint16(id & StepMax)
	return timestamp, node, sequence
}

// ID is a minted snowflake identifier.
type ID uint64

// Timestamp returns the embedded epoch-relative millisecond timestamp.
func (i ID) Timestamp() uint64 { ts, _, _ := Parse(uint64(i)); return ts }

// Node returns the embedded node id.
func (i ID) Node() uint16 { _, n, _ := Parse(uint64(i)); return n }

// Sequence returns the embedded per-millisecond sequence.
func (i ID) Sequence() uint16 { _, _, s := Parse(uint64(i)); return s }

// Time resolves the ID's timestamp against the minting generator's epoch.
func (i ID) Time(epochMs int64) time.Time {
	return time.UnixMilli(int64(i.Timestamp()) + epochMs)
}

// String returns the ID in decimal.
func (i ID) String() string { return strconv.FormatUint(uint64(i), 10) }

// ParseString parses a decimal ID string as produced by String.
func ParseString(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(v), nil
}
