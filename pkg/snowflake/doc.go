// Package snowflake provides a process-local generator of globally-orderable,
// collision-free 64-bit identifiers.
//
// # Format
//
// An ID packs, from most to least significant bit:
//
//	[1 unused][41 bits timestamp][10 bits node][12 bits sequence]
//
// The timestamp field counts milliseconds since the generator's epoch
// (DefaultEpoch unless overridden), giving roughly 69 years of range. The
// node field distinguishes concurrently-operating generators; the sequence
// field distinguishes IDs minted within the same millisecond.
//
// # Concurrency
//
// One Generator may be shared by any number of goroutines. The last
// committed (timestamp, sequence) pair lives in a single packed word advanced
// by compare-and-swap, so successful calls are totally ordered and no two
// ever commit the same pair. The hot path takes no locks and performs no
// allocation beyond the wall-clock query.
//
// # Failure modes
//
// Next returns ErrClockMovedBackwards when the wall clock reads behind the
// last committed timestamp, and ErrSequenceOverflow when more than 4096 IDs
// are demanded within one millisecond and the clock fails to advance within
// five seconds. Both are reported to the caller rather than recovered;
// system clock adjustments can therefore surface as spurious
// ErrClockMovedBackwards results, which is a known limitation of drawing
// from an absolute clock.
//
// Usage
//
//	g, err := snowflake.New(42)
//	if err != nil { ... }
//	id, err := g.Next()
//	ts, node, seq := snowflake.Parse(uint64(id))
package snowflake
