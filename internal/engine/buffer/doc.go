// Package buffer provides the text store used by a document: a thread-safe
// wrapper over an immutable rope that validates every position it is given.
//
// All positions are character (code point) offsets. An offset outside
// [0, Len()], a range whose start is after its end, a missing line or a
// column past the end of its line fails with a coreerr OutOfRange error;
// nothing is clamped. Text that is not valid UTF-8 fails with
// InvalidOperation.
//
//	buf, _ := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "Beautiful ")           // "Hello, Beautiful World!"
//	buf.Delete(buffer.NewRange(0, 7))     // "Beautiful World!"
//
//	snap := buf.Snapshot()
//	go func() {
//	    n := snap.LineCount()
//	    // ...
//	}()
//
// Every mutation installs a new rope in a single assignment, so a reader
// never sees updated text with a stale line index. Snapshots are values
// that share structure with the buffer and stay valid forever.
package buffer
