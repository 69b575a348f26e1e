// Package task runs document work off the caller's goroutine.
//
// Loading, saving and searching can take long enough on large files to
// stall an interactive caller, so they run as units: one goroutine each,
// reporting exactly one terminal Message on a channel.
//
// # Cancellation
//
// Every unit carries a Token created by the caller. The Coordinator
// cancels tokens on the caller's behalf when work becomes pointless:
//
//   - starting a unit of the same kind for the same document supersedes
//     the one in flight (a new search query replaces the old one)
//   - Activate cancels the units of the previously active document
//   - CancelDocument cancels the units of a closed document
//   - Close cancels everything and waits for the goroutines to exit
//
// Units poll their token between bounded windows of work, so cancellation
// takes effect promptly without interrupting a write midway.
//
// # Staleness
//
// A Message records the document version the unit started from. When the
// document changed in the meantime the message is marked Stale; it is
// still delivered and the caller decides whether to use it.
package task
