// Package rope provides an immutable rope for document text.
//
// The rope is a B+ tree whose leaves hold bounded UTF-8 chunks and whose
// internal nodes cache a TextSummary (bytes, code points, newlines, UTF-16
// units) of their subtree. Every internal node's children share one height,
// so the tree stays balanced across edits.
//
// All offsets are code point offsets. Edits return new ropes and share
// unchanged subtrees with the original, which makes snapshots free and
// concurrent reads safe.
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")  // "hello, world"
//	r = r.Delete(0, 7)    // "world"
//	line := r.LineAt(3)   // 0
package rope
