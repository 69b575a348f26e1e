// Package cursor provides the selection model of a document.
//
// A Selection is an anchor/active pair of character offsets. When the two
// are equal the selection is a caret. The active end moves while extending
// a selection and is where typing occurs; the anchor stays put:
//
//	sel := cursor.Caret(10)   // caret at 10
//	sel = sel.Extend(20)      // selects [10, 20)
//	sel = sel.Collapse()      // caret at 20
//
// Selections are validated against the text length with Validate, which
// reports an OutOfRange error. Clamp exists for the single case where a
// document's text is replaced wholesale.
package cursor
