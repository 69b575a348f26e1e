package rope

import "strings"

// Tree structure constants
const (
	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node is a node of the rope B+ tree.
// Leaf nodes (height == 0) hold chunks; internal nodes hold children that
// all share the height height-1. Nodes are never modified once built, so
// any number of ropes may share them.
type Node struct {
	height  uint8
	summary TextSummary

	children []*Node // internal nodes
	chunks   []Chunk // leaf nodes
}

// newLeafNode creates a leaf that takes ownership of chunks.
func newLeafNode(chunks []Chunk) *Node {
	n := &Node{chunks: chunks, summary: TextSummary{Flags: FlagASCII}}
	for _, c := range chunks {
		n.summary = n.summary.Add(c.Summary())
	}
	return n
}

// newInternalNode creates an internal node that takes ownership of children.
func newInternalNode(children []*Node) *Node {
	n := &Node{
		height:   children[0].height + 1,
		children: children,
		summary:  TextSummary{Flags: FlagASCII},
	}
	for _, child := range children {
		n.summary = n.summary.Add(child.summary)
	}
	return n
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Chars returns the number of code points in this subtree.
func (n *Node) Chars() int {
	return n.summary.Chars
}

// appendTo appends all text in this subtree to the builder.
func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, c := range n.chunks {
			sb.WriteString(c.String())
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange appends the text between character offsets start and end.
func (n *Node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}
	if start == 0 && end >= n.summary.Chars {
		n.appendTo(sb)
		return
	}

	acc := 0
	if n.IsLeaf() {
		for _, c := range n.chunks {
			cEnd := acc + c.Chars()
			if cEnd > start && acc < end {
				sb.WriteString(c.Slice(max(start-acc, 0), min(end, cEnd)-acc))
			}
			if cEnd >= end {
				return
			}
			acc = cEnd
		}
		return
	}

	for _, child := range n.children {
		cEnd := acc + child.Chars()
		if cEnd > start && acc < end {
			child.appendRange(sb, max(start-acc, 0), min(end, cEnd)-acc)
		}
		if cEnd >= end {
			return
		}
		acc = cEnd
	}
}

// runeAt returns the code point at a character offset inside the subtree.
func (n *Node) runeAt(offset int) rune {
	for !n.IsLeaf() {
		next := n.children[len(n.children)-1]
		for _, child := range n.children {
			if offset < child.Chars() {
				next = child
				break
			}
			offset -= child.Chars()
		}
		n = next
	}
	for _, c := range n.chunks {
		if offset < c.Chars() {
			s := c.Slice(offset, offset+1)
			for _, r := range s {
				return r
			}
		}
		offset -= c.Chars()
	}
	return 0
}

// newlinesBefore counts '\n' characters in [0, offset).
func (n *Node) newlinesBefore(offset int) int {
	lines := 0
	for !n.IsLeaf() {
		next := n.children[len(n.children)-1]
		for _, child := range n.children {
			if offset <= child.Chars() {
				next = child
				break
			}
			offset -= child.Chars()
			lines += child.summary.Lines
		}
		n = next
	}
	for _, c := range n.chunks {
		if offset <= c.Chars() {
			return lines + countNewlines(c.Slice(0, offset))
		}
		offset -= c.Chars()
		lines += c.Summary().Lines
	}
	return lines
}

// offsetAfterNewline returns the character offset just past the k-th
// (1-based) newline of the subtree. k must be in [1, summary.Lines].
func (n *Node) offsetAfterNewline(k int) int {
	acc := 0
	for !n.IsLeaf() {
		next := n.children[len(n.children)-1]
		for _, child := range n.children {
			if child.summary.Lines >= k {
				next = child
				break
			}
			k -= child.summary.Lines
			acc += child.Chars()
		}
		n = next
	}
	for _, c := range n.chunks {
		if c.Summary().Lines >= k {
			return acc + nthNewline(c.String(), k)
		}
		k -= c.Summary().Lines
		acc += c.Chars()
	}
	return acc
}

// byteOffset converts a character offset to a UTF-8 byte offset.
func (n *Node) byteOffset(offset int) int {
	bytes := 0
	for !n.IsLeaf() {
		next := n.children[len(n.children)-1]
		for _, child := range n.children {
			if offset <= child.Chars() {
				next = child
				break
			}
			offset -= child.Chars()
			bytes += child.summary.Bytes
		}
		n = next
	}
	for _, c := range n.chunks {
		if offset <= c.Chars() {
			return bytes + c.byteIndex(offset)
		}
		offset -= c.Chars()
		bytes += c.Len()
	}
	return bytes
}

// split splits a subtree at a character offset. Either result may be nil
// when it would be empty.
func split(n *Node, at int) (*Node, *Node) {
	if n == nil {
		return nil, nil
	}
	if at <= 0 {
		return nil, n
	}
	if at >= n.Chars() {
		return n, nil
	}
	if n.IsLeaf() {
		return splitLeaf(n, at)
	}

	acc := 0
	for i, child := range n.children {
		cEnd := acc + child.Chars()
		if at == acc {
			return wrap(n.children[:i]), wrap(n.children[i:])
		}
		if at < cEnd {
			l, r := split(child, at-acc)
			return join(wrap(n.children[:i]), l), join(r, wrap(n.children[i+1:]))
		}
		acc = cEnd
	}
	return n, nil
}

// splitLeaf splits a leaf node at a character offset.
func splitLeaf(n *Node, at int) (*Node, *Node) {
	left := make([]Chunk, 0, len(n.chunks))
	right := make([]Chunk, 0, len(n.chunks))

	acc := 0
	for _, c := range n.chunks {
		switch {
		case acc+c.Chars() <= at:
			left = append(left, c)
		case acc >= at:
			right = append(right, c)
		default:
			l, r := c.Split(at - acc)
			left = append(left, l)
			right = append(right, r)
		}
		acc += c.Chars()
	}
	return leafOrNil(left), leafOrNil(right)
}

func leafOrNil(chunks []Chunk) *Node {
	if len(chunks) == 0 {
		return nil
	}
	return newLeafNode(chunks)
}

// wrap builds a node over a run of siblings, copying the slice so the
// source node stays untouched.
func wrap(nodes []*Node) *Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	}
	children := make([]*Node, len(nodes))
	copy(children, nodes)
	return fromChildren(children)
}

// fromChildren builds a node of height children[0].height+1, splitting into
// two nodes under a new parent when there are too many children.
func fromChildren(children []*Node) *Node {
	if len(children) <= MaxChildren {
		return newInternalNode(children)
	}
	mid := len(children) / 2
	left := make([]*Node, mid)
	copy(left, children[:mid])
	right := make([]*Node, len(children)-mid)
	copy(right, children[mid:])
	return newInternalNode([]*Node{newInternalNode(left), newInternalNode(right)})
}

// join concatenates two subtrees. The result has the height of the taller
// input or one more, and every internal node keeps children of equal height.
func join(left, right *Node) *Node {
	if left == nil || left.Chars() == 0 {
		return right
	}
	if right == nil || right.Chars() == 0 {
		return left
	}

	switch {
	case left.height == right.height:
		return joinLevel(left, right)

	case left.height > right.height:
		last := left.children[len(left.children)-1]
		merged := join(last, right)

		children := make([]*Node, 0, len(left.children)+1)
		children = append(children, left.children[:len(left.children)-1]...)
		if merged.height == last.height {
			children = append(children, merged)
		} else {
			children = append(children, merged.children...)
		}
		return fromChildren(children)

	default:
		first := right.children[0]
		merged := join(left, first)

		children := make([]*Node, 0, len(right.children)+1)
		if merged.height == first.height {
			children = append(children, merged)
		} else {
			children = append(children, merged.children...)
		}
		children = append(children, right.children[1:]...)
		return fromChildren(children)
	}
}

// joinLevel concatenates two subtrees of the same height.
func joinLevel(left, right *Node) *Node {
	if !left.IsLeaf() {
		children := make([]*Node, 0, len(left.children)+len(right.children))
		children = append(children, left.children...)
		children = append(children, right.children...)
		return fromChildren(children)
	}

	chunks := make([]Chunk, 0, len(left.chunks)+len(right.chunks))
	chunks = append(chunks, left.chunks[:len(left.chunks)-1]...)
	lastLeft, firstRight := left.chunks[len(left.chunks)-1], right.chunks[0]
	if merged, ok := mergeChunks(lastLeft, firstRight); ok {
		chunks = append(chunks, merged...)
	} else {
		chunks = append(chunks, lastLeft, firstRight)
	}
	chunks = append(chunks, right.chunks[1:]...)

	if len(chunks) <= MaxChunksPerLeaf {
		return newLeafNode(chunks)
	}
	mid := len(chunks) / 2
	l := make([]Chunk, mid)
	copy(l, chunks[:mid])
	r := make([]Chunk, len(chunks)-mid)
	copy(r, chunks[mid:])
	return newInternalNode([]*Node{newLeafNode(l), newLeafNode(r)})
}

// collapse strips single-child internal nodes from the top of a tree.
func collapse(n *Node) *Node {
	for n != nil && !n.IsLeaf() && len(n.children) == 1 {
		n = n.children[0]
	}
	return n
}

// buildFromChunks builds a balanced tree bottom-up.
func buildFromChunks(chunks []Chunk) *Node {
	if len(chunks) == 0 {
		return nil
	}

	var nodes []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leaf := make([]Chunk, end-i)
		copy(leaf, chunks[i:end])
		nodes = append(nodes, newLeafNode(leaf))
	}

	for len(nodes) > 1 {
		var parents []*Node
		for i := 0; i < len(nodes); i += MaxChildren {
			end := min(i+MaxChildren, len(nodes))
			children := make([]*Node, end-i)
			copy(children, nodes[i:end])
			parents = append(parents, newInternalNode(children))
		}
		nodes = parents
	}
	return nodes[0]
}
