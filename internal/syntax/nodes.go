package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// The parser's output is a flat token sequence. Build folds that sequence
// back into a tree of nodes for callers that want one.

// Node is the interface implemented by all tree nodes.
type Node interface {
	Span() Span // source range covered by the node
	aNode()     // marker method to restrict implementations to this package
}

// node is the base struct embedded in all tree nodes.
type node struct {
	span Span
}

func (n *node) Span() Span { return n.span }
func (n *node) aNode()     {}

// File is the root of a built tree: the statements of one buffer.
type File struct {
	node
	Stmts []Node
}

// ----------------------------------------------------------------------------
// Leaves

// Name is an identifier operand.
type Name struct {
	node
	Tok Token
}

// BasicLit is a numeric literal operand.
type BasicLit struct {
	node
	Tok Token
}

// ----------------------------------------------------------------------------
// Composites

// Operation is a binary operation X Op Y.
type Operation struct {
	node
	Op Token
	X  Node
	Y  Node
}

// Group is a bracketed or braced scope: ( List ) or { List }.
type Group struct {
	node
	Open  Token
	Close Token
	List  []Node
}

// DeclStmt is a declaration scope: fun ... ; or var ... ;
type DeclStmt struct {
	node
	Keyword Token
	List    []Node
	Semi    Token
}

// ExprStmt is a ';'-terminated statement in the root or a brace scope.
// List usually holds a single expression; juxtaposed operands such as a
// name followed by a group appear as separate entries.
type ExprStmt struct {
	node
	List []Node
	Semi Token
}

// cover returns the smallest span containing a and b.
func cover(a, b Span) Span {
	start, end := a.Offset, a.End()
	if b.Offset < start {
		start = b.Offset
	}
	if b.End() > end {
		end = b.End()
	}
	return Span{Offset: start, Len: end - start}
}

// listSpan returns the span of nodes, or s if nodes is empty.
func listSpan(nodes []Node, s Span) Span {
	for _, n := range nodes {
		s = cover(s, n.Span())
	}
	return s
}
