package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses a tree in depth-first order.
// If visitor returns false, children are not visited.
//
// Pending nodes are kept on a heap slice, so deeply nested trees do not
// grow the goroutine stack.
func Walk(node Node, v Visitor) {
	stack := []Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil || !v(n) {
			continue
		}
		stack = pushChildren(stack, n)
	}
}

// children returns the direct children of n in source order.
func children(n Node) []Node {
	switch n := n.(type) {
	case *File:
		return n.Stmts
	case *Operation:
		return []Node{n.X, n.Y}
	case *Group:
		return n.List
	case *DeclStmt:
		return n.List
	case *ExprStmt:
		return n.List
	}
	// Leaf nodes
	return nil
}

// pushChildren pushes the children of n in reverse, so the first child is
// popped next.
func pushChildren(stack []Node, n Node) []Node {
	kids := children(n)
	for i := len(kids) - 1; i >= 0; i-- {
		stack = append(stack, kids[i])
	}
	return stack
}
