package syntax

import (
	"encoding/json"
	"io"
)

// tokenJSON is the JSON form of a token.
type tokenJSON struct {
	Kind  string `json:"kind"`
	Loc   uint32 `json:"loc"`
	Len   int    `json:"len"`
	Slice string `json:"slice"`
	Pos   string `json:"pos,omitempty"`
}

// FprintTokensJSON writes toks to w as a JSON array. Positions are
// included when ix is non-nil.
func FprintTokensJSON(w io.Writer, toks []Token, ix *LineIndex) error {
	out := make([]tokenJSON, len(toks))
	for i, tok := range toks {
		out[i] = tokenJSON{
			Kind:  tok.Kind.String(),
			Loc:   tok.Loc,
			Len:   len(tok.Slice),
			Slice: tok.Slice,
		}
		if ix != nil {
			out[i].Pos = ix.Position(tok.Loc).String()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// FprintJSON writes a JSON representation of a tree to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

// jsonSlot is a node whose JSON value is still to be stored in dst.
type jsonSlot struct {
	node Node
	dst  *interface{}
}

// toJSON converts a tree to maps and slices. Children are filled in
// through pointers from a heap stack instead of by recursion.
func toJSON(root Node) interface{} {
	var result interface{}
	stack := []jsonSlot{{root, &result}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.node == nil {
			continue
		}
		var obj map[string]interface{}
		obj, stack = jsonNode(s.node, stack)
		*s.dst = obj
	}
	return result
}

// jsonNode returns the map for n and pushes slots for its children.
func jsonNode(node Node, stack []jsonSlot) (map[string]interface{}, []jsonSlot) {
	var list []interface{}
	switch n := node.(type) {
	case *File:
		list, stack = jsonList(n.Stmts, stack)
		return map[string]interface{}{
			"type":  "File",
			"span":  n.span.String(),
			"stmts": list,
		}, stack

	case *ExprStmt:
		list, stack = jsonList(n.List, stack)
		return map[string]interface{}{
			"type": "ExprStmt",
			"span": n.span.String(),
			"list": list,
		}, stack

	case *DeclStmt:
		list, stack = jsonList(n.List, stack)
		return map[string]interface{}{
			"type":    "DeclStmt",
			"span":    n.span.String(),
			"keyword": n.Keyword.Slice,
			"list":    list,
		}, stack

	case *Group:
		list, stack = jsonList(n.List, stack)
		return map[string]interface{}{
			"type":  "Group",
			"span":  n.span.String(),
			"open":  n.Open.Slice,
			"close": n.Close.Slice,
			"list":  list,
		}, stack

	case *Operation:
		x, y := new(interface{}), new(interface{})
		stack = append(stack, jsonSlot{n.Y, y}, jsonSlot{n.X, x})
		return map[string]interface{}{
			"type": "Operation",
			"span": n.span.String(),
			"op":   n.Op.Slice,
			"x":    x,
			"y":    y,
		}, stack

	case *Name:
		return map[string]interface{}{
			"type":  "Name",
			"span":  n.span.String(),
			"value": n.Tok.Slice,
		}, stack

	case *BasicLit:
		return map[string]interface{}{
			"type":  "BasicLit",
			"span":  n.span.String(),
			"value": n.Tok.Slice,
		}, stack

	default:
		return map[string]interface{}{"type": "unknown"}, stack
	}
}

// jsonList allocates the array for nodes and pushes a slot per element.
func jsonList(nodes []Node, stack []jsonSlot) ([]interface{}, []jsonSlot) {
	out := make([]interface{}, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, jsonSlot{nodes[i], &out[i]})
	}
	return out, stack
}
