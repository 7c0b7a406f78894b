// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"math/big"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// Walk visits root and its descendants depth-first, parents before children.
// Returning false from fn skips the node's subtree.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	walk(root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		walk(c, depth+1, fn)
	}
}

// Count returns the number of nodes in the tree rooted at root.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node, int) bool {
		total++
		return true
	})
	return total
}

// Equal reports whether two trees have the same shape, names, kinds and
// property values. Node identity and source paths are ignored; children are
// compared pairwise in order.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() || a.name != b.name || a.props.Len() != b.props.Len() {
		return false
	}

	same := true
	a.props.Scan(func(name string, av cty.Value) bool {
		bv, ok := b.props.Get(name)
		if !ok || !av.RawEquals(bv) {
			same = false
		} else if av.Type().Equals(cty.String) && !av.IsNull() {
			at, _ := a.Text(name)
			bt, _ := b.Text(name)
			same = at == bt
		}
		return same
	})
	if !same || len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

// FormatValue renders a primitive value for display: strings quoted, numbers
// in shortest form, bools as true/false.
func FormatValue(v cty.Value) string {
	switch {
	case v.IsNull():
		return "null"
	case v.Type().Equals(cty.String):
		return strconv.Quote(v.AsString())
	case v.Type().Equals(cty.Number):
		return v.AsBigFloat().Text('g', -1)
	case v.Type().Equals(cty.Bool):
		return strconv.FormatBool(v.True())
	default:
		return v.GoString()
	}
}

// GoValue converts a primitive value to string, int64, float64 or bool.
func GoValue(v cty.Value) any {
	switch {
	case v.IsNull():
		return nil
	case v.Type().Equals(cty.String):
		return v.AsString()
	case v.Type().Equals(cty.Number):
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); bf.IsInt() && acc == big.Exact {
			return i
		}
		f, _ := bf.Float64()
		return f
	case v.Type().Equals(cty.Bool):
		return v.True()
	default:
		return nil
	}
}
