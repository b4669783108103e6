// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

// Epsilon is the tolerance under which two weights are considered equal when
// ordering the construction worklist.
const Epsilon = 1e-7

const nilNode = -1

type node struct {
	sym         rune
	weight      float64
	height      int
	left, right int32 // Child indexes; nilNode for leaves
}

// Tree is a Huffman tree stored as an arena of nodes.
//
// The zero value is the empty tree with height zero.
type Tree struct {
	nodes []node
	work  []int32
	root  int32
}

// BuildTree constructs a Huffman tree over the given symbols.
// See Tree.Init for the requirements on the input.
func BuildTree(syms []rune, weights []float64) *Tree {
	t := new(Tree)
	t.Init(syms, weights)
	return t
}

// Init builds the tree from syms and their weights, which must be of equal
// length and ordered by ascending weight with ties in alphabet order.
//
// The worklist is kept ordered by weight and then by insertion time.
// Each step removes the two front nodes; the first becomes the left child of a
// new node whose weight is their sum and whose height is one more than the
// larger of the two. The new node is placed after every node that is lighter
// or within Epsilon of its weight, so that among equal weights older nodes
// are consumed first. For a fixed input the resulting tree is always the same.
func (t *Tree) Init(syms []rune, weights []float64) {
	if len(syms) != len(weights) {
		panic("prefix: mismatching symbols and weights")
	}
	*t = Tree{nodes: t.nodes[:0], work: t.work[:0], root: nilNode}
	if len(syms) == 0 {
		return
	}

	for i, s := range syms {
		t.nodes = append(t.nodes, node{
			sym: s, weight: weights[i], height: 1, left: nilNode, right: nilNode,
		})
		t.work = append(t.work, int32(i))
	}

	for len(t.work) > 1 {
		l, r := t.work[0], t.work[1]
		t.work = t.work[2:]
		nl, nr := &t.nodes[l], &t.nodes[r]
		n := node{
			weight: nl.weight + nr.weight,
			height: max(nl.height, nr.height) + 1,
			left:   l,
			right:  r,
		}
		t.nodes = append(t.nodes, n)
		t.insert(int32(len(t.nodes) - 1))
	}
	t.root = t.work[0]
}

func (t *Tree) insert(idx int32) {
	w := t.nodes[idx].weight
	i := 0
	for i < len(t.work) && t.nodes[t.work[i]].weight-w < Epsilon {
		i++
	}
	t.work = append(t.work, 0)
	copy(t.work[i+1:], t.work[i:])
	t.work[i] = idx
}

// Height reports the number of nodes on the longest root-to-leaf path.
// A single leaf has height 1 and the empty tree has height 0.
func (t *Tree) Height() int {
	if t.root == nilNode || len(t.nodes) == 0 {
		return 0
	}
	return t.nodes[t.root].height
}

// NumLeaves reports the alphabet size of the tree.
func (t *Tree) NumLeaves() int {
	return (len(t.nodes) + 1) / 2
}

// Lengths returns the depth of every leaf as a code with only the Sym and Len
// fields set, in left-to-right leaf order. A tree with a single leaf still
// yields a length of 1 so that every symbol consumes at least one bit.
func (t *Tree) Lengths() PrefixCodes {
	if t.Height() == 0 {
		return nil
	}
	type entry struct {
		idx   int32
		depth uint32
	}
	codes := make(PrefixCodes, 0, t.NumLeaves())
	stack := []entry{{t.root, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[e.idx]
		if n.left == nilNode {
			codes = append(codes, PrefixCode{Sym: n.sym, Len: max(e.depth, 1)})
			continue
		}
		stack = append(stack, entry{n.right, e.depth + 1}, entry{n.left, e.depth + 1})
	}
	return codes
}
