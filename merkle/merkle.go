/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package merkle turns an ordered sequence of leaf commitments into a
// single root. Every internal node is a tagged hash committing to the
// branching kind, its depth and the total leaf count, so the position of
// a leaf is cryptographically bound into any path derived from the root.
package merkle

import (
	"encoding/hex"
	"fmt"

	"github.com/bbva/mpcommit/crypto/hashing"
	"github.com/bbva/mpcommit/encoding"
)

// Node is a 32-byte intermediate or final merkle hash value.
type Node [32]byte

// NodeFromBytes builds a Node from a 32-byte slice.
func NodeFromBytes(data []byte) (Node, error) {
	var n Node
	if len(data) != len(n) {
		return n, fmt.Errorf("merkle: node must be %d bytes, got %d", len(n), len(data))
	}
	copy(n[:], data)
	return n, nil
}

func (n Node) String() string {
	return hex.EncodeToString(n[:])
}

// MarshalCanonical writes the raw 32 bytes with no framing.
func (n Node) MarshalCanonical(w *encoding.Writer) error {
	return w.Bytes(n[:])
}

// Branching kind of an internal node.
type branching uint8

const (
	// branchVoid marks a virtual node with no leaves under it, used when
	// the tree width is not a power of two.
	branchVoid branching = iota
	// branchSingle marks a node with a single leaf, the other branch
	// being void.
	branchSingle
	// branchBranch marks a node with two populated branches.
	branchBranch
)

// virtualLeaf fills the void side of single and void nodes.
var virtualLeaf = Node{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// Merklize computes the root of the given leaf commitments under a
// 16-byte construction tag. It is a pure function of the tag, the leaf
// values in order and the leaf count. A single leaf is its own root.
func Merklize(tag [16]byte, nodes []Node) Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return merklize(tag, nodes, 0, uint32(len(nodes)))
}

func merklize(tag [16]byte, nodes []Node, depth uint8, width uint32) Node {
	switch len(nodes) {
	case 0:
		return hashNode(branchVoid, tag, depth, width, virtualLeaf, virtualLeaf)
	case 1:
		// A lone node at this level means the width is not a power of
		// two; it gets a distinct encoding.
		return hashNode(branchSingle, tag, depth, width, nodes[0], virtualLeaf)
	case 2:
		return hashNode(branchBranch, tag, depth, width, nodes[0], nodes[1])
	default:
		div := len(nodes)/2 + len(nodes)%2
		left := merklize(tag, nodes[:div], depth+1, width)
		right := merklize(tag, nodes[div:], depth+1, width)
		return hashNode(branchBranch, tag, depth, width, left, right)
	}
}

func hashNode(kind branching, tag [16]byte, depth uint8, width uint32, left, right Node) Node {
	engine := hashing.NewTagged(tag[:])
	w := encoding.NewWriter(engine)
	_ = w.Uint8(uint8(kind))
	_ = w.Uint8(depth)
	_ = w.Uint32(width)
	_ = w.Bytes(left[:])
	_ = w.Bytes(right[:])

	var n Node
	copy(n[:], engine.Finish())
	return n
}
