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

package mpc

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/bbva/mpcommit/commit"
	"github.com/bbva/mpcommit/encoding"
	"github.com/bbva/mpcommit/log"
	"github.com/bbva/mpcommit/merkle"
)

const (
	// MaxDepth is the deepest commitment tree the 16-bit slot space
	// allows.
	MaxDepth uint8 = 16

	// MaxMessages is the largest message count that can ever be placed.
	MaxMessages = 1 << 16
)

// treeTag is the commitment domain tag of the whole tree.
var treeTag = commit.Tag32("urn:lnpbp:lnpbp0004:tree:v01#23A")

// merkleTreeTag identifies the multi-protocol merklization construction.
var merkleTreeTag = [16]byte{'u', 'r', 'n', ':', 'l', 'n', 'p', 'b', 'p', ':', 'l', 'n', 'p', 'b', 'p', '4'}

type slotEntry struct {
	protocol ProtocolID
	message  Message
}

// MerkleTree is the built commitment artifact. It is immutable: every
// read is pure, so a tree can be shared across goroutines with no
// locking.
type MerkleTree struct {
	depth    uint8
	entropy  uint64
	messages map[ProtocolID]Message
	slots    map[uint16]slotEntry
}

// TryCommit assigns every message of the source to a slot of a
// power-of-two sized tree. The depth is the smallest value at or above
// the requested minimum placing all distinct protocols in distinct
// slots; unoccupied slots are filled with placeholder leaves derived
// from a single secure-random entropy value, so the resulting tree shape
// never reveals the participant count.
func TryCommit(source *MultiSource) (*MerkleTree, error) {
	count := len(source.Messages)
	if source.MinDepth == 0 && count == 0 {
		return nil, ErrEmpty
	}
	if count > MaxMessages {
		return nil, &TooManyMessagesError{Count: count}
	}

	entropy, err := drawEntropy(source.StaticEntropy)
	if err != nil {
		return nil, err
	}

	depth := source.MinDepth
	for {
		if depth > MaxDepth {
			return nil, ErrCantFitInMaxSlots
		}
		width := uint32(1) << depth

		slots, ok := placeMessages(source.Messages, width)
		if ok {
			BuildTotal.Inc()
			DepthReached.Observe(float64(depth))
			return &MerkleTree{
				depth:    depth,
				entropy:  entropy,
				messages: copyMessages(source.Messages),
				slots:    slots,
			}, nil
		}

		CollisionTotal.Inc()
		log.Debugf("slot collision among %d protocols at depth %d, widening the tree", count, depth)
		depth++
	}
}

// placeMessages attempts a collision-free placement of all messages into
// width slots. Slots are fully determined by protocol id and width, so
// the attempt order does not matter.
func placeMessages(messages map[ProtocolID]Message, width uint32) (map[uint16]slotEntry, bool) {
	slots := make(map[uint16]slotEntry, len(messages))
	for protocol, message := range messages {
		pos := ProtocolIDPos(protocol, width)
		if _, occupied := slots[pos]; occupied {
			return nil, false
		}
		slots[pos] = slotEntry{protocol: protocol, message: message}
	}
	return slots, true
}

// drawEntropy returns the static entropy when provided, or one fresh
// 64-bit value from the secure generator. A predictable entropy would
// let an observer tell placeholder leaves from real ones.
func drawEntropy(static *uint64) (uint64, error) {
	if static != nil {
		return *static, nil
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("mpc: unable to draw tree entropy: %v", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func copyMessages(messages map[ProtocolID]Message) map[ProtocolID]Message {
	out := make(map[ProtocolID]Message, len(messages))
	for protocol, message := range messages {
		out[protocol] = message
	}
	return out
}

// ProtocolIDPos computes the mandated slot of a protocol id within a
// tree of the given width: the id interpreted as a little-endian
// unsigned integer, modulo the width. It is a pure function any third
// party can recompute from the id and the width alone, which lets a
// verifier confirm a claimed slot before inspecting any hash content.
// Width must be a power of two no greater than 2^16.
func ProtocolIDPos(id ProtocolID, width uint32) uint16 {
	// The width divides 2^32, so the remainder of the full 256-bit
	// little-endian integer equals the remainder of its low 32 bits.
	return uint16(binary.LittleEndian.Uint32(id[:4]) % width)
}

// ProtocolIDPos computes the slot mandated for a protocol id by this
// tree's width.
func (t *MerkleTree) ProtocolIDPos(id ProtocolID) uint16 {
	return ProtocolIDPos(id, t.Width())
}

// Depth returns the tree depth.
func (t *MerkleTree) Depth() uint8 { return t.depth }

// Width returns the number of leaves, 2^depth.
func (t *MerkleTree) Width() uint32 { return uint32(1) << t.depth }

// Entropy returns the placeholder entropy. Disclosing it lets an
// observer precompute every placeholder leaf commitment and thus learn
// the participant count.
func (t *MerkleTree) Entropy() uint64 { return t.entropy }

// Len returns the number of committed messages.
func (t *MerkleTree) Len() int { return len(t.messages) }

// Message returns the message committed under the given protocol.
func (t *MerkleTree) Message(id ProtocolID) (Message, bool) {
	message, ok := t.messages[id]
	return message, ok
}

// Messages returns a copy of the committed protocol-to-message map,
// retained verbatim from the source for audit and re-derivation.
func (t *MerkleTree) Messages() map[ProtocolID]Message {
	return copyMessages(t.messages)
}

// Leaf returns the leaf at the given slot: the inhabited leaf when a
// protocol occupies it, the entropy placeholder otherwise.
func (t *MerkleTree) Leaf(pos uint16) Leaf {
	if uint32(pos) >= t.Width() {
		panic(fmt.Sprintf("mpc: leaf position %d out of tree width %d", pos, t.Width()))
	}
	if entry, ok := t.slots[pos]; ok {
		return InhabitedLeaf(entry.protocol, entry.message)
	}
	return EntropyLeaf(t.entropy, pos)
}

// MerkleLeaves returns a restartable iterator over the tree's leaves in
// ascending slot order. This order is canonical: it is the only order
// ever fed into the root computation.
func (t *MerkleTree) MerkleLeaves() *LeafIterator {
	return &LeafIterator{tree: t}
}

// LeafIterator yields the leaves of a tree in ascending slot order.
type LeafIterator struct {
	tree *MerkleTree
	pos  uint32
}

// Len returns the total number of leaves yielded by a full pass.
func (it *LeafIterator) Len() uint32 { return it.tree.Width() }

// Next returns the next leaf, or false when the pass is done.
func (it *LeafIterator) Next() (Leaf, bool) {
	if it.pos >= it.tree.Width() {
		return Leaf{}, false
	}
	leaf := it.tree.Leaf(uint16(it.pos))
	it.pos++
	return leaf, true
}

// Reset restarts the iterator from slot zero.
func (it *LeafIterator) Reset() { it.pos = 0 }

// Root computes the merkle root over the leaf commitments. It is a pure
// function of the tree: repeated calls return identical values.
func (t *MerkleTree) Root() merkle.Node {
	nodes := make([]merkle.Node, 0, t.Width())
	it := t.MerkleLeaves()
	for leaf, ok := it.Next(); ok; leaf, ok = it.Next() {
		nodes = append(nodes, leaf.ID())
	}
	return merkle.Merklize(merkleTreeTag, nodes)
}

// Conceal returns the tree's sole externally-anchorable representative:
// its merkle root. The full tree, including all real messages, stays
// private.
func (t *MerkleTree) Conceal() merkle.Node { return t.Root() }

func (t *MerkleTree) CommitStrategy() commit.Strategy { return commit.ConcealStrict }

func (t *MerkleTree) CommitConceal() encoding.Marshaler { return t.Conceal() }

func (t *MerkleTree) CommitTag() [32]byte { return treeTag }

// CommitmentID derives the tree's typed commitment: the tagged hash of
// its concealed representative.
func (t *MerkleTree) CommitmentID() Commitment {
	return Commitment(commit.Digest(t))
}
