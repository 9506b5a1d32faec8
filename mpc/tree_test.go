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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbva/mpcommit/crypto/hashing"
	"github.com/bbva/mpcommit/encoding"
	"github.com/bbva/mpcommit/util"
)

// protocolWithLowBits builds a protocol id whose low 32 bits, read
// little-endian, equal the given value. The slot of such an id at any
// width is value mod width.
func protocolWithLowBits(value uint32) ProtocolID {
	var id ProtocolID
	copy(id[:4], util.Uint32AsBytes(value))
	id[31] = 0xa5 // some high bytes, irrelevant for placement
	return id
}

// makeSequentialMessages returns count messages under protocol ids
// 0..count-1, which are guaranteed to fit any width of at least count.
func makeSequentialMessages(count int) map[ProtocolID]Message {
	messages := make(map[ProtocolID]Message, count)
	for i := 0; i < count; i++ {
		var msg Message
		copy(msg[:4], util.Uint32AsBytes(uint32(i)))
		msg[31] = 0x5a
		messages[protocolWithLowBits(uint32(i))] = msg
	}
	return messages
}

func staticEntropy(v uint64) *uint64 { return &v }

func TestTryCommitSizing(t *testing.T) {
	testCases := []struct {
		count         int
		expectedDepth uint8
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{7, 3},
		{8, 3},
		{15, 4},
		{16, 4},
		{100, 7},
		{256, 8},
	}

	for _, c := range testCases {
		tree, err := TryCommit(&MultiSource{Messages: makeSequentialMessages(c.count)})
		require.NoErrorf(t, err, "unexpected failure committing %d messages", c.count)
		assert.Equalf(t, c.count, tree.Len(), "lost messages committing %d of them", c.count)
		assert.Equalf(t, c.expectedDepth, tree.Depth(), "unexpected depth committing %d messages", c.count)
		assert.Equal(t, uint32(1)<<tree.Depth(), tree.Width())
	}
}

func TestTryCommitEmpty(t *testing.T) {
	_, err := TryCommit(&MultiSource{})
	assert.Equal(t, ErrEmpty, err)
}

func TestTryCommitEmptyWithMinDepth(t *testing.T) {
	// A tree of placeholders only is legitimate: it still hides the
	// participant count, which here happens to be zero.
	tree, err := TryCommit(&MultiSource{MinDepth: 4, StaticEntropy: staticEntropy(3)})
	require.NoError(t, err)

	assert.Equal(t, uint8(4), tree.Depth())
	assert.Zero(t, tree.Len())

	it := tree.MerkleLeaves()
	for leaf, ok := it.Next(); ok; leaf, ok = it.Next() {
		assert.False(t, leaf.Inhabited())
	}
}

func TestTryCommitTooManyMessages(t *testing.T) {
	_, err := TryCommit(&MultiSource{Messages: makeSequentialMessages(MaxMessages + 1)})
	require.Error(t, err)

	tooMany, ok := err.(*TooManyMessagesError)
	require.True(t, ok)
	assert.Equal(t, MaxMessages+1, tooMany.Count)
}

func TestTryCommitCantFitInMaxSlots(t *testing.T) {
	// Two distinct ids sharing their low 16 bits collide at every
	// reachable width; the depth guard must stop the search.
	messages := map[ProtocolID]Message{
		protocolWithLowBits(0x00000000): {0x01},
		protocolWithLowBits(0x00010000): {0x02},
	}

	_, err := TryCommit(&MultiSource{Messages: messages})
	assert.Equal(t, ErrCantFitInMaxSlots, err)
}

func TestTryCommitResolvesCollisionByWidening(t *testing.T) {
	// Slots 1 and 9 collide modulo 8 but not modulo 16: requesting
	// depth 3 must produce a tree of depth exactly 4.
	messages := map[ProtocolID]Message{
		protocolWithLowBits(1): {0x01},
		protocolWithLowBits(9): {0x02},
	}

	tree, err := TryCommit(&MultiSource{MinDepth: 3, Messages: messages})
	require.NoError(t, err)
	assert.Equal(t, uint8(4), tree.Depth())
}

func TestProtocolIDPosRefinement(t *testing.T) {
	ids := []ProtocolID{
		protocolWithLowBits(0),
		protocolWithLowBits(1),
		protocolWithLowBits(0xdeadbeef),
		protocolWithLowBits(0x0000ffff),
		protocolWithLowBits(0xffff0000),
	}

	for _, id := range ids {
		for depth := uint8(0); depth < MaxDepth; depth++ {
			width := uint32(1) << depth
			// Widening is a strict refinement: the slot at double
			// width is congruent to the slot at single width.
			assert.Equal(t,
				ProtocolIDPos(id, width),
				uint16(uint32(ProtocolIDPos(id, width*2))%width))
		}
	}
}

func TestMerkleLeavesOrderAndBijection(t *testing.T) {
	messages := makeSequentialMessages(9)
	tree, err := TryCommit(&MultiSource{MinDepth: 5, Messages: messages, StaticEntropy: staticEntropy(42)})
	require.NoError(t, err)
	require.Equal(t, uint8(5), tree.Depth())

	it := tree.MerkleLeaves()
	require.Equal(t, tree.Width(), it.Len())

	inhabited := make(map[ProtocolID]Message)
	var count uint32
	for leaf, ok := it.Next(); ok; leaf, ok = it.Next() {
		pos := uint16(count)
		assert.Equal(t, tree.Leaf(pos), leaf)
		if leaf.Inhabited() {
			// A slot must be exactly the one mandated by its protocol.
			assert.Equal(t, pos, tree.ProtocolIDPos(leaf.Protocol()))
			inhabited[leaf.Protocol()] = leaf.Message()
		}
		count++
	}

	assert.Equal(t, tree.Width(), count)
	assert.Equal(t, messages, inhabited)
}

func TestMerkleLeavesReset(t *testing.T) {
	tree, err := TryCommit(&MultiSource{Messages: makeSequentialMessages(4)})
	require.NoError(t, err)

	it := tree.MerkleLeaves()
	first, ok := it.Next()
	require.True(t, ok)

	it.Reset()
	restarted, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, first, restarted)
}

func TestEndToEndSingleMessage(t *testing.T) {
	protocol := protocolWithLowBits(5)
	var message Message
	message[0] = 0xcc

	tree, err := TryCommit(&MultiSource{
		MinDepth:      3,
		Messages:      map[ProtocolID]Message{protocol: message},
		StaticEntropy: staticEntropy(77),
	})
	require.NoError(t, err)

	require.Equal(t, uint8(3), tree.Depth())
	require.Equal(t, uint32(8), tree.Width())
	require.Equal(t, uint64(77), tree.Entropy())

	slot := ProtocolIDPos(protocol, 8)
	for pos := uint16(0); pos < 8; pos++ {
		leaf := tree.Leaf(pos)
		if pos == slot {
			require.True(t, leaf.Inhabited())
			assert.Equal(t, protocol, leaf.Protocol())
			assert.Equal(t, message, leaf.Message())
		} else {
			require.False(t, leaf.Inhabited())
			data, err := encoding.Marshal(leaf)
			require.NoError(t, err)
			assert.Equal(t, util.Uint64AsBytes(77), data[:8])
			assert.Equal(t, util.Uint16AsBytes(pos), data[8:])
		}
	}
}

func TestRootPurity(t *testing.T) {
	source := &MultiSource{Messages: makeSequentialMessages(9)}

	tree, err := TryCommit(source)
	require.NoError(t, err)
	assert.Equal(t, tree.Root(), tree.Root())

	// Two builds of the same source draw independent entropy, so their
	// roots differ with overwhelming probability.
	other, err := TryCommit(source)
	require.NoError(t, err)
	assert.NotEqual(t, tree.Root(), other.Root())
}

func TestRootEntropySensitivity(t *testing.T) {
	messages := makeSequentialMessages(9)

	first, err := TryCommit(&MultiSource{Messages: messages, StaticEntropy: staticEntropy(1)})
	require.NoError(t, err)
	second, err := TryCommit(&MultiSource{Messages: messages, StaticEntropy: staticEntropy(2)})
	require.NoError(t, err)
	same, err := TryCommit(&MultiSource{Messages: messages, StaticEntropy: staticEntropy(1)})
	require.NoError(t, err)

	assert.NotEqual(t, first.Root(), second.Root())
	assert.Equal(t, first.Root(), same.Root())
}

func TestConcealIsRoot(t *testing.T) {
	tree, err := TryCommit(&MultiSource{Messages: makeSequentialMessages(9)})
	require.NoError(t, err)
	assert.Equal(t, tree.Root(), tree.Conceal())
}

func TestCommitmentID(t *testing.T) {
	tree, err := TryCommit(&MultiSource{Messages: makeSequentialMessages(9)})
	require.NoError(t, err)

	// The commitment must be the tag-hashed merkle root.
	root := tree.Root()
	engine := hashing.NewTagged(treeTag[:])
	engine.Write(root[:])

	commitment := tree.CommitmentID()
	assert.Equal(t, hashing.Digest(commitment[:]), engine.Finish())
}

func TestLeafOutOfWidthPanics(t *testing.T) {
	tree, err := TryCommit(&MultiSource{Messages: makeSequentialMessages(1)})
	require.NoError(t, err)
	assert.Panics(t, func() { tree.Leaf(1) })
}
