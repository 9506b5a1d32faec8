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
)

func TestTreeSerializeRoundTrip(t *testing.T) {
	tree, err := TryCommit(&MultiSource{
		MinDepth:      3,
		Messages:      makeSequentialMessages(5),
		StaticEntropy: staticEntropy(99),
	})
	require.NoError(t, err)

	data, err := tree.Serialize()
	require.NoError(t, err)

	decoded, err := DeserializeTree(data)
	require.NoError(t, err)

	assert.Equal(t, tree.Depth(), decoded.Depth())
	assert.Equal(t, tree.Entropy(), decoded.Entropy())
	assert.Equal(t, tree.Messages(), decoded.Messages())
	assert.Equal(t, tree.Root(), decoded.Root())
	assert.Equal(t, tree.CommitmentID(), decoded.CommitmentID())
}

func TestTreeSerializeDeterminism(t *testing.T) {
	tree, err := TryCommit(&MultiSource{
		Messages:      makeSequentialMessages(8),
		StaticEntropy: staticEntropy(7),
	})
	require.NoError(t, err)

	first, err := tree.Serialize()
	require.NoError(t, err)
	second, err := tree.Serialize()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDeserializeRejectsMisplacedSlot(t *testing.T) {
	tree, err := TryCommit(&MultiSource{
		Messages:      makeSequentialMessages(2),
		StaticEntropy: staticEntropy(7),
	})
	require.NoError(t, err)

	// Move a protocol away from its mandated slot before re-encoding.
	tampered := &MerkleTree{
		depth:    tree.depth,
		entropy:  tree.entropy,
		messages: tree.Messages(),
		slots:    make(map[uint16]slotEntry, len(tree.slots)),
	}
	for pos, entry := range tree.slots {
		tampered.slots[(pos+1)%uint16(tree.Width())] = entry
	}

	data, err := tampered.Serialize()
	require.NoError(t, err)

	_, err = DeserializeTree(data)
	require.Error(t, err)
}

func TestDeserializeRejectsGarbage(t *testing.T) {
	_, err := DeserializeTree([]byte("definitely not msgpack"))
	require.Error(t, err)
}
