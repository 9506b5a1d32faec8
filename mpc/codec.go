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
	"bytes"
	"fmt"
	"sort"

	"github.com/hashicorp/go-msgpack/codec"
)

// msgpackHandle is a shared handle for encoding/decoding of trees.
var msgpackHandle = &codec.MsgpackHandle{}

// Wire shape of a serialized tree. Only inhabited slots travel: the
// placeholder leaves are re-derived from the entropy on decode.
type treeEnvelope struct {
	Depth   uint8
	Entropy uint64
	Leaves  []leafRecord
}

type leafRecord struct {
	Pos      uint16
	Protocol []byte
	Message  []byte
}

// Serialize encodes the full tree, including the retained message map,
// for audit persistence or exchange. This is a transport encoding, not
// part of commitment derivation.
func (t *MerkleTree) Serialize() ([]byte, error) {
	leaves := make([]leafRecord, 0, len(t.slots))
	for pos, entry := range t.slots {
		leaves = append(leaves, leafRecord{
			Pos:      pos,
			Protocol: append([]byte(nil), entry.protocol[:]...),
			Message:  append([]byte(nil), entry.message[:]...),
		})
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].Pos < leaves[j].Pos })

	envelope := treeEnvelope{
		Depth:   t.depth,
		Entropy: t.entropy,
		Leaves:  leaves,
	}

	var buf bytes.Buffer
	if err := codec.NewEncoder(&buf, msgpackHandle).Encode(envelope); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeserializeTree decodes a serialized tree, re-checking every
// structural invariant: the depth bound, slot ranges and that each
// protocol occupies exactly the slot its id mandates.
func DeserializeTree(data []byte) (*MerkleTree, error) {
	var envelope treeEnvelope
	if err := codec.NewDecoder(bytes.NewReader(data), msgpackHandle).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("mpc: unable to decode tree: %v", err)
	}

	if envelope.Depth > MaxDepth {
		return nil, fmt.Errorf("mpc: decoded tree depth %d exceeds the maximum of %d", envelope.Depth, MaxDepth)
	}
	width := uint32(1) << envelope.Depth
	if uint32(len(envelope.Leaves)) > width {
		return nil, fmt.Errorf("mpc: decoded tree has %d leaves for width %d", len(envelope.Leaves), width)
	}

	messages := make(map[ProtocolID]Message, len(envelope.Leaves))
	slots := make(map[uint16]slotEntry, len(envelope.Leaves))
	for _, record := range envelope.Leaves {
		protocol, err := ProtocolIDFromBytes(record.Protocol)
		if err != nil {
			return nil, err
		}
		message, err := MessageFromBytes(record.Message)
		if err != nil {
			return nil, err
		}
		if mandated := ProtocolIDPos(protocol, width); mandated != record.Pos {
			return nil, fmt.Errorf("mpc: protocol %s placed at slot %d instead of its mandated slot %d",
				protocol, record.Pos, mandated)
		}
		if _, dup := slots[record.Pos]; dup {
			return nil, fmt.Errorf("mpc: duplicated slot %d in decoded tree", record.Pos)
		}
		messages[protocol] = message
		slots[record.Pos] = slotEntry{protocol: protocol, message: message}
	}

	return &MerkleTree{
		depth:    envelope.Depth,
		entropy:  envelope.Entropy,
		messages: messages,
		slots:    slots,
	}, nil
}
