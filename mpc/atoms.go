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

// Package mpc implements multi-protocol commitments: a merkle tree that
// lets independent protocols commit their digests into one shared
// anchorable value, locating their own slot without a directory and
// without the tree shape revealing how many protocols took part.
package mpc

import (
	"encoding/hex"
	"fmt"

	"github.com/bbva/mpcommit/commit"
	"github.com/bbva/mpcommit/crypto/hashing"
	"github.com/bbva/mpcommit/encoding"
	"github.com/bbva/mpcommit/merkle"
)

// leafTag is the domain tag under which every tree leaf derives its
// merkle node commitment.
var leafTag = commit.Tag32("urn:lnpbp:lnpbp0081:node:v01#23A")

// ProtocolID identifies a commitment-consuming protocol. It is opaque,
// totally ordered and never interpreted beyond slot derivation.
type ProtocolID [32]byte

// ProtocolIDFromBytes builds a ProtocolID from a 32-byte slice.
func ProtocolIDFromBytes(data []byte) (ProtocolID, error) {
	var id ProtocolID
	if len(data) != len(id) {
		return id, fmt.Errorf("mpc: protocol id must be %d bytes, got %d", len(id), len(data))
	}
	copy(id[:], data)
	return id, nil
}

// ProtocolIDFromHex parses a 64-character hex string into a ProtocolID.
func ProtocolIDFromHex(s string) (ProtocolID, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return ProtocolID{}, fmt.Errorf("mpc: invalid protocol id: %v", err)
	}
	return ProtocolIDFromBytes(data)
}

func (id ProtocolID) String() string {
	return hex.EncodeToString(id[:])
}

func (id ProtocolID) CommitStrategy() commit.Strategy { return commit.Strict }

// MarshalCanonical writes the raw 32 bytes; fixed length needs no framing.
func (id ProtocolID) MarshalCanonical(w *encoding.Writer) error {
	return w.Bytes(id[:])
}

// Message is the 32-byte digest a protocol commits to. The library never
// sees the data behind it.
type Message [32]byte

// MessageFromBytes builds a Message from a 32-byte slice.
func MessageFromBytes(data []byte) (Message, error) {
	var msg Message
	if len(data) != len(msg) {
		return msg, fmt.Errorf("mpc: message must be %d bytes, got %d", len(msg), len(data))
	}
	copy(msg[:], data)
	return msg, nil
}

// MessageFromHex parses a 64-character hex string into a Message.
func MessageFromHex(s string) (Message, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return Message{}, fmt.Errorf("mpc: invalid message: %v", err)
	}
	return MessageFromBytes(data)
}

// MessageFromData derives a Message by hashing arbitrary payload bytes
// with the given hasher. Protocols that already track 32-byte digests
// should build their messages directly instead.
func MessageFromData(hasher hashing.Hasher, data []byte) (Message, error) {
	return MessageFromBytes(hasher.Do(data))
}

func (msg Message) String() string {
	return hex.EncodeToString(msg[:])
}

func (msg Message) CommitStrategy() commit.Strategy { return commit.Strict }

// MarshalCanonical writes the raw 32 bytes; fixed length needs no framing.
func (msg Message) MarshalCanonical(w *encoding.Writer) error {
	return w.Bytes(msg[:])
}

// Commitment is the final 32-byte value meant for verbatim embedding in
// an external anchor medium.
type Commitment [32]byte

func (c Commitment) String() string {
	return hex.EncodeToString(c[:])
}

func (c Commitment) CommitStrategy() commit.Strategy { return commit.Strict }

// MarshalCanonical writes the raw 32 bytes; fixed length needs no framing.
func (c Commitment) MarshalCanonical(w *encoding.Writer) error {
	return w.Bytes(c[:])
}

// Leaf occupies one slot of the commitment tree. It is either inhabited
// by a protocol's message or filled with an entropy placeholder, so the
// leaf sequence always has exactly the tree width regardless of how many
// protocols participated.
type Leaf struct {
	protocol  ProtocolID
	message   Message
	entropy   uint64
	pos       uint16
	inhabited bool
}

// InhabitedLeaf builds the leaf carrying a protocol's message.
func InhabitedLeaf(protocol ProtocolID, message Message) Leaf {
	return Leaf{protocol: protocol, message: message, inhabited: true}
}

// EntropyLeaf builds the placeholder leaf for an unoccupied slot.
func EntropyLeaf(entropy uint64, pos uint16) Leaf {
	return Leaf{entropy: entropy, pos: pos}
}

// Inhabited reports whether the leaf carries a protocol message.
func (l Leaf) Inhabited() bool { return l.inhabited }

// Protocol returns the protocol id of an inhabited leaf.
func (l Leaf) Protocol() ProtocolID { return l.protocol }

// Message returns the message of an inhabited leaf.
func (l Leaf) Message() Message { return l.message }

func (l Leaf) CommitStrategy() commit.Strategy { return commit.Strict }

func (l Leaf) CommitTag() [32]byte { return leafTag }

// MarshalCanonical writes protocol and message for inhabited leaves, and
// the entropy value with the slot position for placeholders. The two
// encodings are only ever compared within the same slot, so no variant
// marker is needed.
func (l Leaf) MarshalCanonical(w *encoding.Writer) error {
	if l.inhabited {
		if err := l.protocol.MarshalCanonical(w); err != nil {
			return err
		}
		return l.message.MarshalCanonical(w)
	}
	if err := w.Uint64(l.entropy); err != nil {
		return err
	}
	return w.Uint16(l.pos)
}

// ID derives the merkle node committing to this leaf.
func (l Leaf) ID() merkle.Node {
	return merkle.Node(commit.Digest(l))
}

// MultiSource is the ephemeral input of a tree construction. It must not
// be mutated while a build is in progress and is not retained after.
type MultiSource struct {
	// MinDepth is the smallest tree depth accepted for the commitment.
	MinDepth uint8

	// Messages maps every participating protocol to its message.
	Messages map[ProtocolID]Message

	// StaticEntropy, when set, replaces the secure-random entropy draw.
	// It makes placeholder leaves predictable and therefore the
	// participant count observable: use it only to reproduce trees.
	StaticEntropy *uint64
}
