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

// Package commit implements the commit-encode protocol: every structured
// value declares one of four fixed strategies, and a single dispatcher
// interprets the strategy to drive the value's bytes into a tagged hash
// engine. Each participating type also declares a fixed 32-byte domain
// tag, so identical byte sequences produced by different types can never
// yield the same commitment.
package commit

import (
	"fmt"

	"github.com/bbva/mpcommit/crypto/hashing"
	"github.com/bbva/mpcommit/encoding"
	"github.com/bbva/mpcommit/merkle"
)

// Strategy selects how a value is turned into committed bytes. It is
// fixed at the type's definition, never chosen dynamically.
type Strategy uint8

const (
	// Strict feeds the value's canonical serialization directly.
	Strict Strategy = iota

	// ConcealStrict first derives a smaller concealed representative,
	// then strict-commits to it.
	ConcealStrict

	// Transparent unwraps a single-field container and commits to the
	// inner value with no extra framing.
	Transparent

	// Merklize treats the value as an ordered collection and commits to
	// the merkle root of the per-element commitments.
	Merklize
)

func (s Strategy) String() string {
	switch s {
	case Strict:
		return "strict"
	case ConcealStrict:
		return "conceal"
	case Transparent:
		return "transparent"
	case Merklize:
		return "merklize"
	default:
		return "unknown"
	}
}

// Encodable is implemented by every type participating in commitments.
// The declared strategy decides which additional capability the
// dispatcher requires from the type:
//
//	Strict        -> encoding.Marshaler
//	ConcealStrict -> Concealer
//	Transparent   -> Unwrapper
//	Merklize      -> MerkleLeaves
type Encodable interface {
	CommitStrategy() Strategy
}

// Concealer derives the smaller concealed representative of a value. The
// representative is always strict-committed, so it only needs to be
// canonically serializable.
type Concealer interface {
	CommitConceal() encoding.Marshaler
}

// Unwrapper exposes the single inner value of a transparent container.
type Unwrapper interface {
	CommitUnwrap() Encodable
}

// MerkleLeaves exposes an ordered collection as per-element commitments
// together with the 16-byte tag of the merklization construction.
type MerkleLeaves interface {
	MerkleTag() [16]byte
	MerkleLeafIDs() []merkle.Node
}

// Tagger binds a type to its fixed 32-byte commitment domain tag.
type Tagger interface {
	Encodable
	CommitTag() [32]byte
}

// Tag32 converts a 32-character tag literal into the array form required
// by Tagger implementations. Tags of any other length are a bug in the
// type definition.
func Tag32(tag string) [32]byte {
	if len(tag) != 32 {
		panic(fmt.Sprintf("commit: tag %q must be exactly 32 bytes, got %d", tag, len(tag)))
	}
	var t [32]byte
	copy(t[:], tag)
	return t
}

// Encode drives the commit-encoding of a value into a tagged engine
// following the value's declared strategy. A type declaring a strategy
// without implementing the matching capability is a programmer error and
// panics; no partial commitment ever surfaces from a failed encoding.
func Encode(engine *hashing.Engine, v Encodable) {
	switch strategy := v.CommitStrategy(); strategy {
	case Strict:
		m, ok := v.(encoding.Marshaler)
		if !ok {
			panicCapability(v, strategy)
		}
		marshalInto(engine, m)
	case ConcealStrict:
		c, ok := v.(Concealer)
		if !ok {
			panicCapability(v, strategy)
		}
		marshalInto(engine, c.CommitConceal())
	case Transparent:
		u, ok := v.(Unwrapper)
		if !ok {
			panicCapability(v, strategy)
		}
		Encode(engine, u.CommitUnwrap())
	case Merklize:
		leaves, ok := v.(MerkleLeaves)
		if !ok {
			panicCapability(v, strategy)
		}
		root := merkle.Merklize(leaves.MerkleTag(), leaves.MerkleLeafIDs())
		_, _ = engine.Write(root[:])
	default:
		panic(fmt.Sprintf("commit: type %T declares unknown strategy %d", v, strategy))
	}
}

// Digest computes the typed commitment of a value: a tagged engine is
// initialized from the type's domain tag, the commit-encoding is driven
// into it and the digest finalized.
func Digest(v Tagger) [32]byte {
	tag := v.CommitTag()
	engine := hashing.NewTagged(tag[:])
	Encode(engine, v)

	var id [32]byte
	copy(id[:], engine.Finish())
	return id
}

func marshalInto(engine *hashing.Engine, m encoding.Marshaler) {
	if err := m.MarshalCanonical(encoding.NewWriter(engine)); err != nil {
		// Canonical serialization of a well-formed value cannot fail;
		// an error here means the value breaks its own declared bounds.
		panic(fmt.Sprintf("commit: canonical serialization failed: %v", err))
	}
}

func panicCapability(v Encodable, strategy Strategy) {
	panic(fmt.Sprintf("commit: type %T declares the %s strategy but lacks its capability", v, strategy))
}
