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

package hashing

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"golang.org/x/crypto/ripemd160"

	"github.com/bbva/mpcommit/util"
)

// Max values selecting the width of the length prefix written by
// Engine.WriteWithLen. The prefix is always the smallest little-endian
// width able to represent the given maximum.
const (
	MaxU8  uint64 = 1<<8 - 1
	MaxU16 uint64 = 1<<16 - 1
	MaxU24 uint64 = 1<<24 - 1
	MaxU32 uint64 = 1<<32 - 1
)

// Midstate returns the initial state commitment of a tagged engine: the
// digest of the domain tag which every engine created for that tag absorbs
// twice before any payload data. It is a pure function of the tag, so two
// engines for the same tag always start from the same state, and engines
// for distinct tags start from statistically independent states.
func Midstate(tag []byte) Digest {
	d := sha256.Sum256(tag)
	return d[:]
}

// Engine is a hash engine pre-seeded with a double-hashed domain tag.
// It accumulates the commit-encoding of a single value and is consumed
// by Finish.
type Engine struct {
	h        hash.Hash
	size     int
	finished bool
}

// NewTagged returns a SHA256 engine whose state is a function of the given
// tag only. The tag is hashed once and the result is fed twice into a fresh
// engine, following the usual tagged-hash construction.
func NewTagged(tag []byte) *Engine {
	return newTagged(sha256.New, sha256.Size, tag)
}

// NewTaggedRipemd160 returns a RIPEMD160 engine built with the same
// double-hash domain separation as NewTagged, producing 20-byte digests.
func NewTaggedRipemd160(tag []byte) *Engine {
	return newTagged(ripemd160.New, ripemd160.Size, tag)
}

func newTagged(algo func() hash.Hash, size int, tag []byte) *Engine {
	tagger := algo()
	_, _ = tagger.Write(tag)
	midstate := tagger.Sum(nil)

	h := algo()
	_, _ = h.Write(midstate)
	_, _ = h.Write(midstate)
	return &Engine{h: h, size: size}
}

// Write feeds raw bytes into the engine. It implements io.Writer and
// never returns an error.
func (e *Engine) Write(data []byte) (int, error) {
	if e.finished {
		panic("hashing: write to a finished tagged engine")
	}
	return e.h.Write(data)
}

// WriteWithLen writes a little-endian length prefix sized to the smallest
// width able to represent max, followed by the raw bytes. The data length
// not fitting that width is a bug at the call site, where max is a
// constant, so it panics instead of returning an error.
func (e *Engine) WriteWithLen(max uint64, data []byte) {
	length := uint64(len(data))
	switch {
	case max <= MaxU8:
		e.assertFits(length, MaxU8)
		_, _ = e.Write(util.Uint8AsBytes(uint8(length)))
	case max <= MaxU16:
		e.assertFits(length, MaxU16)
		_, _ = e.Write(util.Uint16AsBytes(uint16(length)))
	case max <= MaxU24:
		e.assertFits(length, MaxU24)
		_, _ = e.Write(util.Uint24AsBytes(uint32(length)))
	case max <= MaxU32:
		e.assertFits(length, MaxU32)
		_, _ = e.Write(util.Uint32AsBytes(uint32(length)))
	default:
		panic("hashing: length prefixes wider than 32 bits are not supported")
	}
	_, _ = e.Write(data)
}

func (e *Engine) assertFits(length, max uint64) {
	if length > max {
		panic(fmt.Sprintf("hashing: data length %d exceeds the %d-byte limit of its length prefix", length, max))
	}
}

// Size returns the byte length of the digest produced by Finish.
func (e *Engine) Size() int { return e.size }

// Finish consumes the engine and returns its digest. Any further use of
// the engine panics.
func (e *Engine) Finish() Digest {
	if e.finished {
		panic("hashing: tagged engine already finished")
	}
	e.finished = true
	return e.h.Sum(nil)
}
