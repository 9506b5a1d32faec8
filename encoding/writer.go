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

// Package encoding implements the canonical binary codec driving bytes
// into commitment engines. The encoding is deterministic: identical
// logical values always produce identical byte sequences, which is what
// makes commitments stable across implementations. All integers are
// little-endian; collections carry a length prefix sized to their
// declared maximum.
package encoding

import (
	"fmt"
	"io"

	"github.com/bbva/mpcommit/util"
)

// Marshaler is the capability implemented by every type participating in
// canonical serialization.
type Marshaler interface {
	MarshalCanonical(w *Writer) error
}

// Writer encodes canonical bytes into an underlying io.Writer, usually a
// tagged hash engine.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Bytes writes a raw byte run with no framing. Fixed-length values need
// no length prefix.
func (w *Writer) Bytes(data []byte) error {
	_, err := w.w.Write(data)
	return err
}

func (w *Writer) Uint8(v uint8) error {
	return w.Bytes(util.Uint8AsBytes(v))
}

func (w *Writer) Uint16(v uint16) error {
	return w.Bytes(util.Uint16AsBytes(v))
}

func (w *Writer) Uint32(v uint32) error {
	return w.Bytes(util.Uint32AsBytes(v))
}

func (w *Writer) Uint64(v uint64) error {
	return w.Bytes(util.Uint64AsBytes(v))
}

// BytesWithLen writes a little-endian length prefix sized to the smallest
// width able to represent max, then the raw bytes. Unlike the tagged
// engine equivalent, max here may come from runtime data, so overflow is
// reported as an error instead of a panic.
func (w *Writer) BytesWithLen(max uint64, data []byte) error {
	length := uint64(len(data))
	if length > max {
		return fmt.Errorf("encoding: data length %d exceeds declared maximum %d", length, max)
	}
	var prefix []byte
	switch {
	case max <= 1<<8-1:
		prefix = util.Uint8AsBytes(uint8(length))
	case max <= 1<<16-1:
		prefix = util.Uint16AsBytes(uint16(length))
	case max <= 1<<24-1:
		prefix = util.Uint24AsBytes(uint32(length))
	case max <= 1<<32-1:
		prefix = util.Uint32AsBytes(uint32(length))
	default:
		return fmt.Errorf("encoding: declared maximum %d needs a length prefix wider than 32 bits", max)
	}
	if err := w.Bytes(prefix); err != nil {
		return err
	}
	return w.Bytes(data)
}

// Marshal serializes a value into a newly allocated buffer.
func Marshal(v Marshaler) ([]byte, error) {
	var buf writeBuffer
	if err := v.MarshalCanonical(NewWriter(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

type writeBuffer []byte

func (b *writeBuffer) Write(p []byte) (int, error) {
	*b = append(*b, p...)
	return len(p), nil
}
