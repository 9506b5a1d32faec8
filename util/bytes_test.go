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

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUintAsBytes(t *testing.T) {
	testCases := []struct {
		value    uint64
		expected []byte
		encode   func(uint64) []byte
	}{
		{0x01, []byte{0x01}, func(v uint64) []byte { return Uint8AsBytes(uint8(v)) }},
		{0x0102, []byte{0x02, 0x01}, func(v uint64) []byte { return Uint16AsBytes(uint16(v)) }},
		{0x010203, []byte{0x03, 0x02, 0x01}, func(v uint64) []byte { return Uint24AsBytes(uint32(v)) }},
		{0x01020304, []byte{0x04, 0x03, 0x02, 0x01}, func(v uint64) []byte { return Uint32AsBytes(uint32(v)) }},
		{0x0102030405060708, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, Uint64AsBytes},
	}

	for i, c := range testCases {
		assert.Equalf(t, c.expected, c.encode(c.value), "unexpected little-endian encoding in test case %d", i)
	}
}

func TestBytesAsUint64(t *testing.T) {
	assert.Equal(t, uint64(0), BytesAsUint64([]byte{}))
	assert.Equal(t, uint64(0x0102), BytesAsUint64([]byte{0x02, 0x01}))
	assert.Equal(t, uint16(0xbeef), BytesAsUint16([]byte{0xef, 0xbe}))
}
