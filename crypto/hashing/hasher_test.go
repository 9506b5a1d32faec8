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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSha256Hasher(t *testing.T) {
	hasher := NewSha256Hasher()
	assert.Len(t, []byte(hasher.Do([]byte("a test event"))), 32)
	assert.Equal(t, hasher.Do([]byte("x")), hasher.Do([]byte("x")))
	assert.NotEqual(t, hasher.Do([]byte("x")), hasher.Do([]byte("y")))
}

func TestBlake2bHasher(t *testing.T) {
	hasher := NewBlake2bHasher()
	assert.Len(t, []byte(hasher.Do([]byte("a test event"))), 32)
	assert.NotEqual(t, hasher.Do([]byte("x")), NewSha256Hasher().Do([]byte("x")))
}

func TestXorHasher(t *testing.T) {
	hasher := NewXorHasher()
	assert.Equal(t, Digest{0x00}, hasher.Do([]byte{0x01, 0x01}))
	assert.Equal(t, Digest{0x03}, hasher.Do([]byte{0x01}, []byte{0x02}))
}
