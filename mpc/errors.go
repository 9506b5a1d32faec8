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
	"errors"
	"fmt"
)

// Tree construction errors. All of them are local validation failures
// raised before any partial tree becomes observable; none is retryable.
var (
	// ErrEmpty rejects a commitment to nothing: zero requested depth and
	// zero messages.
	ErrEmpty = errors.New("mpc: can't create a commitment for an empty message list and zero tree depth")

	// ErrCantFitInMaxSlots is returned when the depth search exceeds the
	// maximum tree depth without resolving slot collisions. Given the
	// message count precheck this is a safety net, not an expected path.
	ErrCantFitInMaxSlots = errors.New("mpc: protocol ids can't fit in the maximum tree depth")
)

// TooManyMessagesError rejects message counts beyond the 16-bit slot
// space: no tree depth could ever fit them.
type TooManyMessagesError struct {
	Count int
}

func (e *TooManyMessagesError) Error() string {
	return fmt.Sprintf("mpc: number of messages (%d) exceeds the protocol limit of 2^16", e.Count)
}
