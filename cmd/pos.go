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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bbva/mpcommit/mpc"
)

var posCmd *cobra.Command = &cobra.Command{
	Use:   "pos",
	Short: "Show the slot a protocol id occupies at a given tree depth",
	RunE:  runPos,
}

var (
	posProtocol string
	posDepth    uint8
)

func init() {

	posCmd.Flags().StringVar(&posProtocol, "protocol", "", "Protocol id as 32 bytes of hex")
	posCmd.Flags().Uint8Var(&posDepth, "depth", 0, "Depth of the tree to place the protocol in")
	posCmd.MarkFlagRequired("protocol")

	Root.AddCommand(posCmd)
}

func runPos(cmd *cobra.Command, args []string) error {

	protocol, err := mpc.ProtocolIDFromHex(posProtocol)
	if err != nil {
		return err
	}
	if posDepth > mpc.MaxDepth {
		return fmt.Errorf("Depth %d exceeds the maximum of %d!", posDepth, mpc.MaxDepth)
	}

	width := uint32(1) << posDepth
	fmt.Printf("\nProtocol %s at depth %d (width %d) occupies slot %d\n\n",
		protocol, posDepth, width, mpc.ProtocolIDPos(protocol, width))

	return nil
}
