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
	"io/ioutil"

	"github.com/spf13/cobra"

	"github.com/bbva/mpcommit/mpc"
)

var inspectCmd *cobra.Command = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect a serialized commitment tree and recompute its commitment",
	RunE:  runInspect,
}

var (
	inspectFile     string
	inspectProtocol string
)

func init() {

	inspectCmd.Flags().StringVar(&inspectFile, "file", "", "File holding a serialized tree")
	inspectCmd.Flags().StringVar(&inspectProtocol, "protocol", "", "Verify that this protocol id is present and show its message")
	inspectCmd.MarkFlagRequired("file")

	Root.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {

	data, err := ioutil.ReadFile(inspectFile)
	if err != nil {
		return err
	}
	tree, err := mpc.DeserializeTree(data)
	if err != nil {
		return err
	}

	fmt.Printf("\nDecoded commitment tree with values:\n\n")
	fmt.Printf(" Depth: %d\n", tree.Depth())
	fmt.Printf(" Width: %d\n", tree.Width())
	fmt.Printf(" Entropy: %d\n", tree.Entropy())
	fmt.Printf(" Messages: %d\n", tree.Len())
	fmt.Printf(" Root: %s\n", tree.Root())
	fmt.Printf(" Commitment: %s\n\n", tree.CommitmentID())

	if inspectProtocol != "" {
		protocol, err := mpc.ProtocolIDFromHex(inspectProtocol)
		if err != nil {
			return err
		}
		message, ok := tree.Message(protocol)
		if !ok {
			return fmt.Errorf("Protocol %s is not present in the tree!", protocol)
		}
		fmt.Printf("Protocol %s commits to message %s at slot %d\n\n",
			protocol, message, tree.ProtocolIDPos(protocol))
	}

	return nil
}
