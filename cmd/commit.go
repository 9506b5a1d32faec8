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
	"strings"

	"github.com/spf13/cobra"
	v "github.com/spf13/viper"

	"github.com/bbva/mpcommit/mpc"
)

var commitCmd *cobra.Command = &cobra.Command{
	Use:   "commit",
	Short: "Build a multi-protocol commitment tree from protocol:message pairs",
	RunE:  runCommit,
}

var (
	commitMessages []string
	commitMinDepth uint8
	commitEntropy  uint64
	commitOutFile  string
)

func init() {

	commitCmd.Flags().StringSliceVar(&commitMessages, "msg", []string{}, "Message to commit to, as <protocol-hex>:<message-hex> with 32 bytes each")
	commitCmd.Flags().Uint8Var(&commitMinDepth, "min-depth", 0, "Minimal depth of the created tree")
	commitCmd.Flags().Uint64Var(&commitEntropy, "entropy", 0, "Fixed entropy for the placeholder leaves. If not set, entropy is drawn at random")
	commitCmd.Flags().StringVar(&commitOutFile, "out", "", "File to write the serialized tree to")
	commitCmd.MarkFlagRequired("msg")

	v.BindPFlag("commit.min_depth", commitCmd.Flags().Lookup("min-depth"))

	Root.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {

	messages := make(map[mpc.ProtocolID]mpc.Message, len(commitMessages))
	for _, pair := range commitMessages {
		protocol, message, err := parsePair(pair)
		if err != nil {
			return err
		}
		if _, ok := messages[protocol]; ok {
			return fmt.Errorf("Protocol %s appears more than once!", protocol)
		}
		messages[protocol] = message
	}

	source := &mpc.MultiSource{
		MinDepth: uint8(v.GetInt("commit.min_depth")),
		Messages: messages,
	}
	if cmd.Flags().Changed("entropy") {
		source.StaticEntropy = &commitEntropy
	}

	tree, err := mpc.TryCommit(source)
	if err != nil {
		return err
	}

	fmt.Printf("\nCreated commitment tree with values:\n\n")
	fmt.Printf(" Depth: %d\n", tree.Depth())
	fmt.Printf(" Width: %d\n", tree.Width())
	fmt.Printf(" Entropy: %d\n", tree.Entropy())
	fmt.Printf(" Root: %s\n", tree.Root())
	fmt.Printf(" Commitment: %s\n\n", tree.CommitmentID())

	if commitOutFile != "" {
		data, err := tree.Serialize()
		if err != nil {
			return err
		}
		if err := ioutil.WriteFile(commitOutFile, data, 0644); err != nil {
			return err
		}
		fmt.Printf("Serialized tree written to %s\n", commitOutFile)
	}

	return nil
}

func parsePair(pair string) (mpc.ProtocolID, mpc.Message, error) {
	parts := strings.SplitN(pair, ":", 2)
	if len(parts) != 2 {
		return mpc.ProtocolID{}, mpc.Message{}, fmt.Errorf("Invalid message `%s`: expected <protocol-hex>:<message-hex>", pair)
	}
	protocol, err := mpc.ProtocolIDFromHex(parts[0])
	if err != nil {
		return mpc.ProtocolID{}, mpc.Message{}, err
	}
	message, err := mpc.MessageFromHex(parts[1])
	if err != nil {
		return mpc.ProtocolID{}, mpc.Message{}, err
	}
	return protocol, message, nil
}
