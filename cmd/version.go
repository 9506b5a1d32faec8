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
)

var releaseVersion = "dev"
var releaseCommit = "none"
var releaseDate = "unknown"

// SetReleaseInfo records the build information injected by the linker.
func SetReleaseInfo(version, commit, date string) {
	releaseVersion = version
	releaseCommit = commit
	releaseDate = date
}

var versionCmd *cobra.Command = &cobra.Command{
	Use:   "version",
	Short: "Show the mpcommit build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mpcommit version %s, build %s, date %s\n", releaseVersion, releaseCommit, releaseDate)
	},
}

func init() {
	Root.AddCommand(versionCmd)
}
