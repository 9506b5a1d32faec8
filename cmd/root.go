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

// Package cmd implements the mpcommit command line tool.
package cmd

import (
	"github.com/spf13/cobra"
	v "github.com/spf13/viper"

	"github.com/bbva/mpcommit/log"
)

var Root *cobra.Command = &cobra.Command{
	Use:   "mpcommit",
	Short: "Multi-protocol commitment tool",
	Long:  "mpcommit builds multi-protocol merkle commitment trees and derives deterministic commitments from per-protocol messages",
	// SilenceUsage is set to true -> https://github.com/spf13/cobra/issues/340
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetLogger("Mpcommit", v.GetString("log"))
	},
}

var logLevel string

func init() {
	Root.PersistentFlags().StringVarP(&logLevel, "log", "l", "error", "Choose between log levels: silent, error, info and debug")
	v.BindPFlag("log", Root.PersistentFlags().Lookup("log"))
}
