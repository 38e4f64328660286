// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of the last run as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := stateStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		state, err := store.Load(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), state)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
