// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/references/internal/core/metadata"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Ask the running job to stop after its current batch",
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
		if state.Status != metadata.StatusRunning {
			fmt.Fprintf(cmd.OutOrStdout(), "no run in progress (status %s)\n", state.Status)
			return nil
		}

		if err := store.RequestStop(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stop requested for run %s\n", state.RunID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
