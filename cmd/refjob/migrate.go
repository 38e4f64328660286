// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"github.com/spf13/cobra"

	"github.com/taibuivan/references/internal/platform/migration"
)

var migrateStatusOnly bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the reference_metadata table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateStatusOnly {
			status, err := migration.CurrentStatus(cfg.DatabaseURL, cfg.MigrationPath, log)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), status)
		}
		return migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log)
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatusOnly, "status", false, "Print the applied version without migrating")
	rootCmd.AddCommand(migrateCmd)
}
