// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command refjob drives the metadata cache job.
//
// The job runs in this process, on its own writable pool, never inside the
// API server. Its state lives in Redis so that "refjob status" and the API
// can observe a run and "refjob stop" can end it at the next batch boundary.
//
//	refjob migrate
//	refjob run [--batch-size 100] [--force]
//	refjob stop
//	refjob status
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/references/internal/platform/config"
	"github.com/taibuivan/references/internal/platform/constants"
)

var (
	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "refjob",
	Short:         "Maintain the reference_metadata cache table",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		level := slog.LevelInfo
		if cfg.Debug {
			level = slog.LevelDebug
		}
		handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		log = slog.New(handler).With(slog.String("app", constants.AppName+"-job"))
		slog.SetDefault(log)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "refjob:", err)
		os.Exit(1)
	}
}

// printJSON writes v indented to out.
func printJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
