package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vasuvaghasia/formate/internal/audit"
)

func historyCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the local run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			auditLog := audit.NewLogger(audit.NewFileKV(historyPath()), "cli", log)

			if clear {
				auditLog.Clear(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
				return nil
			}

			entries := auditLog.History(cmd.Context())
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %d change(s)  %s  %dms\n",
					e.Timestamp.Format("2006-01-02 15:04:05"),
					e.ChangesApplied, strings.Join(e.Categories, ","), e.DurationMS)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "delete the recorded history")
	return cmd
}
