package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vasuvaghasia/formate/internal/docaccess"
	"github.com/vasuvaghasia/formate/internal/report"
	"github.com/vasuvaghasia/formate/internal/styles"
)

func analyzeCmd() *cobra.Command {
	var template string
	var templateDir string
	var reportPath string
	var skip []string

	cmd := &cobra.Command{
		Use:   "analyze <document>",
		Short: "Detect formatting problems and print the proposed changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(templateDir)
			if err != nil {
				return err
			}

			opts, err := buildOptions(eng.Registry(), template, skip)
			if err != nil {
				return err
			}
			// Analysis never touches the document.
			opts.Mode = styles.ModeSuggest

			path := args[0]
			access, err := docaccess.ForFile(path, "")
			if err != nil {
				return err
			}

			run := eng.NewRun(access, filepath.Base(path), "", opts)
			if err := eng.Analyze(cmd.Context(), run); err != nil {
				return err
			}
			snap := run.Snapshot()

			if reportPath != "" {
				html, err := report.Render(snap.Filename, snap.Problems, snap.Changes)
				if err != nil {
					return err
				}
				if err := os.WriteFile(reportPath, []byte(html), 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", reportPath)
			}

			out, err := json.MarshalIndent(map[string]any{
				"filename": snap.Filename,
				"problems": snap.Problems,
				"changes":  snap.Changes,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "standard", "style template to compare against")
	cmd.Flags().StringVar(&templateDir, "template-dir", "", "directory of extra *.yaml templates")
	cmd.Flags().StringVar(&reportPath, "report", "", "also write an HTML review report to this path")
	cmd.Flags().StringSliceVar(&skip, "skip", nil, "category toggles to disable (e.g. fonts,tables)")
	return cmd
}

// buildOptions merges template defaults over the baseline, then applies the
// user's skip list on top.
func buildOptions(reg *styles.Registry, template string, skip []string) (styles.AutoFormatOptions, error) {
	opts := styles.DefaultOptions()
	opts, err := reg.ApplyTemplateSettings(opts, template)
	if err != nil {
		return opts, err
	}
	for _, key := range skip {
		opts.SetToggle(key, false)
	}
	return opts, nil
}
