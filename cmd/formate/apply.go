package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vasuvaghasia/formate/internal/docaccess"
	"github.com/vasuvaghasia/formate/internal/engine"
	"github.com/vasuvaghasia/formate/internal/styles"
)

func applyCmd() *cobra.Command {
	var template string
	var templateDir string
	var out string
	var skip []string
	var changeIDs []string

	cmd := &cobra.Command{
		Use:   "apply <document>",
		Short: "Analyze a document and apply the formatting changes",
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
			opts.Mode = styles.ModeSemiAuto

			path := args[0]
			if out == "" {
				dir, base := filepath.Split(path)
				out = filepath.Join(dir, "formatted_"+base)
			}
			access, err := docaccess.ForFile(path, out)
			if err != nil {
				return err
			}

			run := eng.NewRun(access, filepath.Base(path), out, opts)
			if err := eng.Analyze(cmd.Context(), run); err != nil {
				return err
			}
			if len(run.Snapshot().Changes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no changes needed")
				return nil
			}

			var ids []string
			if len(changeIDs) > 0 {
				ids = changeIDs
			}
			entry, err := eng.Apply(cmd.Context(), run, ids, func(p engine.Progress) {
				fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s\n", p.Applied, p.Total, p.Step)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d change(s) (%s) in %dms\n",
				entry.ChangesApplied, strings.Join(entry.Categories, ", "), entry.DurationMS)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "standard", "style template to apply")
	cmd.Flags().StringVar(&templateDir, "template-dir", "", "directory of extra *.yaml templates")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: formatted_<name> next to the input)")
	cmd.Flags().StringSliceVar(&skip, "skip", nil, "category toggles to disable (e.g. fonts,tables)")
	cmd.Flags().StringSliceVar(&changeIDs, "changes", nil, "apply only these change ids (default: all)")
	return cmd
}
