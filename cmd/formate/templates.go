package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vasuvaghasia/formate/internal/styles"
)

func templatesCmd() *cobra.Command {
	var templateDir string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the available style templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := styles.NewRegistry()
			if templateDir != "" {
				if _, err := reg.LoadTemplateDir(templateDir); err != nil {
					return err
				}
			}
			for _, t := range reg.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s: %s (%s %gpt, spacing %g)\n",
					t.ID, t.Name, t.Description, t.Rules.Font, t.Rules.FontSize, t.Rules.LineSpacing)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&templateDir, "template-dir", "", "directory of extra *.yaml templates")
	return cmd
}
