package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront-layout-backend/internal/app"
)

func (c *CLI) templatesCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List layout templates, validating an optional TOML preset file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = c.cfg.TemplatesFile
			}

			catalog, err := app.LoadTemplateCatalog(c.registry, file)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSECTIONS")
			for _, tmpl := range catalog.List() {
				fmt.Fprintf(w, "%s\t%s\t%d\n", tmpl.ID, tmpl.Name, len(tmpl.Sections))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "TOML preset file (default from LAYOUT_TEMPLATES_FILE)")
	return cmd
}
