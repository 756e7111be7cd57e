package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"storefront-layout-backend/internal/service"
	"storefront-layout-backend/internal/styles"
	"storefront-layout-backend/pkg/validator"
)

func (c *CLI) cssCommand() *cobra.Command {
	var important bool

	cmd := &cobra.Command{
		Use:   "css <scope>",
		Short: "Print the resolved CSS of a stored layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseScope(args[0])
			if err != nil {
				return err
			}

			return c.withStore(cmd.Context(), func(store *service.LayoutStore) error {
				doc, err := store.Load(cmd.Context(), scope)
				if err != nil {
					return err
				}
				css := styles.Format(styles.ResolveDocument(doc), styles.FormatOptions{Important: important || c.cfg.CSSImportant})
				_, err = io.WriteString(cmd.OutOrStdout(), css)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&important, "important", false, "append !important to every declaration")
	return cmd
}

func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <scope>",
		Short: "Write a stored layout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseScope(args[0])
			if err != nil {
				return err
			}

			return c.withStore(cmd.Context(), func(store *service.LayoutStore) error {
				doc, err := store.Load(cmd.Context(), scope)
				if err != nil {
					return err
				}

				payload, err := service.EncodeLayout(doc)
				if err != nil {
					return err
				}
				var pretty bytes.Buffer
				if err := json.Indent(&pretty, payload, "", "  "); err != nil {
					return err
				}
				pretty.WriteByte('\n')

				if output == "" || output == "-" {
					_, err = cmd.OutOrStdout().Write(pretty.Bytes())
					return err
				}
				if err := os.WriteFile(output, pretty.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sections of %s to %s\n", len(doc.Sections), scope, output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) importCommand() *cobra.Command {
	var scopeOverride string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace a stored layout with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			if scopeOverride != "" {
				if _, err := parseScope(scopeOverride); err != nil {
					return err
				}
			}

			doc, err := service.DecodeLayout(data, strings.TrimSpace(scopeOverride), c.registry)
			if err != nil {
				return err
			}
			if _, err := parseScope(doc.ScopeID); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			return c.withStore(cmd.Context(), func(store *service.LayoutStore) error {
				if err := store.Save(cmd.Context(), doc); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sections into %s\n", len(doc.Sections), doc.ScopeID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&scopeOverride, "scope", "", "store under this scope instead of the one in the file")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func parseScope(raw string) (string, error) {
	scope := strings.TrimSpace(raw)
	if !validator.ValidScopeID(scope) {
		return "", fmt.Errorf("invalid scope %q: %w", raw, service.ErrInvalidScope)
	}
	return scope, nil
}
