package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/ionx/internal/errors"
)

func newGenDocCmd(_ *App) *cobra.Command {
	var dir, format string

	cmd := &cobra.Command{
		Use:    "gen-doc",
		Short:  "Generate reference documentation for the CLI",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				return errors.NewUserError(errors.New("output directory is required"), "pass --dir")
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(err, "creating output directory")
			}

			root := cmd.Root()
			var err error
			switch format {
			case "markdown":
				err = doc.GenMarkdownTreeCustom(root, dir, filePrepender, linkHandler)
			case "man":
				err = doc.GenManTree(root, &doc.GenManHeader{Title: "IONX", Section: "1"}, dir)
			default:
				return errors.NewUserError(errors.Newf("unknown format %q", format), "use markdown or man")
			}
			if err != nil {
				return errors.Wrapf(err, "generating %s", format)
			}

			fprintf(cmd.OutOrStdout(), "Documentation generated in %s\n", dir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory for documentation")
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown, man")
	return cmd
}

// filePrepender adds front matter to each markdown page.
func filePrepender(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	// ionx_service_add.md -> ionx service add
	title := strings.ReplaceAll(base, "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for %s command"
---
`, title, title)
}

func linkHandler(name string) string {
	return strings.ToLower(name)
}
