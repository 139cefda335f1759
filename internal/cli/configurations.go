package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/swprops/internal/ctxlog"
)

func newConfigurationsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "configurations <document>",
		Short: "List the configurations of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctxlog.FromContext(cmd.Context())

			lib, err := opts.attachLibrary(logger)
			if err != nil {
				return err
			}
			defer lib.Detach()

			doc, err := lib.OpenDocument(args[0])
			if err != nil {
				return userError(err)
			}
			names, err := lib.ConfigurationNames(doc)
			if err != nil {
				return sysError(err)
			}

			out := cmd.OutOrStdout()
			if opts.jsonMode {
				return writeJSON(out, map[string]any{
					"document":       doc.Name(),
					"active":         doc.ActiveConfiguration(),
					"configurations": names,
				})
			}
			for _, n := range names {
				marker := " "
				if n == doc.ActiveConfiguration() {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, n)
			}
			return nil
		},
	}
}
