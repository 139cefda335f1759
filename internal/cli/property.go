package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/swprops/internal/ctxlog"
	"github.com/mesh-intelligence/swprops/pkg/properties"
	"github.com/mesh-intelligence/swprops/pkg/types"
)

// propertyView is the JSON shape of one resolution.
type propertyView struct {
	Document      string `json:"document"`
	Property      string `json:"property"`
	Configuration string `json:"configuration,omitempty"`
	Value         string `json:"value"`
	Found         bool   `json:"found"`
}

func newPropertyCmd(opts *rootOptions) *cobra.Command {
	var configuration string

	cmd := &cobra.Command{
		Use:   "property <document> <name>",
		Short: "Read a custom property",
		Long: `Property prints the resolved value of a custom property. Without
--configuration the generic (model-level) property is read.

A property that is not set exits with code 1 and "not set" on stderr; an
unknown configuration also exits with code 1 but reports the configuration.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctxlog.FromContext(cmd.Context())
			docName, propName := args[0], args[1]

			lib, err := opts.attachLibrary(logger)
			if err != nil {
				return err
			}
			defer lib.Detach()

			access, err := opts.openModel(lib, docName, logger)
			if err != nil {
				return err
			}

			res, err := properties.ResolveQuery(access.resolver, properties.Query{
				PropertyName:  propName,
				Model:         access.model,
				Configuration: configuration,
			})
			if err != nil {
				return resolveError(err)
			}

			out := cmd.OutOrStdout()
			if opts.jsonMode {
				return writeJSON(out, propertyView{
					Document:      docName,
					Property:      propName,
					Configuration: configuration,
					Value:         res.Value,
					Found:         res.Found,
				})
			}
			if !res.Found {
				scope := "generic"
				if configuration != "" {
					scope = "configuration " + configuration
				}
				return userError(fmt.Errorf("property %q not set (%s)", propName, scope))
			}
			fmt.Fprintln(out, res.Value)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configuration, "configuration", "c", "", "configuration name (default: generic property)")
	return cmd
}

// resolveError maps a resolver error to an exit code. Bad queries are user
// errors; storage failures are system errors.
func resolveError(err error) error {
	if properties.IsConfigurationNotFound(err) ||
		errors.Is(err, types.ErrInvalidName) ||
		errors.Is(err, types.ErrNilModel) {
		return userError(err)
	}
	return sysError(err)
}
