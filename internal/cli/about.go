package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const aboutText = `There are two ways to reach a model and read its custom properties:
  - session:  the model is opened into a live session first
  - document: the model is read straight from the library, no session needed

Custom properties live in two places inside a model:
  - generic:                kept at the model level (part, assembly or drawing)
  - configuration specific: unique to one configuration of the model

Commands:
  - components: list every component below an assembly's root
  - property:   read a generic or configuration-specific custom property
`

func newAboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Explain backends and property locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), aboutText)
			return nil
		},
	}
}
