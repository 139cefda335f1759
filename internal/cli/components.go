package cli

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/swprops/internal/ctxlog"
	"github.com/mesh-intelligence/swprops/pkg/assembly"
)

// componentView is the JSON shape of one flattened component.
type componentView struct {
	Index         int    `json:"index"`
	Name          string `json:"name"`
	Depth         int    `json:"depth"`
	Document      string `json:"document,omitempty"`
	Configuration string `json:"configuration,omitempty"`
}

func newComponentsCmd(opts *rootOptions) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "components <document>",
		Short: "List every component of an assembly",
		Long: `Components lists every component below the root of the document's active
configuration, parents before their children and siblings in order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctxlog.FromContext(cmd.Context())

			lib, err := opts.attachLibrary(logger)
			if err != nil {
				return err
			}
			defer lib.Detach()

			access, err := opts.openModel(lib, args[0], logger)
			if err != nil {
				return err
			}
			root, err := access.roots.RootComponent(access.model)
			if err != nil {
				return userError(err)
			}
			entries := assembly.NewFlattener(access.children, logger).Walk(root)

			views := make([]componentView, len(entries))
			for i, e := range entries {
				views[i] = componentView{Index: i, Name: e.Component.Name(), Depth: e.Depth}
				if ref, ok := e.Component.(referencing); ok {
					views[i].Document = ref.ReferencedDocument()
					views[i].Configuration = ref.ReferencedConfiguration()
				}
			}

			out := cmd.OutOrStdout()
			switch {
			case opts.jsonMode:
				return writeJSON(out, views)
			case tree:
				items := pterm.LeveledList{{Level: 0, Text: root.Name()}}
				for _, v := range views {
					items = append(items, pterm.LeveledListItem{Level: v.Depth, Text: v.Name})
				}
				s, err := pterm.DefaultTree.WithRoot(putils.TreeFromLeveledList(items)).Srender()
				if err != nil {
					return sysError(err)
				}
				fmt.Fprint(out, s)
				return nil
			case len(views) == 0:
				fmt.Fprintf(out, "%s has no components\n", args[0])
				return nil
			default:
				data := pterm.TableData{{"#", "Component", "Document", "Configuration"}}
				for _, v := range views {
					data = append(data, []string{strconv.Itoa(v.Index), v.Name, v.Document, v.Configuration})
				}
				s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
				if err != nil {
					return sysError(err)
				}
				fmt.Fprintln(out, s)
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "render the component hierarchy as a tree")
	return cmd
}
