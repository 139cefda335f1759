package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/swprops/internal/ctxlog"
	"github.com/mesh-intelligence/swprops/pkg/types"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>...",
		Short: "Add documents to the library",
		Long: `Import reads documents from JSON files and stores them in the library,
replacing documents of the same name. A file holds one document object or
an array of them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctxlog.FromContext(cmd.Context())

			var records []*types.DocumentRecord
			for _, path := range args {
				recs, err := readDocumentFile(path)
				if err != nil {
					return userError(err)
				}
				records = append(records, recs...)
			}

			lib, err := opts.attachLibrary(logger)
			if err != nil {
				return err
			}
			defer lib.Detach()

			for _, rec := range records {
				if err := lib.Import(rec); err != nil {
					return userError(err)
				}
				if !opts.jsonMode {
					fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", rec.Name)
				}
			}
			if opts.jsonMode {
				names := make([]string, len(records))
				for i, r := range records {
					names[i] = r.Name
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{"imported": names})
			}
			return nil
		},
	}
}

// readDocumentFile decodes one document or an array of documents.
func readDocumentFile(path string) ([]*types.DocumentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '[' {
		var recs []*types.DocumentRecord
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return recs, nil
	}
	var rec types.DocumentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return []*types.DocumentRecord{&rec}, nil
}
