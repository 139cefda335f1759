package sqlite

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/swprops/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// attach returns a backend attached to a fresh temp data dir. Detach is
// registered as cleanup.
func attach(t *testing.T) *Backend {
	t.Helper()
	return attachAt(t, t.TempDir())
}

func attachAt(t *testing.T, dir string) *Backend {
	t.Helper()
	b := NewBackend(quietLogger())
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendDocument, DataDir: dir}))
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

// frameRecord is the assembly R[A[C], B] with generic Material=Steel and
// Material=Titanium under Heavy.
func frameRecord() *types.DocumentRecord {
	return &types.DocumentRecord{
		Name:                "Frame.SLDASM",
		Kind:                types.KindAssembly,
		ActiveConfiguration: "Default",
		Properties: []types.PropertyRecord{
			{Name: "Material", Value: "Steel", Type: types.ValueTypeText},
			{Name: "Description", Value: `$PRP:"Material" frame`, Type: types.ValueTypeText},
			{Name: "Weight", Value: "12.5", Type: types.ValueTypeNumber},
		},
		Configurations: []types.ConfigurationRecord{
			{
				Name: "Default",
				Components: []types.ComponentRecord{
					{
						Name:          "A-1",
						Document:      "A.SLDASM",
						Configuration: "Default",
						Children:      []types.ComponentRecord{{Name: "C-1", Document: "C.SLDPRT", Configuration: "Default"}},
					},
					{Name: "B-1", Document: "B.SLDPRT", Configuration: "Default"},
				},
			},
			{
				Name: "Heavy",
				Properties: []types.PropertyRecord{
					{Name: "Material", Value: "Titanium", Type: types.ValueTypeText},
					{Name: "Label", Value: `$PRP:"Material" ($PRPSHEET:"Material") $PRP:"SW-Configuration Name"`, Type: types.ValueTypeText},
				},
				Components: []types.ComponentRecord{{Name: "B-1", Document: "B.SLDPRT", Configuration: "Heavy"}},
			},
		},
	}
}
