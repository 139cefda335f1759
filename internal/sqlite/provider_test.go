package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/swprops/pkg/assembly"
	"github.com/mesh-intelligence/swprops/pkg/properties"
	"github.com/mesh-intelligence/swprops/pkg/types"
)

type otherModel struct{}

func (otherModel) ModelID() string { return "other" }
func (otherModel) Name() string    { return "other" }

func names(cs []types.Component) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	return out
}

func openFrame(t *testing.T) (*Backend, *Document) {
	t.Helper()
	b := attach(t)
	require.NoError(t, b.Import(frameRecord()))
	doc, err := b.OpenDocument("Frame.SLDASM")
	require.NoError(t, err)
	return b, doc
}

func TestProvider_FlattenActiveConfiguration(t *testing.T) {
	b, doc := openFrame(t)

	got, err := assembly.NewFlattener(b, quietLogger()).FlattenModel(b, doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1", "C-1", "B-1"}, names(got))

	c := got[1].(*Component)
	assert.Equal(t, "C.SLDPRT", c.ReferencedDocument())
	assert.Equal(t, "Default", c.ReferencedConfiguration())
}

func TestProvider_ChildHandlesAreFreshButStable(t *testing.T) {
	b, doc := openFrame(t)
	root, err := b.RootComponent(doc)
	require.NoError(t, err)

	first, err := b.GetChildren(root)
	require.NoError(t, err)
	second, err := b.GetChildren(root)
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.NotSame(t, first[0], second[0])
	assert.Equal(t, first[0].ComponentID(), second[0].ComponentID())
}

func TestProvider_PartWithoutConfigurationsHasNoChildren(t *testing.T) {
	b := attach(t)
	require.NoError(t, b.Import(&types.DocumentRecord{Name: "Bolt.SLDPRT", Kind: types.KindPart}))
	doc, err := b.OpenDocument("Bolt.SLDPRT")
	require.NoError(t, err)

	got, err := assembly.NewFlattener(b, quietLogger()).FlattenModel(b, doc)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProvider_DocumentResolver(t *testing.T) {
	b, doc := openFrame(t)
	r := properties.NewDocumentResolver(b)

	tests := []struct {
		name          string
		property      string
		configuration string
		want          string
		wantFound     bool
		wantErr       error
	}{
		{name: "generic", property: "Material", want: "Steel", wantFound: true},
		{name: "configuration specific", property: "Material", configuration: "Heavy", want: "Titanium", wantFound: true},
		{name: "generic reference expanded", property: "Description", want: "Steel frame", wantFound: true},
		{name: "scoped references expanded", property: "Label", configuration: "Heavy", want: "Titanium (Steel) Heavy", wantFound: true},
		{name: "missing property", property: "NoSuchProp"},
		{name: "configuration without the property", property: "Weight", configuration: "Default"},
		{name: "bad configuration", property: "Material", configuration: "BadConfig", wantErr: types.ErrConfigurationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := r.Resolve(tt.property, doc, tt.configuration)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProvider_ValueType(t *testing.T) {
	b, doc := openFrame(t)
	_, vt, found, err := b.GetProperty(doc, "Weight")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, types.ValueTypeNumber, vt)
}

func TestProvider_FindConfigurationMissingIsUntypedNil(t *testing.T) {
	b, doc := openFrame(t)
	cfg, err := b.FindConfiguration(doc, "BadConfig")
	require.NoError(t, err)
	assert.True(t, cfg == nil)
}

func TestProvider_ForeignHandles(t *testing.T) {
	b := attach(t)

	_, _, _, err := b.GetProperty(otherModel{}, "Material")
	assert.ErrorIs(t, err, types.ErrForeignHandle)

	_, err = b.RootComponent(otherModel{})
	assert.ErrorIs(t, err, types.ErrForeignHandle)

	_, _, _, err = b.GetProperty(nil, "Material")
	assert.ErrorIs(t, err, types.ErrNilModel)
}
