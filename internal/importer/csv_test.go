package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvale/assetbridge/internal/assets"
)

type recordingStore struct {
	stored []assets.Asset
}

func (r *recordingStore) Store(asset assets.Asset) {
	r.stored = append(r.stored, asset)
}

func TestImport_ValidCSV(t *testing.T) {
	csvData := `asset_tag,name,serial,model,status,assigned_to
LAP-001,ThinkPad X1,PF-3XK9Q,X1 Carbon Gen 11,deployed,jmorales
MON-042,Dell U2723, S9KQW2 ,U2723QE,in stock,
`
	store := &recordingStore{}
	result, err := Import(context.Background(), strings.NewReader(csvData), store)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, store.stored, 2)

	first := store.stored[0]
	assert.Equal(t, "LAP-001", first.Tag)
	assert.Equal(t, "ThinkPad X1", first.Name)
	assert.Equal(t, "jmorales", first.AssignedTo)
	assert.False(t, first.UpdatedAt.IsZero())

	// Fields are trimmed and an empty assignment is allowed
	second := store.stored[1]
	assert.Equal(t, "S9KQW2", second.Serial)
	assert.Equal(t, "", second.AssignedTo)
}

func TestImport_ColumnsInAnyOrder(t *testing.T) {
	csvData := `name,assigned_to,asset_tag,status,model,serial
ThinkPad X1,jmorales,LAP-001,deployed,X1 Carbon,PF-3XK9Q
`
	store := &recordingStore{}
	result, err := Import(context.Background(), strings.NewReader(csvData), store)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, "LAP-001", store.stored[0].Tag)
	assert.Equal(t, "PF-3XK9Q", store.stored[0].Serial)
}

func TestImport_HeaderCaseInsensitive(t *testing.T) {
	csvData := `Asset_Tag,Name,Serial,Model,Status,Assigned_To
LAP-001,ThinkPad,S,M,deployed,x
`
	store := &recordingStore{}
	result, err := Import(context.Background(), strings.NewReader(csvData), store)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestImport_MissingColumnsFatal(t *testing.T) {
	csvData := `asset_tag,name
LAP-001,ThinkPad X1
`
	store := &recordingStore{}
	_, err := Import(context.Background(), strings.NewReader(csvData), store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serial")
	assert.Contains(t, err.Error(), "assigned_to")
	assert.Empty(t, store.stored)
}

func TestImport_SkipsRowsWithoutTag(t *testing.T) {
	csvData := `asset_tag,name,serial,model,status,assigned_to
LAP-001,ThinkPad X1,S1,M1,deployed,a
,Orphan Device,S2,M2,in stock,b
MON-042,Dell U2723,S3,M3,deployed,c
`
	store := &recordingStore{}
	result, err := Import(context.Background(), strings.NewReader(csvData), store)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
}

func TestImport_EmptyFile(t *testing.T) {
	_, err := Import(context.Background(), strings.NewReader(""), &recordingStore{})
	require.Error(t, err)
}

func TestImport_HeaderOnly(t *testing.T) {
	csvData := "asset_tag,name,serial,model,status,assigned_to\n"
	result, err := Import(context.Background(), strings.NewReader(csvData), &recordingStore{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 0, result.Skipped)
}
