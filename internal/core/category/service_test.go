package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collections-api/pkg/pointer"
)

func TestBuildTree(t *testing.T) {
	flat := []*IABCategory{
		{ID: 1, Name: "Arts & Entertainment"},
		{ID: 2, Name: "Food & Drink"},
		{ID: 10, Name: "Movies", ParentID: pointer.To[int64](1)},
		{ID: 20, Name: "Vegan", ParentID: pointer.To[int64](2)},
		{ID: 21, Name: "Cocktails & Beer", ParentID: pointer.To[int64](2)},
		{ID: 99, Name: "Orphan", ParentID: pointer.To[int64](42)},
	}

	roots := buildTree(flat)
	require.Len(t, roots, 2)

	assert.Equal(t, "Arts & Entertainment", roots[0].Name)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "Movies", roots[0].Children[0].Name)

	assert.Len(t, roots[1].Children, 2)
}

func TestLanguage_Valid(t *testing.T) {
	assert.True(t, LanguageEN.Valid())
	assert.True(t, Language("DE").Valid())
	assert.False(t, Language("fr").Valid())
}
