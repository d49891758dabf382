package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/sitepatrol/internal/patrol"
)

func labelCatalog() *patrol.Catalog {
	return patrol.NewCatalog([]patrol.Pointer{
		{ID: 1, Label: "Main Gate"},
		{ID: 2, Label: "Lobby"},
		{ID: 3, Label: "Car Park B1"},
		{ID: 4, Label: "Car Park B2"},
		{ID: 5, Label: "Roof Access"},
	})
}

func TestResolveLabelsExactAndFuzzy(t *testing.T) {
	got, err := ResolveLabels(labelCatalog(), []string{"roof access", "Main Gte", " lobby ", "#3", ""})
	require.NoError(t, err)
	require.Equal(t, []patrol.PointerID{5, 1, 2, 3}, got)
}

func TestResolveLabelsRejectsUnknown(t *testing.T) {
	_, err := ResolveLabels(labelCatalog(), []string{"Basement"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidRoute))
}

func TestResolveLabelsRejectsAmbiguous(t *testing.T) {
	_, err := ResolveLabels(labelCatalog(), []string{"Car Park B"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "more than one")
}
