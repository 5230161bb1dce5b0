package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"inventory/internal/core/id"
	"inventory/internal/domain"
)

func listAll() domain.ListFilter {
	f := domain.ListFilter{}
	f.Normalize()
	return f
}

func mustFind(t *testing.T, repo *CategoryRepo, name string) id.ID {
	t.Helper()
	c, err := repo.FindByName(context.Background(), name)
	require.NoError(t, err)
	return c.ID
}
