package category_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/apperror"
	"inventory/internal/domain"
	"inventory/internal/domain/catalogs/category"
	"inventory/internal/infrastructure/storage/memory"
)

func TestService_Create(t *testing.T) {
	store := memory.NewStore()
	svc := category.NewService(memory.NewCategoryRepo(store), memory.NewTxManager(store))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, category.NewCategory("  Fruit ")))

	err := svc.Create(ctx, category.NewCategory("Fruit"))
	assert.True(t, apperror.IsDuplicate(err))

	err = svc.Create(ctx, category.NewCategory(""))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	err = svc.Create(ctx, category.NewCategory(strings.Repeat("x", 256)))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	res, err := svc.List(ctx, domain.ListFilter{Search: "fru"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Fruit", res.Items[0].Name)
	assert.Equal(t, domain.DefaultLimit, res.Limit)
}
