package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
	"github.com/UTarts/cardiff-healthcare/pkg/pagination"
)

func TestSeedProducts(t *testing.T) {
	seed := SeedProducts()
	require.Len(t, seed, 10)

	tablets := 0
	for _, p := range seed {
		assert.NotEmpty(t, p.Images, p.Name)
		if p.Category == "Tablet" {
			tablets++
		}
	}
	assert.Equal(t, 4, tablets)
}

func TestProductRepository_ListReturnsCopies(t *testing.T) {
	repo := NewProductRepository(SeedProducts())
	ctx := context.Background()

	list, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	list[0].Images[0] = "mutated"
	list[0].Name = "mutated"

	again, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cardimol-650", again[0].Name)
	assert.NotEqual(t, "mutated", again[0].Images[0])
}

func TestProductRepository_TopSellersAndNames(t *testing.T) {
	repo := NewProductRepository(SeedProducts())
	ctx := context.Background()

	top, err := repo.ListTopSellers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Cardimol-650", top[0].Name)
	assert.Equal(t, "Cardivit Gold", top[1].Name)

	names, err := repo.ListProductNames(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 10)
}

func TestProductRepository_CRUD(t *testing.T) {
	repo := NewProductRepository(SeedProducts())
	ctx := context.Background()

	p := &domain.Product{Name: "Cardizinc", Category: "Tablet", Images: []string{"z.jpg"}}
	require.NoError(t, repo.Create(ctx, p))
	assert.Equal(t, int64(11), p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	newest, err := repo.ListNewestFirst(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(11), newest[0].ID)
	assert.Equal(t, int64(1), newest[len(newest)-1].ID)

	p.Name = "Cardizinc Forte"
	require.NoError(t, repo.Update(ctx, p))
	got, err := repo.GetByID(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, "Cardizinc Forte", got.Name)

	require.NoError(t, repo.Delete(ctx, 11))
	_, err = repo.GetByID(ctx, 11)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 11), apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Product{ID: 99}), apperrors.ErrNotFound)
}

func TestInquiryRepository(t *testing.T) {
	repo := NewInquiryRepository()
	ctx := context.Background()

	for _, name := range []string{"Asha", "Bilal", "Chen"} {
		require.NoError(t, repo.Create(ctx, &domain.Inquiry{CustomerName: name, Status: domain.InquiryStatusNew}))
	}

	page, total, err := repo.List(ctx, pagination.Params{Page: 1, PerPage: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Chen", page[0].CustomerName)

	page, _, err = repo.List(ctx, pagination.Params{Page: 2, PerPage: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Asha", page[0].CustomerName)

	require.NoError(t, repo.UpdateStatus(ctx, 1, domain.InquiryStatusNew, domain.InquiryStatusContacted))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 1, domain.InquiryStatusNew, domain.InquiryStatusContacted), apperrors.ErrConflict)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 9, domain.InquiryStatusNew, domain.InquiryStatusContacted), apperrors.ErrNotFound)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusContacted, got.Status)
}
