package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/UTarts/cardiff-healthcare/internal/catalog"
	"github.com/UTarts/cardiff-healthcare/internal/domain"
	"github.com/UTarts/cardiff-healthcare/internal/repository"
	"github.com/UTarts/cardiff-healthcare/internal/repository/memory"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
)

func newCatalogService(repo repository.ProductRepository) *CatalogService {
	return NewCatalogService(repo, catalog.NewEngine(language.English), "", newTestLogger())
}

func cardNames(cards []catalog.Card) []string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		names = append(names, c.Name)
	}
	return names
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int { return &v }

func TestCatalogService_BrowseTablets(t *testing.T) {
	svc := newCatalogService(memory.NewProductRepository(memory.SeedProducts()))

	res, err := svc.Browse(context.Background(), BrowseInput{Category: "Tablet"})
	require.NoError(t, err)

	assert.False(t, res.Loading)
	assert.Equal(t, []string{"Cardical-500", "Cardicef-200", "Cardiflam Plus", "Cardimol-650"}, cardNames(res.Cards))
	assert.Equal(t, 10, res.Total)
	assert.Nil(t, res.Lightbox)
	assert.False(t, res.DirectiveConsumed)
}

func TestCatalogService_BrowseDeepLink(t *testing.T) {
	svc := newCatalogService(memory.NewProductRepository(memory.SeedProducts()))

	res, err := svc.Browse(context.Background(), BrowseInput{Open: "3"})
	require.NoError(t, err)

	require.NotNil(t, res.Lightbox)
	assert.Equal(t, "Cardivit Gold", res.Lightbox.Product.Name)
	assert.Equal(t, 0, res.Lightbox.ImageIndex)
	assert.Equal(t, "/contact", res.Lightbox.Inquire.Path)
	assert.Equal(t, "Cardivit Gold", res.Lightbox.Inquire.Prefill)
	assert.True(t, res.DirectiveConsumed)
}

func TestCatalogService_BrowseDeepLinkMiss(t *testing.T) {
	svc := newCatalogService(memory.NewProductRepository(memory.SeedProducts()))

	res, err := svc.Browse(context.Background(), BrowseInput{Open: "999"})
	require.NoError(t, err)
	assert.Nil(t, res.Lightbox)
	assert.True(t, res.DirectiveConsumed)
}

func TestCatalogService_BrowseBadDirective(t *testing.T) {
	svc := newCatalogService(memory.NewProductRepository(memory.SeedProducts()))

	_, err := svc.Browse(context.Background(), BrowseInput{Open: "abc"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCatalogService_BrowseSelection(t *testing.T) {
	svc := newCatalogService(memory.NewProductRepository(memory.SeedProducts()))

	res, err := svc.Browse(context.Background(), BrowseInput{
		Search:   "pain",
		Sort:     "desc",
		Selected: int64Ptr(5),
		Image:    intPtr(7),
	})
	require.NoError(t, err)

	assert.Equal(t, catalog.SortDesc, res.Criteria.Sort)
	assert.Equal(t, []string{"Cardimol-650", "Cardiflam Plus"}, cardNames(res.Cards))
	require.NotNil(t, res.Lightbox)
	assert.Equal(t, int64(5), res.Lightbox.Product.ID)
	assert.Equal(t, 0, res.Lightbox.ImageIndex)
}

func TestCatalogService_UnknownCategoryIgnored(t *testing.T) {
	svc := newCatalogService(memory.NewProductRepository(memory.SeedProducts()))

	res, err := svc.Browse(context.Background(), BrowseInput{Category: "Lozenge"})
	require.NoError(t, err)
	assert.Equal(t, catalog.AllCategories, res.Criteria.Category)
	assert.Len(t, res.Cards, 10)
}

func TestCatalogService_FetchFailureRendersEmpty(t *testing.T) {
	repo := new(mockProductRepository)
	repo.On("ListProducts", mock.Anything).Return(nil, errors.New("gateway down"))
	svc := newCatalogService(repo)

	res, err := svc.Browse(context.Background(), BrowseInput{Open: "1"})
	require.NoError(t, err)
	assert.False(t, res.Loading)
	assert.Empty(t, res.Cards)
	assert.Equal(t, []string{catalog.AllCategories}, res.Categories)
	assert.Nil(t, res.Lightbox)
	repo.AssertNumberOfCalls(t, "ListProducts", 1)
}

func TestCatalogService_Categories(t *testing.T) {
	svc := newCatalogService(memory.NewProductRepository(memory.SeedProducts()))

	assert.Equal(t,
		[]string{"All", "Tablet", "Syrup", "Capsule", "Injection", "Ointment", "Powder"},
		svc.Categories(context.Background()),
	)
}

func TestCatalogService_TopSellers(t *testing.T) {
	svc := newCatalogService(memory.NewProductRepository(memory.SeedProducts()))

	cards := svc.TopSellers(context.Background())
	assert.Equal(t, []string{"Cardimol-650", "Cardivit Gold", "Cardiflam Plus"}, cardNames(cards))
}

func TestCatalogService_TopSellersDegrades(t *testing.T) {
	repo := new(mockProductRepository)
	repo.On("ListTopSellers", mock.Anything, TopSellerLimit).Return(nil, errors.New("timeout"))
	svc := newCatalogService(repo)

	cards := svc.TopSellers(context.Background())
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
}

func TestCatalogService_TopSellerPlaceholder(t *testing.T) {
	repo := new(mockProductRepository)
	repo.On("ListTopSellers", mock.Anything, TopSellerLimit).
		Return([]domain.Product{{ID: 1, Name: "Bare", IsTopSeller: true}}, nil)
	svc := newCatalogService(repo)

	cards := svc.TopSellers(context.Background())
	require.Len(t, cards, 1)
	assert.Equal(t, catalog.DefaultPlaceholder, cards[0].Image)
	assert.Equal(t, domain.OtherCategory, cards[0].Category)
}
