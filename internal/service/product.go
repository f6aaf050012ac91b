package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
	"github.com/UTarts/cardiff-healthcare/internal/event"
	"github.com/UTarts/cardiff-healthcare/internal/media"
	"github.com/UTarts/cardiff-healthcare/internal/repository"
	"github.com/UTarts/cardiff-healthcare/internal/storage"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
	"github.com/UTarts/cardiff-healthcare/pkg/slug"
)

// MaxImageBytes bounds a single uploaded photo before resizing.
const MaxImageBytes = 10 << 20

// ProductService implements the admin product manager.
type ProductService struct {
	repo      repository.ProductRepository
	storage   storage.Storage
	publisher event.Publisher
	logger    *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, store storage.Storage, publisher event.Publisher, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		storage:   store,
		publisher: publisher,
		logger:    logger,
	}
}

// ListProducts returns every product, most recently added first.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// ProductCategories is the category picker of the admin product form.
type ProductCategories struct {
	Options []string `json:"options"`
	Default string   `json:"default"`
}

// Categories returns the categories an admin may assign.
func (s *ProductService) Categories() ProductCategories {
	return ProductCategories{
		Options: slices.Clone(domain.KnownCategories),
		Default: domain.DefaultCategory,
	}
}

func checkInput(input *domain.ProductInput) error {
	if input.Name == "" {
		return apperrors.InvalidInput("product name is required")
	}
	if len(input.Images) == 0 {
		return apperrors.InvalidInput("at least one image is required")
	}
	if input.Category != "" && !domain.IsKnownCategory(input.Category) {
		return apperrors.InvalidInput("category must be one of " + strings.Join(domain.KnownCategories, ", "))
	}
	return nil
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, input *domain.ProductInput) (*domain.Product, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}

	product := &domain.Product{}
	input.Apply(product)

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.publisher.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.Int64("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name),
	)
	return product, nil
}

// UpdateProduct replaces the editable fields of product id.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input *domain.ProductInput) (*domain.Product, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	input.Apply(product)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.publisher.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.Int64("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated", slog.Int64("product_id", product.ID))
	return product, nil
}

// DeleteProduct removes product id. Its images stay in the bucket.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.publisher.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.Int64("product_id", id))
	return nil
}

// ImageFile is one uploaded photo.
type ImageFile struct {
	Filename string
	Data     io.Reader
}

// UploadImages resizes each file, stores it under a key derived from
// productName and returns the public URLs in input order. The first
// failure aborts the batch; files already stored are kept.
func (s *ProductService) UploadImages(ctx context.Context, productName string, files []ImageFile) ([]string, error) {
	if len(files) == 0 {
		return nil, apperrors.InvalidInput("no image files given")
	}

	prefix := slug.OrDefault(productName, "product")
	urls := make([]string, 0, len(files))
	for _, f := range files {
		raw, err := io.ReadAll(io.LimitReader(f.Data, MaxImageBytes+1))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Filename, err)
		}
		if len(raw) > MaxImageBytes {
			return nil, apperrors.InvalidInput(fmt.Sprintf("%s is larger than %d MB", f.Filename, MaxImageBytes>>20))
		}

		jpeg, err := media.Optimize(raw, media.UploadPreset)
		if err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("%s is not a supported image", f.Filename))
		}

		res, err := s.storage.Upload(ctx, &storage.UploadInput{
			Key:         prefix + "-" + uuid.NewString() + ".jpg",
			ContentType: "image/jpeg",
			Size:        int64(len(jpeg)),
			Data:        bytes.NewReader(jpeg),
		})
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", f.Filename, err)
		}

		s.logger.InfoContext(ctx, "product image uploaded",
			slog.String("key", res.Key),
			slog.Int("bytes", len(jpeg)),
		)
		urls = append(urls, res.URL)
	}
	return urls, nil
}
