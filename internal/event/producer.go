package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
	pkgkafka "github.com/UTarts/cardiff-healthcare/pkg/kafka"
	"github.com/UTarts/cardiff-healthcare/pkg/logger"
)

// Kafka topics for storefront events.
var (
	TopicInquiryCreated = pkgkafka.Topic("inquiry", "created")
	TopicProductCreated = pkgkafka.Topic("product", "created")
	TopicProductUpdated = pkgkafka.Topic("product", "updated")
	TopicProductDeleted = pkgkafka.Topic("product", "deleted")
)

// Aggregate types.
const (
	AggregateTypeInquiry = "inquiry"
	AggregateTypeProduct = "product"
)

// Source identifies events originating from the storefront.
const Source = "cardiff-storefront"

// InquiryCreatedData is the payload for an inquiry.created event.
type InquiryCreatedData struct {
	ID               int64     `json:"id"`
	CustomerName     string    `json:"customer_name"`
	CustomerEmail    string    `json:"customer_email"`
	CustomerPhone    string    `json:"customer_phone,omitempty"`
	Message          string    `json:"message"`
	SelectedProducts string    `json:"selected_products"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProductData is the payload for product.created and product.updated.
type ProductData struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	IsTopSeller bool     `json:"is_top_seller"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID int64 `json:"id"`
}

// Publisher emits storefront domain events.
type Publisher interface {
	PublishInquiryCreated(ctx context.Context, inquiry *domain.Inquiry) error
	PublishProductCreated(ctx context.Context, product *domain.Product) error
	PublishProductUpdated(ctx context.Context, product *domain.Product) error
	PublishProductDeleted(ctx context.Context, id int64) error
}

// Producer publishes storefront events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func (p *Producer) publish(ctx context.Context, topic string, id int64, aggregateType string, data any) error {
	aggregateID := strconv.FormatInt(id, 10)
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		event.WithCorrelationID(cid)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}

// PublishInquiryCreated publishes an inquiry.created event.
func (p *Producer) PublishInquiryCreated(ctx context.Context, inquiry *domain.Inquiry) error {
	return p.publish(ctx, TopicInquiryCreated, inquiry.ID, AggregateTypeInquiry, InquiryCreatedData{
		ID:               inquiry.ID,
		CustomerName:     inquiry.CustomerName,
		CustomerEmail:    inquiry.CustomerEmail,
		CustomerPhone:    inquiry.CustomerPhone,
		Message:          inquiry.Message,
		SelectedProducts: inquiry.SelectedProducts,
		CreatedAt:        inquiry.CreatedAt,
	})
}

func productData(product *domain.Product) ProductData {
	return ProductData{
		ID:          product.ID,
		Name:        product.Name,
		Category:    product.Category,
		Images:      product.Images,
		IsTopSeller: product.IsTopSeller,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id int64) error {
	return p.publish(ctx, TopicProductDeleted, id, AggregateTypeProduct, ProductDeletedData{ID: id})
}

// Discard drops every event. It is used when no brokers are configured.
type Discard struct{}

func (Discard) PublishInquiryCreated(context.Context, *domain.Inquiry) error { return nil }
func (Discard) PublishProductCreated(context.Context, *domain.Product) error { return nil }
func (Discard) PublishProductUpdated(context.Context, *domain.Product) error { return nil }
func (Discard) PublishProductDeleted(context.Context, int64) error { return nil }
