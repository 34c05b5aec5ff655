package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uditmishra03/carthub/internal/domain"
	pkgkafka "github.com/uditmishra03/carthub/pkg/kafka"
	"github.com/uditmishra03/carthub/pkg/logger"
)

// Kafka topic constants for cart notifications.
const (
	TopicCartUpdated    = "carthub.cart.updated"
	TopicCartCleared    = "carthub.cart.cleared"
	TopicCartCheckedOut = "carthub.cart.checked_out"
)

// Aggregate type constant.
const AggregateTypeCart = "cart"

// Source identifier for events originating from the cart service.
const SourceCartService = "cart-service"

// Publisher receives notifications after a cart write has been committed.
type Publisher interface {
	PublishCartUpdated(ctx context.Context, cart domain.CartSnapshot) error
	PublishCartCleared(ctx context.Context, customerID string) error
	PublishCartCheckedOut(ctx context.Context, customerID, orderID, totalAmount string) error
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	CustomerID string `json:"customer_id"`
}

// CartCheckedOutData is the payload for a cart.checked_out event.
type CartCheckedOutData struct {
	CustomerID  string `json:"customer_id"`
	OrderID     string `json:"order_id"`
	TotalAmount string `json:"total_amount"`
}

// EventPublisher is the subset of *pkgkafka.Producer used here.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes cart events to Kafka.
type Producer struct {
	kafka  EventPublisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the cart service.
func NewProducer(kafka EventPublisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event carrying the full snapshot.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart domain.CartSnapshot) error {
	if err := p.publish(ctx, TopicCartUpdated, cart.CustomerID, cart); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("customer_id", cart.CustomerID),
		slog.Int("total_items", cart.TotalItems),
	)
	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, customerID string) error {
	return p.publish(ctx, TopicCartCleared, customerID, CartClearedData{CustomerID: customerID})
}

// PublishCartCheckedOut publishes a cart.checked_out event.
func (p *Producer) PublishCartCheckedOut(ctx context.Context, customerID, orderID, totalAmount string) error {
	data := CartCheckedOutData{
		CustomerID:  customerID,
		OrderID:     orderID,
		TotalAmount: totalAmount,
	}
	return p.publish(ctx, TopicCartCheckedOut, customerID, data)
}

func (p *Producer) publish(ctx context.Context, topic, customerID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, customerID, AggregateTypeCart, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

// NopPublisher drops every notification. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishCartUpdated(context.Context, domain.CartSnapshot) error { return nil }

func (NopPublisher) PublishCartCleared(context.Context, string) error { return nil }

func (NopPublisher) PublishCartCheckedOut(context.Context, string, string, string) error { return nil }
