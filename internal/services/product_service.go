package services

import (
	"context"
	"time"

	"catalog/internal/dto"
	"catalog/internal/mappers"
	"catalog/internal/repositories"
	"catalog/internal/validators"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// AddRequestValidator validates create requests.
type AddRequestValidator interface {
	Validate(req dto.ProductAddRequest) validators.ValidationResult
}

// UpdateRequestValidator validates update requests.
type UpdateRequestValidator interface {
	Validate(req dto.ProductUpdateRequest) validators.ValidationResult
}

// EventPublisher receives product events after successful mutations.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, event dto.ProductEvent) error
}

// Option configures a ProductService.
type Option func(*ProductService)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *ProductService) {
		s.logger = logger
	}
}

// WithEventPublisher enables product events.
func WithEventPublisher(publisher EventPublisher) Option {
	return func(s *ProductService) {
		s.publisher = publisher
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *ProductService) {
		s.tracer = tracer
	}
}

// ProductService handles business logic related to products. It validates
// requests, enforces existence preconditions and maps results to responses.
// Lookups with no result return nil rather than an error; repository errors
// are returned unchanged.
type ProductService struct {
	repo            repositories.ProductRepository
	addValidator    AddRequestValidator
	updateValidator UpdateRequestValidator
	publisher       EventPublisher
	tracer          trace.Tracer
	logger          *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(
	repo repositories.ProductRepository,
	addValidator AddRequestValidator,
	updateValidator UpdateRequestValidator,
	opts ...Option,
) *ProductService {
	s := &ProductService{
		repo:            repo,
		addValidator:    addValidator,
		updateValidator: updateValidator,
		tracer:          otel.Tracer("catalog/services"),
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddProduct validates req and stores a new product. It returns nil without
// an error when the store does not hand back the created row.
func (s *ProductService) AddProduct(ctx context.Context, req *dto.ProductAddRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.AddProduct")
	defer span.End()

	if req == nil {
		return nil, s.fail(span, ErrNilRequest)
	}

	if result := s.addValidator.Validate(*req); !result.IsValid() {
		s.logger.Info("Rejected product add request", zap.Strings("errors", result.Messages()))
		return nil, s.fail(span, &ValidationError{Result: result})
	}

	product := mappers.ToProductFromAddRequest(*req)
	added, err := s.repo.AddProduct(ctx, &product)
	if err != nil {
		return nil, s.fail(span, err)
	}
	if added == nil {
		s.logger.Warn("Product store returned no row after insert", zap.String("product_name", req.ProductName))
		return nil, nil
	}

	span.SetAttributes(attribute.String("product.id", added.ID))
	s.logger.Info("Product added", zap.String("product_id", added.ID))

	response := mappers.ToProductResponse(added)
	s.publish(ctx, dto.ProductCreated, added.ID, response)
	return response, nil
}

// UpdateProduct overwrites the mutable fields of an existing product. The
// identifier is checked before the fields are validated.
func (s *ProductService) UpdateProduct(ctx context.Context, req *dto.ProductUpdateRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	if req == nil {
		return nil, s.fail(span, ErrNilRequest)
	}
	span.SetAttributes(attribute.String("product.id", req.ProductID))

	existing, err := s.repo.GetProductByCondition(ctx, repositories.ByID(req.ProductID))
	if err != nil {
		return nil, s.fail(span, err)
	}
	if existing == nil {
		s.logger.Info("Rejected update of unknown product", zap.String("product_id", req.ProductID))
		return nil, s.fail(span, ErrInvalidProductID)
	}

	if result := s.updateValidator.Validate(*req); !result.IsValid() {
		s.logger.Info("Rejected product update request",
			zap.String("product_id", req.ProductID),
			zap.Strings("errors", result.Messages()),
		)
		return nil, s.fail(span, &ValidationError{Result: result})
	}

	product := mappers.ToProductFromUpdateRequest(*req)
	updated, err := s.repo.UpdateProduct(ctx, &product)
	if err != nil {
		return nil, s.fail(span, err)
	}

	response := mappers.ToProductResponse(updated)
	if response == nil {
		s.logger.Warn("Product disappeared before update", zap.String("product_id", req.ProductID))
		return nil, nil
	}
	s.logger.Info("Product updated", zap.String("product_id", updated.ID))
	s.publish(ctx, dto.ProductUpdated, updated.ID, response)
	return response, nil
}

// DeleteProduct removes the product with id. It returns false without an
// error when no such product exists.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	existing, err := s.repo.GetProductByCondition(ctx, repositories.ByID(id))
	if err != nil {
		return false, s.fail(span, err)
	}
	if existing == nil {
		return false, nil
	}

	deleted, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return false, s.fail(span, err)
	}
	if deleted {
		s.logger.Info("Product deleted", zap.String("product_id", id))
		s.publish(ctx, dto.ProductDeleted, id, nil)
	}
	return deleted, nil
}

// GetProductByCondition returns the first product matching filter, or nil.
func (s *ProductService) GetProductByCondition(ctx context.Context, filter repositories.ProductFilter) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByCondition")
	defer span.End()

	product, err := s.repo.GetProductByCondition(ctx, filter)
	if err != nil {
		return nil, s.fail(span, err)
	}
	span.SetAttributes(attribute.Bool("product.found", product != nil))
	return mappers.ToProductResponse(product), nil
}

// GetProducts returns every product.
func (s *ProductService) GetProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProducts")
	defer span.End()

	products, err := s.repo.GetProducts(ctx)
	if err != nil {
		return nil, s.fail(span, err)
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))
	return mappers.ToProductResponseList(products), nil
}

// GetProductsByCondition returns every product matching filter. No match
// yields an empty, non-nil slice.
func (s *ProductService) GetProductsByCondition(ctx context.Context, filter repositories.ProductFilter) ([]dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductsByCondition")
	defer span.End()

	products, err := s.repo.GetProductsByCondition(ctx, filter)
	if err != nil {
		return nil, s.fail(span, err)
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))
	return mappers.ToProductResponseList(products), nil
}

func (s *ProductService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// publish is best-effort: a failed publication is logged and never changes
// the outcome of the mutation.
func (s *ProductService) publish(ctx context.Context, eventType, productID string, product *dto.ProductResponse) {
	if s.publisher == nil {
		return
	}
	event := dto.ProductEvent{
		Type:       eventType,
		ProductID:  productID,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishProductEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish product event",
			zap.String("event_type", eventType),
			zap.String("product_id", productID),
			zap.Error(err),
		)
	}
}
