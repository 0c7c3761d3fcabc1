package services

import (
	"fmt"

	"productapi/internal/models"
	"productapi/internal/repositories"

	"github.com/sirupsen/logrus"
)

// Product event types.
const (
	EventProductCreated             = "product.created"
	EventProductUpdated             = "product.updated"
	EventProductAvailabilityToggled = "product.availability_toggled"
	EventProductDeleted             = "product.deleted"
)

// EventPublisher publishes product lifecycle events.
type EventPublisher interface {
	PublishProductEvent(eventType string, payload interface{}) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are sent.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct stores a new product built from req.
func (s *ProductService) CreateProduct(req models.ProductRequest) (*models.Product, error) {
	product := models.NewProduct(req)
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	s.publish(EventProductCreated, product)
	return product, nil
}

// UpdateProduct replaces the mutable fields of an existing product.
func (s *ProductService) UpdateProduct(id uint, req models.ProductRequest) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.Apply(req)
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.publish(EventProductUpdated, product)
	return product, nil
}

// ToggleAvailability flips the availability flag of a product.
func (s *ProductService) ToggleAvailability(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.Availability = !product.Availability
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.publish(EventProductAvailabilityToggled, product)
	return product, nil
}

// DeleteProduct removes a product by its ID.
func (s *ProductService) DeleteProduct(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(product.ID); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	s.publish(EventProductDeleted, product)
	return nil
}

// publish sends an event. Failures are logged and otherwise ignored; the
// database write has already succeeded.
func (s *ProductService) publish(eventType string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProductEvent(eventType, product); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"event":      eventType,
			"product_id": product.ID,
		}).Warn("Failed to publish product event")
		return
	}
	logrus.WithFields(logrus.Fields{
		"event":      eventType,
		"product_id": product.ID,
	}).Debug("Published product event")
}
