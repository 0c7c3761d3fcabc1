package services_test

import (
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/internal/services"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishProductEvent(eventType string, payload interface{}) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func notFound(id uint) error {
	return fmt.Errorf("product with ID %d: %w", id, repositories.ErrProductNotFound)
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProducts := []models.Product{
		{ID: 1, Name: "Product A", Price: decimal.NewFromInt(10), Availability: true},
		{ID: 2, Name: "Product B", Price: decimal.NewFromInt(20), Availability: false},
	}
	mockRepo.On("GetAll").Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts()

	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProduct := &models.Product{ID: 1, Name: "Product A", Price: decimal.NewFromInt(10), Availability: true}

	mockRepo.On("GetByID", uint(1)).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	mockRepo.On("GetByID", uint(1000)).Return(nil, notFound(1000)).Once()
	product, err = service.GetProductByID(1000)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockPub)

	req := models.ProductRequest{Name: "Monitor", Price: decimal.NewFromInt(400)}

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Product).ID = 5
	}).Return(nil).Once()
	mockPub.On("PublishProductEvent", services.EventProductCreated, mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.CreateProduct(req)
	assert.NoError(t, err)
	assert.Equal(t, uint(5), product.ID)
	assert.Equal(t, "Monitor", product.Name)
	assert.True(t, product.Availability)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)

	// A database error is returned and nothing is published.
	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(errors.New("database error")).Once()
	_, err = service.CreateProduct(req)
	assert.ErrorContains(t, err, "database error")
	mockRepo.AssertExpectations(t)
	mockPub.AssertNumberOfCalls(t, "PublishProductEvent", 1)
}

func TestProductService_CreateProduct_PublishFailureIsIgnored(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockPub)

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(nil).Once()
	mockPub.On("PublishProductEvent", services.EventProductCreated, mock.Anything).Return(errors.New("broker down")).Once()

	product, err := service.CreateProduct(models.ProductRequest{Name: "Mouse", Price: decimal.NewFromInt(25)})
	assert.NoError(t, err)
	assert.NotNil(t, product)
	mockPub.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockPub)

	existing := &models.Product{ID: 1, Name: "Televisor", Price: decimal.NewFromInt(100), Availability: false}
	mockRepo.On("GetByID", uint(1)).Return(existing, nil).Once()
	mockRepo.On("Update", existing).Return(nil).Once()
	mockPub.On("PublishProductEvent", services.EventProductUpdated, existing).Return(nil).Once()

	updated, err := service.UpdateProduct(1, models.ProductRequest{Name: "Televisor HD", Price: decimal.NewFromInt(500)})
	assert.NoError(t, err)
	assert.Equal(t, "Televisor HD", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(500)))
	assert.False(t, updated.Availability)

	mockRepo.On("GetByID", uint(2000)).Return(nil, notFound(2000)).Once()
	_, err = service.UpdateProduct(2000, models.ProductRequest{Name: "Ghost", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestProductService_ToggleAvailability(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockPub)

	existing := &models.Product{ID: 1, Name: "Laptop", Price: decimal.NewFromInt(1200), Availability: true}
	mockRepo.On("GetByID", uint(1)).Return(existing, nil).Once()
	mockRepo.On("Update", existing).Return(nil).Once()
	mockPub.On("PublishProductEvent", services.EventProductAvailabilityToggled, existing).Return(nil).Once()

	product, err := service.ToggleAvailability(1)
	assert.NoError(t, err)
	assert.False(t, product.Availability)

	mockRepo.On("GetByID", uint(4000)).Return(nil, notFound(4000)).Once()
	_, err = service.ToggleAvailability(4000)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := services.NewProductService(mockRepo, mockPub)

	existing := &models.Product{ID: 1, Name: "Keyboard", Price: decimal.NewFromInt(75), Availability: true}
	mockRepo.On("GetByID", uint(1)).Return(existing, nil).Once()
	mockRepo.On("Delete", uint(1)).Return(nil).Once()
	mockPub.On("PublishProductEvent", services.EventProductDeleted, existing).Return(nil).Once()

	assert.NoError(t, service.DeleteProduct(1))

	mockRepo.On("GetByID", uint(4000)).Return(nil, notFound(4000)).Once()
	err := service.DeleteProduct(4000)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "Delete", uint(4000))
}
