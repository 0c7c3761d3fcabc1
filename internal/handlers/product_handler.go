package handlers

import (
	"errors"

	"productapi/internal/middleware"
	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/internal/services"
	"productapi/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	msgProductNotFound = "product not found"
	msgProductDeleted  = "product deleted"
)

// DataResponse wraps a successful payload.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse wraps a single error message.
type ErrorResponse struct {
	Error string `json:"error" example:"product not found"`
}

// ValidationErrorResponse wraps the failures of the route validators.
type ValidationErrorResponse struct {
	Error []validation.FieldError `json:"error"`
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes under /products. Every route
// runs its validators, then middleware.HandleErrors, then the handler.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")

	products.Get("/", middleware.HandleErrors(), h.HandleGetProducts)

	products.Get("/:id",
		idParam().Handler(),
		middleware.HandleErrors(),
		h.HandleGetProductByID)

	products.Post("/",
		nameField().Handler(),
		priceField().Handler(),
		middleware.HandleErrors(),
		h.HandleCreateProduct)

	// PUT checks only the body; a malformed id is answered as a missing product.
	products.Put("/:id",
		nameField().Handler(),
		priceField().Handler(),
		middleware.HandleErrors(),
		h.HandleUpdateProduct)

	products.Patch("/:id",
		idParam().Handler(),
		middleware.HandleErrors(),
		h.HandleUpdateAvailability)

	products.Delete("/:id",
		idParam().Handler(),
		middleware.HandleErrors(),
		h.HandleDeleteProduct)
}

func idParam() *validation.Chain {
	return validation.Param("id").IsInt().WithMessage("id must be an integer")
}

func nameField() *validation.Chain {
	return validation.Body("name").IsString().WithMessage("name must be text")
}

func priceField() *validation.Chain {
	return validation.Body("price").
		IsFloat().WithMessage("price must be numeric").
		Custom(isPositive).WithMessage("price must be greater than zero")
}

// isPositive reports whether the price is still positive once rounded to
// the stored scale.
func isPositive(value interface{}) bool {
	d, err := decimal.NewFromString(validation.ToString(value))
	return err == nil && d.Round(models.PriceScale).IsPositive()
}

// productID reads the already validated :id parameter. IDs that cannot be a
// primary key report ok=false and are treated as missing products.
func productID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: msgProductNotFound})
}

// serviceError maps a service error to a response. Unexpected errors are
// handed to the app error handler.
func serviceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return notFound(c)
	}
	return err
}

// HandleGetProducts godoc
//
//	@Summary		Get all the products
//	@Description	Returns every product in the database
//	@Tags			Products
//	@Produce		json
//	@Success		200	{object}	DataResponse{data=[]models.Product}	"Successful response"
//	@Router			/api/products [get]
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return err
	}
	return c.JSON(DataResponse{Data: products})
}

// HandleGetProductByID godoc
//
//	@Summary		Get one product by the id
//	@Description	Returns the product with the given id
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		int	true	"The id of the product"
//	@Success		200	{object}	DataResponse{data=models.Product}	"Successful response"
//	@Failure		404	{object}	ErrorResponse	"The id does not exist or is not an integer"
//	@Router			/api/products/{id} [get]
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return notFound(c)
	}
	product, err := h.service.GetProductByID(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(DataResponse{Data: product})
}

// HandleCreateProduct godoc
//
//	@Summary		Create a new product
//	@Description	Adds a new product. Availability defaults to true.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.ProductRequest	true	"Product to create"
//	@Success		201		{object}	DataResponse{data=models.Product}	"The product was created"
//	@Failure		404		{object}	ValidationErrorResponse	"Validation failed"
//	@Router			/api/products [post]
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	product, err := h.service.CreateProduct(req)
	if err != nil {
		return err
	}
	logrus.WithField("product_id", product.ID).Info("Product created")
	return c.Status(fiber.StatusCreated).JSON(DataResponse{Data: product})
}

// HandleUpdateProduct godoc
//
//	@Summary		Update a product by the id
//	@Description	Replaces the name and price of a product, and its availability when given
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"The id of the product"
//	@Param			product	body		models.ProductRequest	true	"New product values"
//	@Success		200		{object}	DataResponse{data=models.Product}	"The product was updated"
//	@Failure		404		{object}	ValidationErrorResponse	"Validation failed or the id does not exist"
//	@Router			/api/products/{id} [put]
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return notFound(c)
	}

	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	product, err := h.service.UpdateProduct(id, req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(DataResponse{Data: product})
}

// HandleUpdateAvailability godoc
//
//	@Summary		Toggle the availability of a product
//	@Description	Flips the availability flag of the product with the given id
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		int	true	"The id of the product"
//	@Success		200	{object}	DataResponse{data=models.Product}	"The product was updated"
//	@Failure		404	{object}	ErrorResponse	"The id does not exist or is not an integer"
//	@Router			/api/products/{id} [patch]
func (h *ProductHandler) HandleUpdateAvailability(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return notFound(c)
	}
	product, err := h.service.ToggleAvailability(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(DataResponse{Data: product})
}

// HandleDeleteProduct godoc
//
//	@Summary		Delete a product
//	@Description	Removes the product with the given id
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		int	true	"The id of the product"
//	@Success		200	{object}	DataResponse{data=string}	"The product was deleted"
//	@Failure		404	{object}	ErrorResponse	"The id does not exist or is not an integer"
//	@Router			/api/products/{id} [delete]
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return notFound(c)
	}
	if err := h.service.DeleteProduct(id); err != nil {
		return serviceError(c, err)
	}
	logrus.WithField("product_id", id).Info("Product deleted")
	return c.JSON(DataResponse{Data: msgProductDeleted})
}
