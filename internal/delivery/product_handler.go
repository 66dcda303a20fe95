package delivery

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/samueldmelo/logfoto/internal/domain"
	"github.com/samueldmelo/logfoto/internal/usecase"
	"github.com/sirupsen/logrus"
)

// ProductHandler serves the JSON API under /api.
type ProductHandler struct {
	useCase usecase.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/api/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/groups", h.ListGroups)
		products.GET("/:id", h.GetProductByID)
		products.PATCH("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

// patchRequest mirrors the edit form: an empty or absent field is left as is.
type patchRequest struct {
	SKU       string `json:"sku"`
	Categoria string `json:"categoria"`
	Tamanho   string `json:"tamanho"`
	Cor       string `json:"cor"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product domain.NewProduct
	if err := c.ShouldBindJSON(&product); err != nil {
		h.log.Errorf("Failed to bind JSON for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.Register(c.Request.Context(), product)
	if err != nil {
		h.log.Errorf("Failed to create product '%s': %v", product.SKU, err)
		FailResponse(c, "Failed to create product", err)
		return
	}

	h.log.Infof("Product created successfully: ID %s, SKU %s", created.ID, created.SKU)
	SuccessResponse(c, http.StatusCreated, "Product created successfully", created)
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id := c.Param("id")

	product, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get product by ID %s: %v", id, err)
		FailResponse(c, "Failed to retrieve product", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for update product ID %s: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.useCase.Edit(c.Request.Context(), id, domain.PatchFromForm(req.SKU, req.Categoria, req.Tamanho, req.Cor))
	if err != nil {
		h.log.Errorf("Failed to update product ID %s: %v", id, err)
		FailResponse(c, "Failed to update product", err)
		return
	}

	h.log.Infof("Product updated successfully: ID %s", updated.ID)
	SuccessResponse(c, http.StatusOK, "Product updated successfully", updated)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := h.useCase.Remove(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete product ID %s: %v", id, err)
		FailResponse(c, "Failed to delete product", err)
		return
	}

	h.log.Infof("Product deleted successfully: ID %s", id)
	SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}

// ListProducts accepts the six filter fields as query parameters plus view.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := filterFromQuery(c)
	mode := usecase.ParseViewMode(c.Query("view"))

	listing, err := h.useCase.Browse(c.Request.Context(), filter, mode)
	if err != nil {
		h.log.Errorf("Failed to list products: %v", err)
		FailResponse(c, "Failed to list products", err)
		return
	}

	SuccessResponse(c, http.StatusOK, listing.Summary(), listing)
}

func (h *ProductHandler) ListGroups(c *gin.Context) {
	listing, err := h.useCase.Browse(c.Request.Context(), filterFromQuery(c), usecase.ViewGrouped)
	if err != nil {
		h.log.Errorf("Failed to list product groups: %v", err)
		FailResponse(c, "Failed to list product groups", err)
		return
	}

	SuccessResponse(c, http.StatusOK, listing.Summary(), listing.Groups)
}

func filterFromQuery(c *gin.Context) domain.ProductFilter {
	return filterFromValues(c.Request.URL.Query())
}

// filterFromValues feeds each known parameter through the filter state
// machine, so cor is upper-cased and unknown parameters are ignored.
func filterFromValues(q url.Values) domain.ProductFilter {
	filter := domain.ProductFilter{}
	for _, field := range domain.FilterFields {
		filter = filter.With(field, q.Get(string(field)))
	}
	return filter
}
