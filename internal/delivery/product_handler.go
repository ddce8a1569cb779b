package delivery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"catalog_admin/internal/domain"
	"catalog_admin/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

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
	products := router.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProductByID)
		products.PUT("/:id", h.ReplaceProduct)
		products.PATCH("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

// priceField and idField decode from a JSON number or a numeric string, the
// same values PATCH accepts.
type priceField float64

func (p *priceField) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, ok := usecase.ToFloat(raw)
	if !ok {
		return fmt.Errorf("price must be a number, got %s", data)
	}
	*p = priceField(v)
	return nil
}

type idField int

func (i *idField) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, ok := usecase.ToInt(raw)
	if !ok {
		return fmt.Errorf("categoryId must be an integer, got %s", data)
	}
	*i = idField(v)
	return nil
}

type productRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	Price       *priceField `json:"price" binding:"required,gte=0"`
	Image       string      `json:"image"`
	CategoryID  idField     `json:"categoryId" binding:"required"`
}

func (r productRequest) toDomain(id int) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Price:       float64(*r.Price),
		Image:       r.Image,
		CategoryID:  int(r.CategoryID),
	}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	createdProduct, err := h.useCase.CreateProduct(c.Request.Context(), req.toDomain(0))
	if err != nil {
		h.log.Errorf("Failed to create product '%s': %v", req.Name, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create product: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, createdProduct)
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.log.Warnf("Invalid product ID parameter: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	product, err := h.useCase.GetProductByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get product by ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve product: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) ReplaceProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.log.Warnf("Invalid product ID parameter for update: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for update product ID %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	replaced, err := h.useCase.ReplaceProduct(c.Request.Context(), req.toDomain(id))
	if err != nil {
		h.log.Errorf("Failed to update product ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update product: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, replaced)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.log.Warnf("Invalid product ID parameter for update: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		h.log.Warnf("Failed to bind JSON for update product ID %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(updates) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: no fields provided for update")
		return
	}

	updatedProduct, err := h.useCase.UpdateProduct(c.Request.Context(), id, updates)
	if err != nil {
		h.log.Errorf("Failed to update product ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update product: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, updatedProduct)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.log.Warnf("Invalid product ID parameter for delete: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	if err := h.useCase.DeleteProduct(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete product ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete product: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter %q", key, raw)
	}
	return n, nil
}

// parseProductQuery reads the json-server list parameters
// (_page, _limit, _sort, _order, q) plus an optional categoryId filter.
func parseProductQuery(c *gin.Context) (domain.ProductQuery, error) {
	var q domain.ProductQuery
	var err error

	if q.Page, err = queryInt(c, "_page"); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(c, "_limit"); err != nil {
		return q, err
	}
	if q.CategoryID, err = queryInt(c, "categoryId"); err != nil {
		return q, err
	}
	q.Sort = domain.SortField(c.Query("_sort"))
	q.Order = domain.SortOrder(strings.ToLower(c.Query("_order")))
	q.Search = strings.TrimSpace(c.Query("q"))
	return q, nil
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	query, err := parseProductQuery(c)
	if err != nil {
		h.log.Warnf("Rejected product list query: %v", err)
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	products, total, err := h.useCase.ListProducts(c.Request.Context(), query)
	if err != nil {
		h.log.Errorf("Failed to list products: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve products: "+err.Error())
		return
	}

	c.Header(TotalCountHeader, strconv.Itoa(total))
	c.Header("Access-Control-Expose-Headers", TotalCountHeader)
	c.JSON(http.StatusOK, products)
}
