package http

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/query"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/service"
)

type ProductHandler struct {
	productService service.ProductService
	logger         hclog.Logger
}

func NewProductHandler(ps service.ProductService, log hclog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: ps,
		logger:         log,
	}
}

// ListResponse is one page of products plus navigation metadata
//
// swagger:model
type ListResponse struct {
	Status      string            `json:"status"`
	Payload     []*domain.Product `json:"payload"`
	TotalDocs   int               `json:"totalDocs"`
	Limit       int               `json:"limit"`
	TotalPages  int               `json:"totalPages"`
	Page        int               `json:"page"`
	PrevPage    *int              `json:"prevPage"`
	NextPage    *int              `json:"nextPage"`
	HasPrevPage bool              `json:"hasPrevPage"`
	HasNextPage bool              `json:"hasNextPage"`
	PrevLink    *string           `json:"prevLink"`
	NextLink    *string           `json:"nextLink"`
}

// GetProducts handles GET /api/products
//
// swagger:route GET /api/products products listProducts
//
// Returns a page of products, optionally filtered by category or
// availability and sorted by price.
//
// Responses:
//
//	200: listResponse
//	500: errorResponse
func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	params := query.ParseParams(r.URL.Query())

	page, err := h.productService.ListProducts(r.Context(), params)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := ListResponse{
		Status:      statusSuccess,
		Payload:     page.Docs,
		TotalDocs:   page.TotalDocs,
		Limit:       page.Limit,
		TotalPages:  page.TotalPages,
		Page:        page.Page,
		PrevPage:    page.PrevPage,
		NextPage:    page.NextPage,
		HasPrevPage: page.HasPrevPage,
		HasNextPage: page.HasNextPage,
		PrevLink:    pageLink(r.URL, params, page.PrevPage),
		NextLink:    pageLink(r.URL, params, page.NextPage),
	}
	writeJSON(w, http.StatusOK, resp)
}

// pageLink builds the URL of another page of the same listing
func pageLink(u *url.URL, params query.Params, page *int) *string {
	if page == nil {
		return nil
	}

	params.Page = *page
	link := u.Path + "?" + params.Values().Encode()
	return &link
}

// GetProductByID handles GET /api/products/{pid}
//
// swagger:route GET /api/products/{pid} products getProductByID
//
// Returns a product by ID.
//
// Responses:
//
//	200: productResponse
//	404: errorResponse
func (h *ProductHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["pid"]

	product, err := h.productService.GetProductByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, product)
}

// AddProduct handles POST /api/products
//
// swagger:route POST /api/products products addProduct
//
// Adds a new product.
//
// Responses:
//
//	201: productResponse
//	400: errorResponse
//	409: errorResponse
func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	in := &domain.ProductInput{}
	if err := decodeBody(r, in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/{pid}
//
// swagger:route PUT /api/products/{pid} products updateProduct
//
// Merges the supplied fields over an existing product.
//
// Responses:
//
//	200: productResponse
//	400: errorResponse
//	404: errorResponse
//	409: errorResponse
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["pid"]

	in := &domain.ProductInput{}
	if err := decodeBody(r, in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/{pid}
//
// swagger:route DELETE /api/products/{pid} products deleteProduct
//
// Deletes a product.
//
// Responses:
//
//	200: deletedResponse
//	404: errorResponse
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["pid"]

	if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, Deleted{Deleted: id})
}

// Deleted acknowledges a deletion
//
// swagger:model
type Deleted struct {
	// The id of the removed product
	Deleted string `json:"deleted"`
}
