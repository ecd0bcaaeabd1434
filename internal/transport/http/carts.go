package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/service"
)

type CartHandler struct {
	cartService service.CartService
	logger      hclog.Logger
}

func NewCartHandler(cs service.CartService, log hclog.Logger) *CartHandler {
	return &CartHandler{
		cartService: cs,
		logger:      log,
	}
}

// QuantityRequest is the body of the line item endpoints
//
// swagger:model
type QuantityRequest struct {
	// Number of units; defaults to 1 when adding
	Quantity json.RawMessage `json:"quantity"`
}

// ReplaceRequest is the body of PUT /api/carts/{cid}
//
// swagger:model
type ReplaceRequest struct {
	Products []domain.LineItem `json:"products"`
}

// CreateCart handles POST /api/carts
//
// swagger:route POST /api/carts carts createCart
//
// Creates an empty cart.
//
// Responses:
//
//	201: cartResponse
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartService.CreateCart(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, cart)
}

// GetCart handles GET /api/carts/{cid}
//
// swagger:route GET /api/carts/{cid} carts getCart
//
// Returns the cart with every line item resolved against the catalog.
//
// Responses:
//
//	200: cartViewResponse
//	404: errorResponse
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartService.GetCartView(r.Context(), mux.Vars(r)["cid"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, view)
}

// AddProduct handles POST /api/carts/{cid}/product/{pid}
//
// swagger:route POST /api/carts/{cid}/product/{pid} carts addToCart
//
// Adds quantity units of a product, merging with an existing line item.
//
// Responses:
//
//	201: cartResponse
//	400: errorResponse
//	404: errorResponse
func (h *CartHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req QuantityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	quantity, err := domain.ParseAddQuantity(req.Quantity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	cart, err := h.cartService.AddProduct(r.Context(), vars["cid"], vars["pid"], quantity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, cart)
}

// SetQuantity handles PUT /api/carts/{cid}/product/{pid}
//
// swagger:route PUT /api/carts/{cid}/product/{pid} carts setQuantity
//
// Overwrites the quantity of an existing line item.
//
// Responses:
//
//	200: cartResponse
//	400: errorResponse
//	404: errorResponse
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req QuantityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	quantity, err := domain.ParseQuantity(req.Quantity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	cart, err := h.cartService.SetQuantity(r.Context(), vars["cid"], vars["pid"], quantity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, cart)
}

// RemoveProduct handles DELETE /api/carts/{cid}/product/{pid}
//
// swagger:route DELETE /api/carts/{cid}/product/{pid} carts removeFromCart
//
// Removes a line item. Removing an absent line item succeeds.
//
// Responses:
//
//	200: cartResponse
//	404: errorResponse
func (h *CartHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	cart, err := h.cartService.RemoveProduct(r.Context(), vars["cid"], vars["pid"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, cart)
}

// ReplaceProducts handles PUT /api/carts/{cid}
//
// swagger:route PUT /api/carts/{cid} carts replaceCart
//
// Replaces every line item of the cart.
//
// Responses:
//
//	200: cartResponse
//	400: errorResponse
//	404: errorResponse
func (h *CartHandler) ReplaceProducts(w http.ResponseWriter, r *http.Request) {
	var req ReplaceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Products == nil {
		writeError(w, h.logger, domain.NewValidationError("products", "Missing required field: products"))
		return
	}

	cart, err := h.cartService.ReplaceProducts(r.Context(), mux.Vars(r)["cid"], req.Products)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, cart)
}

// EmptyCart handles DELETE /api/carts/{cid}
//
// swagger:route DELETE /api/carts/{cid} carts emptyCart
//
// Removes every line item; the cart itself remains.
//
// Responses:
//
//	200: cartResponse
//	404: errorResponse
func (h *CartHandler) EmptyCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartService.EmptyCart(r.Context(), mux.Vars(r)["cid"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, cart)
}
