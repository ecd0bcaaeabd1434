// Package classification of Catalog API
//
// # Documentation for Catalog API
//
// Schemes: http
// BasePath: /
// Version: 1.0.0
//
// Consumes:
// - application/json
//
// Produces:
// - application/json
//
// swagger:meta
package http

import (
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/service"
)

// NOTE: Types defined here are purely for documentation purposes
// These types are not used by any of the handlers

// Generic error message
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in: body
	Body ErrorEnvelope
}

// A page of products
// swagger:response listResponse
type listResponseWrapper struct {
	// in: body
	Body ListResponse
}

// Data structure representing a single product
// swagger:response productResponse
type productResponseWrapper struct {
	// in: body
	Body struct {
		Status  string         `json:"status"`
		Payload domain.Product `json:"payload"`
	}
}

// Acknowledges a deleted product
// swagger:response deletedResponse
type deletedResponseWrapper struct {
	// in: body
	Body struct {
		Status  string  `json:"status"`
		Payload Deleted `json:"payload"`
	}
}

// A cart and its line items
// swagger:response cartResponse
type cartResponseWrapper struct {
	// in: body
	Body struct {
		Status  string      `json:"status"`
		Payload domain.Cart `json:"payload"`
	}
}

// A cart resolved against the catalog
// swagger:response cartViewResponse
type cartViewResponseWrapper struct {
	// in: body
	Body struct {
		Status  string           `json:"status"`
		Payload service.CartView `json:"payload"`
	}
}

// swagger:parameters getProductByID deleteProduct updateProduct uploadThumbnail addToCart setQuantity removeFromCart
type productIDParamsWrapper struct {
	// The ID of the product
	// in: path
	// required: true
	ID string `json:"pid"`
}

// swagger:parameters getCart replaceCart emptyCart addToCart setQuantity removeFromCart
type cartIDParamsWrapper struct {
	// The ID of the cart
	// in: path
	// required: true
	ID string `json:"cid"`
}

// swagger:parameters listProducts
type listParamsWrapper struct {
	// Category, or one of available / unavailable
	// in: query
	Query string `json:"query"`
	// asc or desc by price
	// in: query
	Sort string `json:"sort"`
	// in: query
	Page int `json:"page"`
	// in: query
	Limit int `json:"limit"`
}

// swagger:parameters addProduct updateProduct
type productBodyParamsWrapper struct {
	// Product fields. All but status and thumbnails are required on create.
	// in: body
	// required: true
	Body domain.Product
}

// swagger:parameters addToCart setQuantity
type quantityBodyParamsWrapper struct {
	// in: body
	Body QuantityRequest
}

// swagger:parameters replaceCart
type replaceBodyParamsWrapper struct {
	// in: body
	// required: true
	Body ReplaceRequest
}
