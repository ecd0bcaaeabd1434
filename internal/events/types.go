package events

import "github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"

// Type names a catalog change
type Type string

const (
	ProductCreated Type = "product_created"
	ProductUpdated Type = "product_updated"
	ProductDeleted Type = "product_deleted"
)

// ProductEvent describes one successful catalog mutation. Product is the
// stored state after the change, or the last known state for deletions.
type ProductEvent struct {
	Type      Type            `json:"type"`
	ProductID string          `json:"productId"`
	Product   *domain.Product `json:"product"`
}

// ProductsUpdated is the full catalog snapshot pushed to realtime sessions
type ProductsUpdated struct {
	Products []*domain.Product
}

// EventName is the realtime channel's name for ProductsUpdated
const EventName = "products:update"
