package domain

// Product represents a catalog entry
//
// swagger:model
type Product struct {
	// The opaque ID of the product, assigned at creation
	//
	// required: true
	// example: 65f1c0e2a7b4c93d2e8f1a20
	ID string `json:"id" bson:"-"`

	// The title of the product
	//
	// required: true
	// example: Mouse Gaming RGB
	Title string `json:"title" bson:"title" validate:"notblank"`

	// The description of the product
	//
	// required: true
	Description string `json:"description" bson:"description" validate:"notblank"`

	// The unique product code
	//
	// required: true
	// example: MOUSE-001
	Code string `json:"code" bson:"code" validate:"notblank"`

	// The price of the product
	//
	// required: true
	// min: 0
	// example: 2500
	Price float64 `json:"price" bson:"price" validate:"gte=0"`

	// Availability flag, true unless set otherwise at creation
	//
	// required: true
	Status bool `json:"status" bson:"status"`

	// Units in stock
	//
	// required: true
	// min: 0
	Stock int `json:"stock" bson:"stock" validate:"gte=0"`

	// The category of the product
	//
	// required: true
	// example: gaming-peripherals
	Category string `json:"category" bson:"category" validate:"notblank"`

	// Ordered list of thumbnail URLs
	//
	// required: true
	Thumbnails []string `json:"thumbnails" bson:"thumbnails"`
}

// Clone returns a deep copy so callers can mutate it freely
func (p *Product) Clone() *Product {
	cp := *p
	cp.Thumbnails = append([]string{}, p.Thumbnails...)
	return &cp
}
