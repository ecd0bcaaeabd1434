package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/go-openapi/swag"
)

// ProductInput carries the fields of a create or update request.
// A nil field was not supplied (or was null). Numeric and boolean fields
// accept their string forms, text fields accept any scalar.
type ProductInput struct {
	Title       *string
	Description *string
	Code        *string
	Price       *float64
	Stock       *int
	Category    *string
	Status      *bool
	Thumbnails  []string

	// HasThumbnails is set when the request carried a usable thumbnails array
	HasThumbnails bool
	// ThumbnailsMalformed is set when thumbnails was present but not an array of scalars
	ThumbnailsMalformed bool
}

// requiredFields lists the fields a create request must carry, in reporting order
var requiredFields = []string{"title", "description", "code", "price", "stock", "category"}

// UnmarshalJSON decodes a JSON object, coercing values the way clients
// commonly send them (numbers as strings, booleans as "true"). The id
// key is ignored: identifiers are never taken from request bodies.
func (in *ProductInput) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return NewValidationError("body", "request body must be a JSON object")
	}

	var err error
	if in.Title, err = decodeText("title", fields["title"]); err != nil {
		return err
	}
	if in.Description, err = decodeText("description", fields["description"]); err != nil {
		return err
	}
	if in.Code, err = decodeText("code", fields["code"]); err != nil {
		return err
	}
	if in.Category, err = decodeText("category", fields["category"]); err != nil {
		return err
	}

	if raw := fields["price"]; !isNull(raw) {
		f, ok := decodeNumber(raw)
		if !ok {
			return NewValidationError("price", "price must be a number")
		}
		in.Price = &f
	}

	if raw := fields["stock"]; !isNull(raw) {
		f, ok := decodeNumber(raw)
		if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
			return NewValidationError("stock", "stock must be an integer")
		}
		s := int(f)
		in.Stock = &s
	}

	if raw := fields["status"]; !isNull(raw) {
		b, ok := decodeBool(raw)
		if !ok {
			return NewValidationError("status", "status must be a boolean")
		}
		in.Status = &b
	}

	if raw := fields["thumbnails"]; !isNull(raw) {
		list, ok := decodeTextList(raw)
		in.Thumbnails = list
		in.HasThumbnails = ok
		in.ThumbnailsMalformed = !ok
	}

	return nil
}

// MissingField returns the first required field absent from the input,
// or an empty string when the input is complete.
func (in *ProductInput) MissingField() string {
	present := map[string]bool{
		"title":       in.Title != nil,
		"description": in.Description != nil,
		"code":        in.Code != nil,
		"price":       in.Price != nil,
		"stock":       in.Stock != nil,
		"category":    in.Category != nil,
	}
	for _, f := range requiredFields {
		if !present[f] {
			return f
		}
	}
	return ""
}

// NewProduct builds a product from a complete input, applying defaults
// for status (true) and thumbnails (empty). The id is left blank for the
// storage backend to assign.
func (in *ProductInput) NewProduct() *Product {
	p := &Product{
		Status:     true,
		Thumbnails: []string{},
	}
	in.ApplyTo(p)
	return p
}

// ApplyTo performs a shallow merge of the supplied fields over p
func (in *ProductInput) ApplyTo(p *Product) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Code != nil {
		p.Code = *in.Code
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.HasThumbnails {
		p.Thumbnails = append([]string{}, in.Thumbnails...)
	}
}

// IsEmpty reports whether the input carries no applicable field
func (in *ProductInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.Code == nil &&
		in.Price == nil && in.Stock == nil && in.Category == nil &&
		in.Status == nil && !in.HasThumbnails
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeText(field string, raw json.RawMessage) (*string, error) {
	if isNull(raw) {
		return nil, nil
	}
	s, ok := scalarText(raw)
	if !ok {
		return nil, NewValidationError(field, "%s must be text", field)
	}
	return &s, nil
}

// scalarText renders a JSON string, number or boolean as text
func scalarText(raw json.RawMessage) (string, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64, bool:
		return string(bytes.TrimSpace(raw)), true
	default:
		return "", false
	}
}

func decodeNumber(raw json.RawMessage) (float64, bool) {
	if isNull(raw) {
		return 0, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := swag.ConvertFloat64(strings.TrimSpace(t))
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func decodeBool(raw json.RawMessage) (bool, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case string:
		b, err := swag.ConvertBool(strings.TrimSpace(t))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

func decodeTextList(raw json.RawMessage) ([]string, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	list := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := scalarText(item)
		if !ok {
			return nil, false
		}
		list = append(list, s)
	}
	return list, true
}
