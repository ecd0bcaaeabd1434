package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductInputCoercion(t *testing.T) {
	var in ProductInput
	body := `{"id":"ignored","title":"Mouse","description":"d","code":"M-1",
		"price":"100.5","stock":"5","category":"peripherals","status":"false",
		"thumbnails":["a.png", 3]}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	p := in.NewProduct()
	assert.Empty(t, p.ID)
	assert.Equal(t, "Mouse", p.Title)
	assert.Equal(t, 100.5, p.Price)
	assert.Equal(t, 5, p.Stock)
	assert.False(t, p.Status)
	assert.Equal(t, []string{"a.png", "3"}, p.Thumbnails)
}

func TestProductInputDefaults(t *testing.T) {
	var in ProductInput
	body := `{"title":"Mouse","description":"d","code":"M-1","price":100,"stock":5,"category":"peripherals","thumbnails":"nope"}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	assert.Empty(t, in.MissingField())
	assert.True(t, in.ThumbnailsMalformed)

	p := in.NewProduct()
	assert.True(t, p.Status)
	assert.NotNil(t, p.Thumbnails)
	assert.Empty(t, p.Thumbnails)
}

func TestProductInputMissingField(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		missing string
	}{
		{"Empty body", `{}`, "title"},
		{"Null title", `{"title":null,"description":"d"}`, "title"},
		{"Missing price", `{"title":"t","description":"d","code":"c"}`, "price"},
		{"Missing category", `{"title":"t","description":"d","code":"c","price":1,"stock":0}`, "category"},
		{"Complete", `{"title":"t","description":"d","code":"c","price":0,"stock":0,"category":"x"}`, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var in ProductInput
			require.NoError(t, json.Unmarshal([]byte(tc.body), &in))
			assert.Equal(t, tc.missing, in.MissingField())
		})
	}
}

func TestProductInputRejectsMalformedValues(t *testing.T) {
	testCases := []struct {
		name  string
		body  string
		field string
	}{
		{"Price not numeric", `{"price":"abc"}`, "price"},
		{"Stock fractional", `{"stock":1.5}`, "stock"},
		{"Status not boolean", `{"status":"maybe"}`, "status"},
		{"Title is an object", `{"title":{"a":1}}`, "title"},
		{"Body is an array", `[]`, "body"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var in ProductInput
			err := json.Unmarshal([]byte(tc.body), &in)
			require.Error(t, err)

			var de *Error
			require.True(t, errors.As(err, &de))
			assert.Equal(t, KindValidation, de.Kind)
			assert.Equal(t, tc.field, de.Field)
		})
	}
}

func TestApplyToIsShallowMerge(t *testing.T) {
	existing := &Product{ID: "1", Title: "Old", Code: "C", Price: 1, Stock: 2, Category: "x", Status: true, Thumbnails: []string{"a"}}

	var in ProductInput
	require.NoError(t, json.Unmarshal([]byte(`{"price":999}`), &in))
	in.ApplyTo(existing)

	assert.Equal(t, 999.0, existing.Price)
	assert.Equal(t, "Old", existing.Title)
	assert.Equal(t, []string{"a"}, existing.Thumbnails)
	assert.Equal(t, "1", existing.ID)
}

func TestValidateProduct(t *testing.T) {
	v := NewValidation()

	valid := &Product{Title: "t", Description: "d", Code: "c", Category: "x", Price: 0, Stock: 0}
	require.NoError(t, v.ValidateProduct(valid))

	testCases := []struct {
		name   string
		mutate func(p *Product)
		field  string
	}{
		{"Blank title", func(p *Product) { p.Title = "  " }, "title"},
		{"Negative price", func(p *Product) { p.Price = -1 }, "price"},
		{"Negative stock", func(p *Product) { p.Stock = -3 }, "stock"},
		{"Blank code", func(p *Product) { p.Code = "" }, "code"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid.Clone()
			tc.mutate(p)

			err := v.ValidateProduct(p)
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tc.field, err.(*Error).Field)
		})
	}
}
