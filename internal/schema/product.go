package schema

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form field names as they appear in submitted payloads.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldStock       = "stock"
	FieldSKU         = "sku"
	FieldStatus      = "status"
	FieldImageURL    = "image_url"
)

// FieldErrors maps a form field name to its human-readable messages.
type FieldErrors map[string][]string

// Add appends a message to the given field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// ProductData is the normalized, strictly-typed payload produced by a
// successful validation.
type ProductData struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Description string  `json:"description" validate:"required,min=10,max=500"`
	Category    string  `json:"category" validate:"required"`
	Price       float64 `json:"price" validate:"required,min=0.01"`
	Stock       int     `json:"stock" validate:"min=0"`
	SKU         string  `json:"sku" validate:"required,min=3,max=64"`
	Status      string  `json:"status" validate:"required,oneof=DRAFT ACTIVE ARCHIVED"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
}

// structField maps form field names to ProductData struct field names,
// which validator.StructPartial and FieldError.Field() speak in.
var structField = map[string]string{
	FieldName:        "Name",
	FieldDescription: "Description",
	FieldCategory:    "Category",
	FieldPrice:       "Price",
	FieldStock:       "Stock",
	FieldSKU:         "SKU",
	FieldStatus:      "Status",
	FieldImageURL:    "ImageURL",
}

var formField = invert(structField)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// messages maps "field/tag" to a human-readable message. Anything missing
// here falls back to a generic per-field message.
var messages = map[string]string{
	"name/required":        "Product name is required",
	"name/min":             "Name must be at least 2 characters",
	"name/max":             "Name must be at most 120 characters",
	"description/required": "Description must be at least 10 characters",
	"description/min":      "Description must be at least 10 characters",
	"description/max":      "Description must be at most 500 characters",
	"category/required":    "Please select a category",
	"price/required":       "Price must be greater than 0",
	"price/min":            "Price must be greater than 0",
	"stock/min":            "Stock cannot be negative",
	"sku/required":         "SKU must be at least 3 characters",
	"sku/min":              "SKU must be at least 3 characters",
	"sku/max":              "SKU must be at most 64 characters",
	"status/required":      "Status is required",
	"status/oneof":         "Status must be one of DRAFT, ACTIVE or ARCHIVED",
	"image_url/url":        "Must be a valid URL",
}

// ProductValidator validates raw form payloads against the product rules.
type ProductValidator struct {
	validate *validator.Validate
}

// NewProductValidator creates a new ProductValidator.
func NewProductValidator() *ProductValidator {
	return &ProductValidator{
		validate: validator.New(),
	}
}

// Validate coerces and validates the full raw payload. On success it returns
// the normalized ProductData and a nil error map; on failure it returns a
// FieldErrors with one entry per offending field.
func (v *ProductValidator) Validate(raw map[string]string) (*ProductData, FieldErrors) {
	return v.run(raw, nil)
}

// ValidateFields coerces and validates only the named form fields, leaving
// every other rule unchecked. Used for per-step wizard validation.
func (v *ProductValidator) ValidateFields(raw map[string]string, fields []string) (*ProductData, FieldErrors) {
	return v.run(raw, fields)
}

func (v *ProductValidator) run(raw map[string]string, fields []string) (*ProductData, FieldErrors) {
	errs := make(FieldErrors)
	data, coerceFailed := coerce(raw, errs)

	scope := func(field string) bool {
		if fields == nil {
			return true
		}
		for _, f := range fields {
			if f == field {
				return true
			}
		}
		return false
	}

	// Drop coercion errors for fields outside the requested scope.
	for field := range errs {
		if !scope(field) {
			delete(errs, field)
			delete(coerceFailed, field)
		}
	}

	var err error
	if fields == nil {
		err = v.validate.Struct(data)
	} else {
		partial := make([]string, 0, len(fields))
		for _, f := range fields {
			if name, ok := structField[f]; ok {
				partial = append(partial, name)
			}
		}
		err = v.validate.StructPartial(data, partial...)
	}

	if err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			field := formField[fe.StructField()]
			if !scope(field) {
				continue
			}
			// A field that failed coercion already carries its message;
			// range errors on the zero value would only add noise.
			if coerceFailed[field] {
				continue
			}
			errs.Add(field, message(field, fe.Tag()))
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return data, nil
}

// coerce builds a ProductData from raw form strings. Numeric fields are
// parsed before any range check runs; a parse failure becomes a field error
// recorded in errs and flagged in the returned set.
func coerce(raw map[string]string, errs FieldErrors) (*ProductData, map[string]bool) {
	failed := make(map[string]bool)
	data := &ProductData{
		Name:        strings.TrimSpace(raw[FieldName]),
		Description: strings.TrimSpace(raw[FieldDescription]),
		Category:    strings.TrimSpace(raw[FieldCategory]),
		SKU:         strings.TrimSpace(raw[FieldSKU]),
		Status:      strings.TrimSpace(raw[FieldStatus]),
		ImageURL:    strings.TrimSpace(raw[FieldImageURL]),
	}

	if s := strings.TrimSpace(raw[FieldPrice]); s != "" {
		price, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errs.Add(FieldPrice, "Price must be a number")
			failed[FieldPrice] = true
		} else {
			data.Price = price
		}
	}

	if s := strings.TrimSpace(raw[FieldStock]); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil {
			errs.Add(FieldStock, "Stock must be a whole number")
			failed[FieldStock] = true
		} else {
			data.Stock = stock
		}
	}

	return data, failed
}

func message(field, tag string) string {
	if msg, ok := messages[field+"/"+tag]; ok {
		return msg
	}
	return "Invalid value for " + field
}
