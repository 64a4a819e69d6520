// Package wizard implements the multi-step product form: an ordered
// sequence of steps, each owning a disjoint subset of the record's fields,
// validated step by step and submitted as one aggregate payload at the end.
package wizard

import (
	"errors"
	"strconv"

	"nexusstore/internal/models"
	"nexusstore/internal/schema"
	"nexusstore/internal/services"
)

var (
	// ErrAtFirstStep is returned when retreating from the first step.
	ErrAtFirstStep = errors.New("already at the first step")
	// ErrAtLastStep is returned when advancing past the last step.
	ErrAtLastStep = errors.New("already at the last step")
	// ErrNotAtLastStep is returned when submitting before the last step.
	ErrNotAtLastStep = errors.New("not at the last step")
	// ErrFinished is returned for any transition after a successful submit.
	ErrFinished = errors.New("wizard already finished")
)

// Step is a named grouping of fields validated together before the user
// may proceed.
type Step struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// Steps is the fixed step sequence, reused when editing an existing
// record.
var Steps = []Step{
	{Name: "Basics", Fields: []string{schema.FieldName, schema.FieldDescription, schema.FieldCategory}},
	{Name: "Pricing", Fields: []string{schema.FieldPrice, schema.FieldStock, schema.FieldSKU}},
	{Name: "Media", Fields: []string{schema.FieldImageURL}},
	{Name: "Review", Fields: []string{schema.FieldStatus}},
}

// Dispatcher receives the aggregate payload on the final submit.
type Dispatcher interface {
	CreateProduct(raw map[string]string) services.ActionResult
	UpdateProduct(id string, raw map[string]string) services.ActionResult
}

// Wizard steps through the product form. Intermediate transitions mutate
// only local field state; the single side effect is the store dispatch in
// Submit.
type Wizard struct {
	validator  *schema.ProductValidator
	dispatcher Dispatcher
	productID  string // non-empty in edit mode
	current    int
	values     map[string]string
	finished   bool
}

// New starts a wizard for creating a product, with default field values.
func New(validator *schema.ProductValidator, dispatcher Dispatcher) *Wizard {
	return &Wizard{
		validator:  validator,
		dispatcher: dispatcher,
		values: map[string]string{
			schema.FieldName:        "",
			schema.FieldDescription: "",
			schema.FieldCategory:    "",
			schema.FieldPrice:       "0",
			schema.FieldStock:       "0",
			schema.FieldSKU:         "",
			schema.FieldStatus:      string(models.StatusDraft),
			schema.FieldImageURL:    "",
		},
	}
}

// NewForProduct starts a wizard for editing an existing record, with its
// fields pre-populated.
func NewForProduct(validator *schema.ProductValidator, dispatcher Dispatcher, product *models.Product) *Wizard {
	w := New(validator, dispatcher)
	w.productID = product.ID
	w.values[schema.FieldName] = product.Name
	w.values[schema.FieldDescription] = product.Description
	w.values[schema.FieldCategory] = product.Category
	w.values[schema.FieldPrice] = strconv.FormatFloat(product.Price, 'f', -1, 64)
	w.values[schema.FieldStock] = strconv.Itoa(product.Stock)
	w.values[schema.FieldSKU] = product.SKU
	w.values[schema.FieldStatus] = string(product.Status)
	w.values[schema.FieldImageURL] = product.ImageURL
	return w
}

// Step reports the current zero-based step index.
func (w *Wizard) Step() int {
	return w.current
}

// StepName reports the current step's name.
func (w *Wizard) StepName() string {
	return Steps[w.current].Name
}

// Editing reports whether the wizard was started from an existing record.
func (w *Wizard) Editing() bool {
	return w.productID != ""
}

// Finished reports whether a submit already succeeded.
func (w *Wizard) Finished() bool {
	return w.finished
}

// Values returns a copy of the accumulated raw field values.
func (w *Wizard) Values() map[string]string {
	values := make(map[string]string, len(w.values))
	for k, v := range w.values {
		values[k] = v
	}
	return values
}

// merge copies the given fields from input into the wizard's state,
// leaving fields owned by other steps untouched.
func (w *Wizard) merge(input map[string]string, fields []string) {
	for _, field := range fields {
		if value, ok := input[field]; ok {
			w.values[field] = value
		}
	}
}

// Advance merges the current step's fields from input and validates only
// them. On success the wizard moves forward; on failure it stays put and
// returns the field errors.
func (w *Wizard) Advance(input map[string]string) (schema.FieldErrors, error) {
	if w.finished {
		return nil, ErrFinished
	}
	if w.current >= len(Steps)-1 {
		return nil, ErrAtLastStep
	}

	fields := Steps[w.current].Fields
	w.merge(input, fields)

	if _, fieldErrs := w.validator.ValidateFields(w.values, fields); fieldErrs != nil {
		return fieldErrs, nil
	}

	w.current++
	return nil, nil
}

// Retreat moves back one step without re-validation.
func (w *Wizard) Retreat() error {
	if w.finished {
		return ErrFinished
	}
	if w.current == 0 {
		return ErrAtFirstStep
	}
	w.current--
	return nil
}

// Submit merges the final step's fields, validates the entire aggregated
// record and dispatches it to the create or update action. A successful
// result is terminal: the wizard accepts no further transitions.
func (w *Wizard) Submit(input map[string]string) (services.ActionResult, error) {
	if w.finished {
		return services.ActionResult{}, ErrFinished
	}
	if w.current != len(Steps)-1 {
		return services.ActionResult{}, ErrNotAtLastStep
	}

	w.merge(input, Steps[w.current].Fields)

	if _, fieldErrs := w.validator.Validate(w.values); fieldErrs != nil {
		return services.ActionResult{Success: false, Errors: fieldErrs}, nil
	}

	var result services.ActionResult
	if w.Editing() {
		result = w.dispatcher.UpdateProduct(w.productID, w.Values())
	} else {
		result = w.dispatcher.CreateProduct(w.Values())
	}

	if result.Success {
		w.finished = true
	}
	return result, nil
}
