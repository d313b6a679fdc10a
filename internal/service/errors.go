package service

import "errors"

var (
	// ErrAvoidProduct is returned when a user tries to promote a product
	// the scanner marked "avoid" into a routine.
	ErrAvoidProduct = errors.New("product was marked avoid and cannot be added to a routine")

	// ErrAnalysisUnusable is returned when a stored analysis cannot be
	// promoted because its recorded model reply never decoded cleanly.
	ErrAnalysisUnusable = errors.New("analysis holds no usable result")
)
