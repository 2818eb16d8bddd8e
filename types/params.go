package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

// OpenParams opens a document and selects the working page range.
// Pages are 1-based here, matching what the user sees.
type OpenParams struct {
	Path      string `json:"path" validate:"required"`
	StartPage int    `json:"start_page" validate:"required,gte=1"`
	EndPage   int    `json:"end_page" validate:"required,gte=1"`
}

// RangeParams reselects the page range of an existing session.
type RangeParams struct {
	StartPage int `json:"start_page" validate:"required,gte=1"`
	EndPage   int `json:"end_page" validate:"required,gte=1"`
}

// TrimParams carries the cut percentages for one page. The bounds match the
// 0-99.9 input range of the trim controls.
type TrimParams struct {
	Top    float64 `json:"top" validate:"gte=0,lte=99.9"`
	Bottom float64 `json:"bottom" validate:"gte=0,lte=99.9"`
}

func (params *OpenParams) Validate() map[string]string {
	return validateStruct(params)
}

func (params *RangeParams) Validate() map[string]string {
	return validateStruct(params)
}

func (params *TrimParams) Validate() map[string]string {
	return validateStruct(params)
}

func validateStruct(v any) map[string]string {
	validate := validator.New()
	if err := validate.Struct(v); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}
