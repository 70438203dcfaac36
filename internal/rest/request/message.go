package request

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MessageURI is the :id path parameter of message routes
type MessageURI struct {
	ID int64 `uri:"id" validate:"required,gt=0"`
}

// PageQuery is the query string of the recent view
type PageQuery struct {
	Page int64 `form:"page" validate:"gte=0"`
	Size int64 `form:"size" validate:"gte=0"`
}

// Validate checks the validate tags of a bound request
func Validate(r any) error {
	return validate.Struct(r)
}
