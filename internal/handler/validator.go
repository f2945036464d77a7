package handler

import (
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("ethaddr", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return common.IsHexAddress(fl.Field().String())
	})
	return v
}

// Validate runs the shared struct validator. The CLI uses it for its
// argument structs.
func Validate(s interface{}) error {
	return validate.Struct(s)
}
