package controllers

import (
	"fmt"

	"civicsync-triage/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom binding rules used by the request
// structs in this package. It must run before the router serves traffic.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("issuecategory", func(fl validator.FieldLevel) bool {
		_, err := models.ParseCategory(fl.Field().String())
		return err == nil
	})
}
