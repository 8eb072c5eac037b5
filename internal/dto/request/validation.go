package request

import (
	"perfume-collection/internal/data/entity"
	"perfume-collection/pkg/utils"

	"github.com/go-playground/validator/v10"
)

func init() {
	// category: value must belong to the fixed scent category enumeration
	if err := utils.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return entity.IsValidCategory(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}
