package httpapi

import (
	playground "github.com/go-playground/validator/v10"

	"github.com/vortex-fintech/geophone/phone"
	"github.com/vortex-fintech/geophone/validator"
)

// TagGeophone checks that a string normalizes to a Georgian number.
const TagGeophone = "geophone"

func init() {
	if err := validator.Register(TagGeophone, "invalid_phone_number", isGeorgianNumber); err != nil {
		panic(err)
	}
}

func isGeorgianNumber(fl playground.FieldLevel) bool {
	_, err := phone.Normalize(fl.Field().String())
	return err == nil
}

type batchRequest struct {
	Numbers []string `json:"numbers" validate:"required,min=1,max=1000,dive,max=64"`
}

type isRequest struct {
	Number   string `validate:"required,geophone"`
	Provider string `validate:"required,max=64"`
}
