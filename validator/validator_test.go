package validator_test

import (
	"testing"

	play "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/geophone/validator"
)

type window struct {
	Start uint64 `validate:"required"`
	End   uint64 `validate:"gtefield=Start"`
}

type carrier struct {
	Name    string   `validate:"required"`
	Windows []window `validate:"required,min=1,dive"`
	Style   string   `validate:"omitempty,oneof=e164 national"`
}

type tagged struct {
	Code string `validate:"required,all_sevens"`
}

func TestValidate_Valid(t *testing.T) {
	c := carrier{Name: "Magti", Windows: []window{{Start: 1, End: 1}}}
	assert.Nil(t, validator.Validate(c))
}

func TestValidate_NestedPaths(t *testing.T) {
	c := carrier{Windows: []window{{Start: 1, End: 2}, {Start: 10, End: 5}}, Style: "fancy"}
	res := validator.Validate(c)
	require.NotNil(t, res)
	assert.Equal(t, "required", res["Name"])
	assert.Equal(t, "less_than_start", res["Windows[1].End"])
	assert.Equal(t, "invalid_choice", res["Style"])
	assert.NotContains(t, res, "Windows[0].End")
}

func TestValidate_EmptySlice(t *testing.T) {
	res := validator.Validate(carrier{Name: "x", Windows: []window{}})
	assert.Equal(t, "too_short", res["Windows"])
}

func TestValidate_ErrorType(t *testing.T) {
	res := validator.Validate(123)
	require.NotNil(t, res)
	assert.Equal(t, "validation_failed", res["_error"])
}

func TestRegister_CustomTag(t *testing.T) {
	err := validator.Register("all_sevens", "not_sevens", func(fl play.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if r != '7' {
				return false
			}
		}
		return true
	})
	require.NoError(t, err)

	assert.Nil(t, validator.Validate(tagged{Code: "777"}))
	assert.Equal(t, "not_sevens", validator.Validate(tagged{Code: "778"})["Code"])
	assert.Equal(t, "not_sevens", validator.TagReasons()["all_sevens"])
}

func TestErrors_ReturnsPlaygroundErrors(t *testing.T) {
	errs := validator.Errors(carrier{})
	require.NotEmpty(t, errs)
	assert.Nil(t, validator.Errors(carrier{Name: "x", Windows: []window{{Start: 1, End: 1}}}))
}
