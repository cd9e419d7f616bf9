package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type createPayload struct {
	TemplateID uint   `json:"notification_template_id" validate:"required"`
	Channel    int    `json:"notification_type" validate:"required,channel"`
	Title      string `json:"title" validate:"omitempty,max=8"`
}

type statusPayload struct {
	Status *int `json:"status" validate:"required,seen_status"`
}

func TestValidateStructSuccess(t *testing.T) {
	err := ValidateStruct(createPayload{TemplateID: 3, Channel: 2, Title: "hello"})
	require.NoError(t, err)
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(createPayload{Channel: 7, Title: "much too long"})
	require.Error(t, err)

	failures, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, failures, 3)

	fields := map[string]string{}
	for _, f := range failures {
		fields[f.Field] = f.Tag
	}
	require.Equal(t, "required", fields["notification_template_id"])
	require.Equal(t, "channel", fields["notification_type"])
	require.Equal(t, "max", fields["title"])
}

func TestSeenStatusRule(t *testing.T) {
	zero, one, two := 0, 1, 2

	require.NoError(t, ValidateStruct(statusPayload{Status: &zero}))
	require.NoError(t, ValidateStruct(statusPayload{Status: &one}))
	require.Error(t, ValidateStruct(statusPayload{Status: &two}))

	err := ValidateStruct(statusPayload{})
	require.Error(t, err)
	require.Equal(t, "required", err.(ValidationErrors)[0].Tag)
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "status", Tag: "required"},
		{Field: "title", Tag: "max", Param: "8"},
	}
	require.Equal(t, "status failed on required; title failed on max=8", errs.Error())
	require.Equal(t, "validation failed", ValidationErrors{}.Error())
}

func TestRegisterValidationAddsRule(t *testing.T) {
	require.NoError(t, RegisterValidation("even", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	}))

	type payload struct {
		Count int `json:"count" validate:"even"`
	}
	require.NoError(t, ValidateStruct(payload{Count: 4}))

	err := ValidateStruct(payload{Count: 3})
	require.Error(t, err)
	require.Equal(t, "count", err.(ValidationErrors)[0].Field)
}
