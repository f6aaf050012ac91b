package validator

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inquiryForm struct {
	Name     string   `json:"customer_name" validate:"notblank,max=120"`
	Email    string   `json:"customer_email" validate:"required,email"`
	Message  string   `json:"message" validate:"max=2000"`
	Products []string `json:"selected_products" validate:"max=50"`
}

type productForm struct {
	Name   string   `json:"name" validate:"required"`
	Images []string `json:"images" validate:"min=1,dive,url"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate(inquiryForm{Name: "Asha Rao", Email: "asha@example.com"})
	assert.NoError(t, err)
}

func TestValidate_FieldsUseJSONNames(t *testing.T) {
	err := Validate(inquiryForm{Name: "   ", Email: "not-an-email"})
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	fields := ve.Fields()
	assert.Equal(t, "is required", fields["customer_name"])
	assert.Equal(t, "must be a valid email address", fields["customer_email"])
	assert.Contains(t, err.Error(), "customer_email")
}

func TestValidate_SliceMin(t *testing.T) {
	err := Validate(productForm{Name: "Cardimol-650"})
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "must contain at least 1 item(s)", ve.Fields()["images"])
}

func TestValidate_DiveURL(t *testing.T) {
	err := Validate(productForm{Name: "Cardimol-650", Images: []string{"not a url"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a valid URL")
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		body := `{"customer_name":"Asha","customer_email":"asha@example.com","selected_products":["Cardimol-650"]}`
		r := httptest.NewRequest("POST", "/", strings.NewReader(body))
		var dst inquiryForm
		require.NoError(t, DecodeAndValidate(r, &dst))
		assert.Equal(t, []string{"Cardimol-650"}, dst.Products)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{`))
		var dst inquiryForm
		err := DecodeAndValidate(r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode request body")
	})

	t.Run("unknown field", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"customer_name":"A","customer_email":"a@b.co","status":"Contacted"}`))
		var dst inquiryForm
		require.Error(t, DecodeAndValidate(r, &dst))
	})

	t.Run("validation failure", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"customer_name":"A"}`))
		var dst inquiryForm
		err := DecodeAndValidate(r, &dst)
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve))
	})
}
