package utils

import (
	"healthcard-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("payment_method", validatePaymentMethod)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == constvars.PaymentMethodExternalWallet || value == constvars.PaymentMethodManualReceipt
}
