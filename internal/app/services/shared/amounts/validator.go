package amounts

import (
	"fmt"
	"healthcard-service/internal/pkg/constvars"
	"math"
)

// Result is the outcome of a monetary validation. Error is empty when valid.
type Result struct {
	IsValid bool
	Error   string
}

// Validate applies the monetary input rules in order: non-finite, non-positive,
// over the maximum, more than two decimal places. No side effects; it is used
// for the base fee and the service fee independently before any network call.
func Validate(amount float64) Result {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Result{Error: "amount must be a number"}
	}
	if amount <= 0 {
		return Result{Error: "amount must be greater than zero"}
	}
	if amount > constvars.AmountMaxValue {
		return Result{Error: fmt.Sprintf("amount must not exceed %d", constvars.AmountMaxValue)}
	}
	rounded := math.Round(amount*100) / 100
	if rounded != amount {
		return Result{Error: "amount must have at most 2 decimal places"}
	}
	return Result{IsValid: true}
}
