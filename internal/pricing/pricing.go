// Package pricing holds the pure fare and refund calculations.
//
// Fares are exact decimal products; a booking's total is the fare rounded to two
// decimal places. Cancellation fees are rounded to two decimal
// places with half-away-from-zero rounding (decimal.Decimal.Round) and the refund is
// the remainder, so no cent is lost.
package pricing

import (
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var (
	economyMultiplier  = decimal.NewFromInt(1)
	businessMultiplier = decimal.NewFromFloat(2.5)
	firstMultiplier    = decimal.NewFromInt(4)

	cancellationFeeRate = decimal.NewFromFloat(0.10)
)

// Multiplier returns the fare scaling factor of a cabin class.
func Multiplier(cabin domain.CabinClass) (decimal.Decimal, error) {
	switch cabin {
	case domain.CabinEconomy:
		return economyMultiplier, nil
	case domain.CabinBusiness:
		return businessMultiplier, nil
	case domain.CabinFirst:
		return firstMultiplier, nil
	default:
		return decimal.Zero, domain.Newf(domain.ErrInvalidCabinClass, "unknown cabin class %q", cabin)
	}
}

// ComputeFare returns basePrice × passengers × cabin multiplier.
func ComputeFare(basePrice decimal.Decimal, passengers int, cabin domain.CabinClass) (decimal.Decimal, error) {
	m, err := Multiplier(cabin)
	if err != nil {
		return decimal.Zero, err
	}
	if err := domain.ValidatePassengers(passengers); err != nil {
		return decimal.Zero, err
	}
	return basePrice.Mul(decimal.NewFromInt(int64(passengers))).Mul(m), nil
}

// BookingTotal is the fare a booking is charged: ComputeFare rounded to cents.
func BookingTotal(basePrice decimal.Decimal, passengers int, cabin domain.CabinClass) (decimal.Decimal, error) {
	fare, err := ComputeFare(basePrice, passengers, cabin)
	if err != nil {
		return decimal.Zero, err
	}
	return fare.Round(moneyPlaces), nil
}

// Quote is the economy fare used by availability checks.
func Quote(basePrice decimal.Decimal, passengers int) (decimal.Decimal, error) {
	return ComputeFare(basePrice, passengers, domain.CabinEconomy)
}

// Refund splits a cancelled booking's total into the refunded part and the fee.
type Refund struct {
	Refund decimal.Decimal `json:"refund_amount"`
	Fee    decimal.Decimal `json:"cancellation_fee"`
}

// ComputeRefund charges a 10% cancellation fee; Refund + Fee always equals total.
func ComputeRefund(total decimal.Decimal) Refund {
	fee := total.Mul(cancellationFeeRate).Round(moneyPlaces)
	return Refund{
		Refund: total.Sub(fee),
		Fee:    fee,
	}
}
