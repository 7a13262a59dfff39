package service

import (
	"github.com/shopspring/decimal"

	"toystore-pos/internal/model"
)

// PaymentGateway charges the sale total before the transaction commits. A
// non-nil error aborts the sale exactly like an insufficient-stock failure.
type PaymentGateway interface {
	Charge(method model.PaymentMethod, amount decimal.Decimal) error
}

// simulatedGateway stands in for the real processors (card acquirers, Yape and
// Plin wallet APIs, bank transfer checks). It approves everything.
type simulatedGateway struct{}

func NewSimulatedGateway() PaymentGateway {
	return &simulatedGateway{}
}

func (g *simulatedGateway) Charge(method model.PaymentMethod, amount decimal.Decimal) error {
	return nil
}
