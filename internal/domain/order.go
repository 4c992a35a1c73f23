package domain

import (
	"math"

	"github.com/google/uuid"
)

const DefaultPayMethod = "Credit"

// NewOrder builds a Paid order for the given tickets using their stored
// catalog prices. The caller has already locked the rows and verified
// availability.
func NewOrder(userID uuid.UUID, tickets []Ticket) Order {
	total := 0.0
	for _, t := range tickets {
		total += t.Price
	}
	return Order{
		ID:     uuid.New(),
		UserID: userID,
		Amount: total,
		Status: OrderPaid,
	}
}

// NewPayment records the simulated payment for an order.
func NewPayment(orderID uuid.UUID, method string, amount float64) Payment {
	if method == "" {
		method = DefaultPayMethod
	}
	return Payment{
		ID:      uuid.New(),
		OrderID: orderID,
		Method:  method,
		Amount:  amount,
		Status:  PaymentCompleted,
	}
}

// ValidPrice accepts finite non-negative amounts.
func ValidPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}
