package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer  Role = "Customer"
	RoleOrganizer Role = "Organizer"
)

func ValidRole(r Role) bool {
	return r == RoleCustomer || r == RoleOrganizer
}

type EventStatus string

const (
	EventScheduled EventStatus = "Scheduled"
	EventCancelled EventStatus = "Cancelled"
	EventCompleted EventStatus = "Completed"
)

type TicketStatus string

const (
	TicketAvailable TicketStatus = "Available"
	TicketSold      TicketStatus = "Sold"
)

const (
	OrderPaid        = "Paid"
	PaymentCompleted = "Completed"
)

// Identity is the authenticated caller resolved by the session layer. It is
// built once per request and never mutated by the core.
type Identity struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   Role
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

type Venue struct {
	ID      uuid.UUID
	Name    string
	City    string
	Address string
}

type Section struct {
	ID       uuid.UUID
	VenueID  uuid.UUID
	Name     string
	Capacity int
}

type Seat struct {
	ID         uuid.UUID
	SectionID  uuid.UUID
	RowLabel   string
	SeatNumber int
}

type Event struct {
	ID            uuid.UUID
	OrganizerID   uuid.UUID
	VenueID       uuid.UUID
	Title         string
	Description   string
	StartTime     time.Time
	EndTime       time.Time
	StandardPrice float64
	Status        EventStatus
}

type Ticket struct {
	ID      uuid.UUID
	EventID uuid.UUID
	SeatID  uuid.UUID
	Price   float64
	Status  TicketStatus
	OrderID *uuid.UUID
}

type Order struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Amount    float64
	Status    string
	CreatedAt time.Time
}

type Payment struct {
	ID      uuid.UUID
	OrderID uuid.UUID
	Method  string
	Amount  float64
	Status  string
}

// OrderTicket is a ticket joined with its seat and event for receipts.
type OrderTicket struct {
	Ticket
	RowLabel   string
	SeatNumber int
	EventTitle string
}

// OrderDetails is everything a purchaser sees about one of their orders.
type OrderDetails struct {
	Order   Order
	Tickets []OrderTicket
	Payment Payment
}
