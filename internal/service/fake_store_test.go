package service

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/ticketing-platform/internal/adapters/crdb"
	"github.com/robertarktes/ticketing-platform/internal/domain"
)

// fakeStore is an in-memory stand-in for the crdb repository. WithTx
// snapshots state before running fn and restores it on error, mirroring
// rollback semantics so atomicity assertions hold.
type fakeStore struct {
	tickets    map[uuid.UUID]domain.Ticket
	seats      []domain.Seat
	sections   map[uuid.UUID]domain.Section
	events     map[uuid.UUID]domain.Event
	venues     map[uuid.UUID]domain.Venue
	users      map[string]domain.User
	organizers map[uuid.UUID]bool
	orders     []domain.Order
	payments   []domain.Payment
	outbox     []crdb.OutboxRecord

	lastTicketFilter  crdb.TicketFilter
	failInsertPayment bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tickets:    map[uuid.UUID]domain.Ticket{},
		sections:   map[uuid.UUID]domain.Section{},
		events:     map[uuid.UUID]domain.Event{},
		venues:     map[uuid.UUID]domain.Venue{},
		users:      map[string]domain.User{},
		organizers: map[uuid.UUID]bool{},
	}
}

func (f *fakeStore) snapshot() fakeStore {
	cp := *f
	cp.tickets = map[uuid.UUID]domain.Ticket{}
	for k, v := range f.tickets {
		cp.tickets[k] = v
	}
	cp.seats = append([]domain.Seat(nil), f.seats...)
	cp.orders = append([]domain.Order(nil), f.orders...)
	cp.payments = append([]domain.Payment(nil), f.payments...)
	cp.outbox = append([]crdb.OutboxRecord(nil), f.outbox...)
	cp.users = map[string]domain.User{}
	for k, v := range f.users {
		cp.users[k] = v
	}
	return cp
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	saved := f.snapshot()
	if err := fn(nil); err != nil {
		*f = saved
		return err
	}
	return nil
}

func (f *fakeStore) LockTickets(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, id := range ids {
		if t, ok := f.tickets[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertOrder(ctx context.Context, tx pgx.Tx, order domain.Order) error {
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeStore) InsertPayment(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	if f.failInsertPayment {
		return errors.New("payment insert failed")
	}
	f.payments = append(f.payments, payment)
	return nil
}

func (f *fakeStore) MarkTicketsSold(ctx context.Context, tx pgx.Tx, ids []uuid.UUID, orderID uuid.UUID) error {
	for _, id := range ids {
		t, ok := f.tickets[id]
		if !ok {
			return domain.ErrNotFound
		}
		t.Status = domain.TicketSold
		t.OrderID = &orderID
		f.tickets[id] = t
	}
	return nil
}

func (f *fakeStore) InsertOutbox(ctx context.Context, tx pgx.Tx, record crdb.OutboxRecord) error {
	f.outbox = append(f.outbox, record)
	return nil
}

func (f *fakeStore) GetOrderDetails(ctx context.Context, userID, orderID uuid.UUID) (*domain.OrderDetails, error) {
	for _, o := range f.orders {
		if o.ID == orderID && o.UserID == userID {
			details := &domain.OrderDetails{Order: o}
			for _, p := range f.payments {
				if p.OrderID == orderID {
					details.Payment = p
				}
			}
			for _, t := range f.tickets {
				if t.OrderID != nil && *t.OrderID == orderID {
					details.Tickets = append(details.Tickets, domain.OrderTicket{Ticket: t})
				}
			}
			return details, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) CountSeats(ctx context.Context, venueID uuid.UUID) (int, error) {
	n := 0
	for _, s := range f.seats {
		if f.sections[s.SectionID].VenueID == venueID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) EnsureSection(ctx context.Context, venueID uuid.UUID, name string, capacity int) (uuid.UUID, error) {
	for id, sec := range f.sections {
		if sec.VenueID == venueID && sec.Name == name {
			return id, nil
		}
	}
	id := uuid.New()
	f.sections[id] = domain.Section{ID: id, VenueID: venueID, Name: name, Capacity: capacity}
	return id, nil
}

func (f *fakeStore) BulkInsertSeats(ctx context.Context, seats []domain.Seat) error {
	for _, s := range seats {
		dup := false
		for _, have := range f.seats {
			if have.SectionID == s.SectionID && have.RowLabel == s.RowLabel && have.SeatNumber == s.SeatNumber {
				dup = true
				break
			}
		}
		if !dup {
			f.seats = append(f.seats, s)
		}
	}
	return nil
}

func (f *fakeStore) FindSeats(ctx context.Context, venueID uuid.UUID, row string, number int) ([]domain.Seat, error) {
	var out []domain.Seat
	for _, s := range f.seats {
		if f.sections[s.SectionID].VenueID != venueID || s.SeatNumber != number {
			continue
		}
		if row != "" && s.RowLabel != row {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) AvailableSeats(ctx context.Context, eventID uuid.UUID) ([]domain.Seat, error) {
	event, ok := f.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	taken := map[uuid.UUID]bool{}
	for _, t := range f.tickets {
		if t.EventID == eventID {
			taken[t.SeatID] = true
		}
	}
	var out []domain.Seat
	for _, s := range f.seats {
		if f.sections[s.SectionID].VenueID == event.VenueID && !taken[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertTicket(ctx context.Context, ticket domain.Ticket) error {
	for _, t := range f.tickets {
		if t.EventID == ticket.EventID && t.SeatID == ticket.SeatID {
			return errors.Wrap(domain.ErrConflict, "seat already listed")
		}
	}
	f.tickets[ticket.ID] = ticket
	return nil
}

func (f *fakeStore) GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (f *fakeStore) ListTickets(ctx context.Context, filter crdb.TicketFilter) ([]domain.Ticket, error) {
	f.lastTicketFilter = filter
	var out []domain.Ticket
	for _, t := range f.tickets {
		if filter.EventID != uuid.Nil && t.EventID != filter.EventID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateTicket(ctx context.Context, id uuid.UUID, price *float64, status *domain.TicketStatus) error {
	t, ok := f.tickets[id]
	if !ok {
		return domain.ErrNotFound
	}
	if price != nil {
		t.Price = *price
	}
	if status != nil {
		t.Status = *status
	}
	f.tickets[id] = t
	return nil
}

func (f *fakeStore) DeleteTicketOwned(ctx context.Context, organizerID, id uuid.UUID) error {
	t, ok := f.tickets[id]
	if !ok {
		return domain.ErrNotFound
	}
	if f.events[t.EventID].OrganizerID != organizerID {
		return domain.ErrNotFound
	}
	delete(f.tickets, id)
	return nil
}

func (f *fakeStore) GetVenue(ctx context.Context, id uuid.UUID) (*domain.Venue, error) {
	v, ok := f.venues[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (f *fakeStore) InsertEvent(ctx context.Context, event domain.Event) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakeStore) GetEventOwned(ctx context.Context, organizerID, eventID uuid.UUID) (*domain.Event, error) {
	e, ok := f.events[eventID]
	if !ok || e.OrganizerID != organizerID {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (f *fakeStore) ListEventsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range f.events {
		if e.OrganizerID == organizerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListUpcomingEvents(ctx context.Context, now time.Time) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range f.events {
		if e.Status == domain.EventScheduled && e.EndTime.After(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateEventOwned(ctx context.Context, organizerID, eventID uuid.UUID, update crdb.EventUpdate) error {
	e, ok := f.events[eventID]
	if !ok || e.OrganizerID != organizerID {
		return domain.ErrNotFound
	}
	if update.Title != nil {
		e.Title = *update.Title
	}
	if update.Description != nil {
		e.Description = *update.Description
	}
	if update.StartTime != nil {
		e.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		e.EndTime = *update.EndTime
	}
	if update.StandardPrice != nil {
		e.StandardPrice = *update.StandardPrice
	}
	if update.Status != nil {
		e.Status = *update.Status
	}
	f.events[eventID] = e
	return nil
}

func (f *fakeStore) DeleteEventOwned(ctx context.Context, organizerID, eventID uuid.UUID) error {
	e, ok := f.events[eventID]
	if !ok || e.OrganizerID != organizerID {
		return domain.ErrNotFound
	}
	delete(f.events, eventID)
	return nil
}

func (f *fakeStore) InsertUser(ctx context.Context, tx pgx.Tx, user domain.User) error {
	if _, ok := f.users[user.Email]; ok {
		return errors.Wrap(domain.ErrConflict, "email already registered")
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeStore) InsertOrganizerProfile(ctx context.Context, tx pgx.Tx, userID uuid.UUID, organization, phone string) error {
	f.organizers[userID] = true
	return nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

// seedEvent wires a venue and event owned by organizerID into the fake.
func (f *fakeStore) seedEvent(organizerID uuid.UUID) domain.Event {
	venue := domain.Venue{ID: uuid.New(), Name: "Test Hall", City: "Oslo", Address: "1 Main St"}
	f.venues[venue.ID] = venue
	event := domain.Event{
		ID:            uuid.New(),
		OrganizerID:   organizerID,
		VenueID:       venue.ID,
		Title:         "Test Event",
		StartTime:     time.Now().Add(24 * time.Hour),
		EndTime:       time.Now().Add(26 * time.Hour),
		StandardPrice: 25.00,
		Status:        domain.EventScheduled,
	}
	f.events[event.ID] = event
	return event
}
