package crdb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robertarktes/ticketing-platform/internal/adapters/crdb"
	"github.com/robertarktes/ticketing-platform/internal/domain"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testSchema = `
	CREATE DATABASE IF NOT EXISTS ticketing;
	CREATE TABLE IF NOT EXISTS ticketing.users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('Customer', 'Organizer')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS ticketing.venues (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		city TEXT NOT NULL,
		address TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS ticketing.sections (
		id UUID PRIMARY KEY,
		venue_id UUID NOT NULL REFERENCES ticketing.venues (id),
		name TEXT NOT NULL,
		capacity INT NOT NULL,
		UNIQUE (venue_id, name)
	);
	CREATE TABLE IF NOT EXISTS ticketing.seats (
		id UUID PRIMARY KEY,
		section_id UUID NOT NULL REFERENCES ticketing.sections (id),
		row_label TEXT NOT NULL,
		seat_number INT NOT NULL,
		UNIQUE (section_id, row_label, seat_number)
	);
	CREATE TABLE IF NOT EXISTS ticketing.events (
		id UUID PRIMARY KEY,
		organizer_id UUID NOT NULL REFERENCES ticketing.users (id),
		venue_id UUID NOT NULL REFERENCES ticketing.venues (id),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		standard_price NUMERIC NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('Scheduled', 'Cancelled', 'Completed'))
	);
	CREATE TABLE IF NOT EXISTS ticketing.orders (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES ticketing.users (id),
		amount NUMERIC NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('Paid')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS ticketing.tickets (
		id UUID PRIMARY KEY,
		event_id UUID NOT NULL REFERENCES ticketing.events (id),
		seat_id UUID NOT NULL REFERENCES ticketing.seats (id),
		price NUMERIC NOT NULL CHECK (price >= 0),
		status TEXT NOT NULL CHECK (status IN ('Available', 'Sold')),
		order_id UUID REFERENCES ticketing.orders (id),
		UNIQUE (event_id, seat_id)
	);
	CREATE TABLE IF NOT EXISTS ticketing.payments (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL UNIQUE REFERENCES ticketing.orders (id),
		method TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('Completed')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS ticketing.outbox (
		id UUID PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id UUID NOT NULL,
		event_type TEXT NOT NULL,
		payload_json BYTES NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		published_at TIMESTAMPTZ,
		status TEXT NOT NULL CHECK (status IN ('NEW', 'PUBLISHED')),
		dedupe_key TEXT NOT NULL
	);
`

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	crdbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "cockroachdb/cockroach:v24.1.1",
			Cmd:          []string{"start-single-node", "--insecure"},
			ExposedPorts: []string{"26257/tcp", "8080/tcp"},
			WaitingFor:   wait.ForHTTP("/health?ready=1").WithPort("8080"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { crdbContainer.Terminate(ctx) })

	host, err := crdbContainer.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := crdbContainer.MappedPort(ctx, "26257")
	if err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.New(ctx, "postgresql://root@"+host+":"+port.Port()+"/ticketing?sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, testSchema); err != nil {
		t.Fatal(err)
	}
	return pool
}

type fixture struct {
	userID  uuid.UUID
	venueID uuid.UUID
	eventID uuid.UUID
	seatIDs []uuid.UUID
}

func seedEvent(t *testing.T, pool *pgxpool.Pool, seatCount int) fixture {
	t.Helper()
	ctx := context.Background()

	fx := fixture{userID: uuid.New(), venueID: uuid.New(), eventID: uuid.New()}

	if _, err := pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, 'Org', $2, 'x', 'Organizer')
	`, fx.userID, uuid.NewString()+"@example.com"); err != nil {
		t.Fatal(err)
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO venues (id, name, city, address) VALUES ($1, 'Hall', 'Oslo', '1 Main St')
	`, fx.venueID); err != nil {
		t.Fatal(err)
	}
	sectionID := uuid.New()
	if _, err := pool.Exec(ctx, `
		INSERT INTO sections (id, venue_id, name, capacity) VALUES ($1, $2, 'Main', 100)
	`, sectionID, fx.venueID); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < seatCount; i++ {
		seatID := uuid.New()
		if _, err := pool.Exec(ctx, `
			INSERT INTO seats (id, section_id, row_label, seat_number) VALUES ($1, $2, 'A', $3)
		`, seatID, sectionID, i+1); err != nil {
			t.Fatal(err)
		}
		fx.seatIDs = append(fx.seatIDs, seatID)
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO events (id, organizer_id, venue_id, title, start_time, end_time, standard_price, status)
		VALUES ($1, $2, $3, 'Show', $4, $5, 25.00, 'Scheduled')
	`, fx.eventID, fx.userID, fx.venueID, time.Now().Add(time.Hour), time.Now().Add(3*time.Hour)); err != nil {
		t.Fatal(err)
	}
	return fx
}

func TestRepository_PurchaseFlow(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t)
	repo := crdb.NewRepository(pool)
	fx := seedEvent(t, pool, 2)

	tickets := make([]domain.Ticket, 2)
	for i, seatID := range fx.seatIDs {
		tickets[i] = domain.Ticket{
			ID:      uuid.New(),
			EventID: fx.eventID,
			SeatID:  seatID,
			Price:   25.00,
			Status:  domain.TicketAvailable,
		}
		if err := repo.InsertTicket(ctx, tickets[i]); err != nil {
			t.Fatal(err)
		}
	}

	ids := []uuid.UUID{tickets[0].ID, tickets[1].ID}
	order := domain.NewOrder(fx.userID, tickets)

	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		locked, err := repo.LockTickets(ctx, tx, ids)
		if err != nil {
			return err
		}
		if len(locked) != 2 {
			t.Fatalf("expected 2 locked tickets, got %d", len(locked))
		}
		if err := repo.InsertOrder(ctx, tx, order); err != nil {
			return err
		}
		if err := repo.InsertPayment(ctx, tx, domain.NewPayment(order.ID, "Credit", order.Amount)); err != nil {
			return err
		}
		return repo.MarkTicketsSold(ctx, tx, ids, order.ID)
	})
	if err != nil {
		t.Fatalf("purchase transaction failed: %v", err)
	}

	details, err := repo.GetOrderDetails(ctx, fx.userID, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if details.Order.Amount != 50.00 {
		t.Errorf("expected amount 50.00, got %v", details.Order.Amount)
	}
	if len(details.Tickets) != 2 {
		t.Errorf("expected 2 tickets on the order, got %d", len(details.Tickets))
	}
	for _, ot := range details.Tickets {
		if ot.Status != domain.TicketSold {
			t.Errorf("ticket %s not Sold after purchase: %s", ot.ID, ot.Status)
		}
	}
	if details.Payment.Status != domain.PaymentCompleted {
		t.Errorf("payment not Completed: %s", details.Payment.Status)
	}

	// scoped to owner
	if _, err := repo.GetOrderDetails(ctx, uuid.New(), order.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found for non-owner, got %v", err)
	}
}

func TestRepository_PurchaseRollbackLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t)
	repo := crdb.NewRepository(pool)
	fx := seedEvent(t, pool, 1)

	ticket := domain.Ticket{
		ID:      uuid.New(),
		EventID: fx.eventID,
		SeatID:  fx.seatIDs[0],
		Price:   25.00,
		Status:  domain.TicketAvailable,
	}
	if err := repo.InsertTicket(ctx, ticket); err != nil {
		t.Fatal(err)
	}

	order := domain.NewOrder(fx.userID, []domain.Ticket{ticket})
	forced := errors.New("forced failure")
	err := repo.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := repo.LockTickets(ctx, tx, []uuid.UUID{ticket.ID}); err != nil {
			return err
		}
		if err := repo.InsertOrder(ctx, tx, order); err != nil {
			return err
		}
		if err := repo.MarkTicketsSold(ctx, tx, []uuid.UUID{ticket.ID}, order.ID); err != nil {
			return err
		}
		return forced
	})
	if !errors.Is(err, forced) {
		t.Fatalf("expected forced error, got %v", err)
	}

	got, err := repo.GetTicket(ctx, ticket.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.TicketAvailable || got.OrderID != nil {
		t.Errorf("rollback left ticket mutated: %+v", got)
	}
	var n int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("rollback left %d order rows", n)
	}
}

func TestRepository_InsertTicket_SeatConflict(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t)
	repo := crdb.NewRepository(pool)
	fx := seedEvent(t, pool, 1)

	first := domain.Ticket{
		ID: uuid.New(), EventID: fx.eventID, SeatID: fx.seatIDs[0],
		Price: 25.00, Status: domain.TicketAvailable,
	}
	if err := repo.InsertTicket(ctx, first); err != nil {
		t.Fatal(err)
	}

	dup := first
	dup.ID = uuid.New()
	err := repo.InsertTicket(ctx, dup)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for duplicate (event, seat), got %v", err)
	}

	// first listing unaffected
	got, err := repo.GetTicket(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Price != 25.00 {
		t.Errorf("first ticket mutated by failed duplicate: %+v", got)
	}
}

func TestRepository_EnsureSection_Converges(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t)
	repo := crdb.NewRepository(pool)

	venueID := uuid.New()
	if _, err := pool.Exec(ctx, `
		INSERT INTO venues (id, name, city, address) VALUES ($1, 'Hall', 'Oslo', '1 Main St')
	`, venueID); err != nil {
		t.Fatal(err)
	}

	a, err := repo.EnsureSection(ctx, venueID, "Auto Generated", 260)
	if err != nil {
		t.Fatal(err)
	}
	b, err := repo.EnsureSection(ctx, venueID, "Auto Generated", 260)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("EnsureSection returned different sections: %s vs %s", a, b)
	}

	seats := []domain.Seat{
		{ID: uuid.New(), SectionID: a, RowLabel: "A", SeatNumber: 1},
		{ID: uuid.New(), SectionID: a, RowLabel: "A", SeatNumber: 2},
	}
	if err := repo.BulkInsertSeats(ctx, seats); err != nil {
		t.Fatal(err)
	}
	// reinsert with fresh ids: the unique constraint keeps the grid stable
	seats[0].ID = uuid.New()
	seats[1].ID = uuid.New()
	if err := repo.BulkInsertSeats(ctx, seats); err != nil {
		t.Fatal(err)
	}

	n, err := repo.CountSeats(ctx, venueID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 seats after duplicate insert, got %d", n)
	}
}
