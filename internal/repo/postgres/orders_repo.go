package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/taipei-trip/internal/domain"
)

type OrdersRepo interface {
	// AllocateSeq hands out the next sequence number for the given
	// YYYYMMDD prefix. Allocation is serialized per day by the counter
	// row's lock, so concurrent submissions never share a number.
	AllocateSeq(ctx context.Context, dayPrefix string) (int, error)
	// CreateAndClearBooking inserts the order and deletes the user's
	// staged booking in one transaction.
	CreateAndClearBooking(ctx context.Context, o *domain.Order) error
	FetchByNumber(ctx context.Context, number string, userID int64) (*domain.OrderDetail, error)
}

type OrdersRepoImpl struct{ pool *pgxpool.Pool }

func NewOrdersRepo(pool *pgxpool.Pool) *OrdersRepoImpl { return &OrdersRepoImpl{pool: pool} }

func (r *OrdersRepoImpl) AllocateSeq(ctx context.Context, dayPrefix string) (int, error) {
	const q = `
INSERT INTO order_sequences (day_prefix, last_seq)
VALUES ($1, 1)
ON CONFLICT (day_prefix) DO UPDATE SET
	last_seq = order_sequences.last_seq + 1
RETURNING last_seq`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var seq int
	if err := r.pool.QueryRow(ctx, q, dayPrefix).Scan(&seq); err != nil {
		return 0, domain.Wrap(domain.KindInternal, "failed to allocate order number", err)
	}
	return seq, nil
}

func (r *OrdersRepoImpl) CreateAndClearBooking(ctx context.Context, o *domain.Order) error {
	const insertOrder = `
INSERT INTO orders
(order_number, user_id, attraction_id, date, time_slot, price,
 contact_name, contact_email, contact_phone, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	const clearBooking = `DELETE FROM bookings WHERE user_id = $1`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Wrap(domain.KindInternal, "failed to open transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertOrder,
		o.Number, o.UserID, o.AttractionID, o.Date, o.Time, o.Price,
		o.Contact.Name, o.Contact.Email, o.Contact.Phone, o.Status, o.CreatedAt,
	); err != nil {
		return domain.Wrap(domain.KindInternal, "failed to persist order", err)
	}
	if _, err := tx.Exec(ctx, clearBooking, o.UserID); err != nil {
		return domain.Wrap(domain.KindInternal, "failed to retire booking", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Wrap(domain.KindInternal, "failed to commit order", err)
	}
	return nil
}

// FetchByNumber is ownership-scoped: the order number alone does not
// grant access.
func (r *OrdersRepoImpl) FetchByNumber(ctx context.Context, number string, userID int64) (*domain.OrderDetail, error) {
	const q = `
SELECT o.order_number, o.price, o.date, o.time_slot,
       o.contact_name, o.contact_email, o.contact_phone, o.status,
       a.id, a.name, a.address, a.images
FROM orders o
JOIN attractions a ON o.attraction_id = a.id
WHERE o.order_number = $1 AND o.user_id = $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var (
		d         domain.OrderDetail
		rawImages string
	)
	err := r.pool.QueryRow(ctx, q, number, userID).Scan(
		&d.Number, &d.Price, &d.Trip.Date, &d.Trip.Time,
		&d.Contact.Name, &d.Contact.Email, &d.Contact.Phone, &d.Status,
		&d.Trip.Attraction.ID, &d.Trip.Attraction.Name, &d.Trip.Attraction.Address, &rawImages,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "failed to fetch order", err)
	}
	d.Trip.Attraction.Image = domain.FirstImage(domain.ParseImageField(rawImages))
	return &d, nil
}

var _ OrdersRepo = (*OrdersRepoImpl)(nil)
