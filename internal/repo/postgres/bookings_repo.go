package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/taipei-trip/internal/domain"
)

type BookingsRepo interface {
	Upsert(ctx context.Context, b *domain.Booking) error
	GetByUser(ctx context.Context, userID int64) (*domain.BookingDetail, error)
	Clear(ctx context.Context, userID int64) error
}

type BookingsRepoImpl struct{ pool *pgxpool.Pool }

func NewBookingsRepo(pool *pgxpool.Pool) *BookingsRepoImpl { return &BookingsRepoImpl{pool: pool} }

const foreignKeyViolation = "23503"

// Upsert replaces the user's staged booking. bookings is keyed by
// user_id, so staging twice leaves exactly one row.
func (r *BookingsRepoImpl) Upsert(ctx context.Context, b *domain.Booking) error {
	const q = `
INSERT INTO bookings (user_id, attraction_id, date, time_slot, price)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (user_id) DO UPDATE SET
	attraction_id = EXCLUDED.attraction_id,
	date          = EXCLUDED.date,
	time_slot     = EXCLUDED.time_slot,
	price         = EXCLUDED.price`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, b.UserID, b.AttractionID, b.Date, b.Time, b.Price)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return domain.Wrap(domain.KindValidation, "attraction does not exist", err)
		}
		return domain.Wrap(domain.KindInternal, "failed to stage booking", err)
	}
	return nil
}

func (r *BookingsRepoImpl) GetByUser(ctx context.Context, userID int64) (*domain.BookingDetail, error) {
	const q = `
SELECT b.date, b.time_slot, b.price, a.id, a.name, a.address, a.images
FROM bookings b
JOIN attractions a ON b.attraction_id = a.id
WHERE b.user_id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var (
		d         domain.BookingDetail
		rawImages string
	)
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&d.Date, &d.Time, &d.Price,
		&d.Attraction.ID, &d.Attraction.Name, &d.Attraction.Address, &rawImages,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "failed to get booking", err)
	}
	d.Attraction.Image = domain.FirstImage(domain.ParseImageField(rawImages))
	return &d, nil
}

// Clear deletes the user's staged booking. Deleting zero rows is fine.
func (r *BookingsRepoImpl) Clear(ctx context.Context, userID int64) error {
	const q = `DELETE FROM bookings WHERE user_id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.pool.Exec(ctx, q, userID); err != nil {
		return domain.Wrap(domain.KindInternal, "failed to clear booking", err)
	}
	return nil
}

var _ BookingsRepo = (*BookingsRepoImpl)(nil)
