package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/taipei-trip/internal/domain"
)

// PageSize is the fixed attraction page size. List fetches one extra row
// to detect a next page without a count query.
const PageSize = 12

type AttractionsRepo interface {
	List(ctx context.Context, page int, keyword string) ([]domain.Attraction, *int, error)
	GetByID(ctx context.Context, id int64) (*domain.Attraction, error)
	ListMRTs(ctx context.Context) ([]string, error)
}

type AttractionsRepoImpl struct{ pool *pgxpool.Pool }

func NewAttractionsRepo(pool *pgxpool.Pool) *AttractionsRepoImpl {
	return &AttractionsRepoImpl{pool: pool}
}

const attractionCols = `a.id, a.name, a.category, a.description,
a.address, a.transport, m.name, a.lat, a.lng, a.images`

func (r *AttractionsRepoImpl) List(ctx context.Context, page int, keyword string) ([]domain.Attraction, *int, error) {
	if page < 0 {
		page = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var (
		rows pgx.Rows
		err  error
	)
	if keyword != "" {
		const q = `SELECT ` + attractionCols + `
FROM attractions a
LEFT JOIN mrts m ON a.mrt_id = m.id
WHERE a.name ILIKE $1 OR m.name ILIKE $1
ORDER BY a.id
LIMIT $2 OFFSET $3`
		rows, err = r.pool.Query(ctx, q, "%"+keyword+"%", PageSize+1, page*PageSize)
	} else {
		const q = `SELECT ` + attractionCols + `
FROM attractions a
LEFT JOIN mrts m ON a.mrt_id = m.id
ORDER BY a.id
LIMIT $1 OFFSET $2`
		rows, err = r.pool.Query(ctx, q, PageSize+1, page*PageSize)
	}
	if err != nil {
		return nil, nil, domain.Wrap(domain.KindInternal, "failed to list attractions", err)
	}
	defer rows.Close()

	out := make([]domain.Attraction, 0, PageSize+1)
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, nil, domain.Wrap(domain.KindInternal, "failed to scan attraction", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, domain.Wrap(domain.KindInternal, "failed to list attractions", err)
	}

	var nextPage *int
	if len(out) > PageSize {
		out = out[:PageSize]
		np := page + 1
		nextPage = &np
	}
	return out, nextPage, nil
}

func (r *AttractionsRepoImpl) GetByID(ctx context.Context, id int64) (*domain.Attraction, error) {
	const q = `SELECT ` + attractionCols + `
FROM attractions a
LEFT JOIN mrts m ON a.mrt_id = m.id
WHERE a.id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := r.pool.QueryRow(ctx, q, id)
	a, err := scanAttraction(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "failed to get attraction", err)
	}
	return a, nil
}

// ListMRTs returns station names ordered by how many attractions sit on
// each, busiest first.
func (r *AttractionsRepoImpl) ListMRTs(ctx context.Context) ([]string, error) {
	const q = `
SELECT m.name, COUNT(a.id) AS attraction_count
FROM mrts m
LEFT JOIN attractions a ON a.mrt_id = m.id
GROUP BY m.name
ORDER BY attraction_count DESC, m.name`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "failed to list mrts", err)
	}
	defer rows.Close()

	names := make([]string, 0, 64)
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			return nil, domain.Wrap(domain.KindInternal, "failed to scan mrt", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Wrap(domain.KindInternal, "failed to list mrts", err)
	}
	return names, nil
}

func scanAttraction(row pgx.Row) (*domain.Attraction, error) {
	var (
		a         domain.Attraction
		rawImages string
	)
	if err := row.Scan(
		&a.ID, &a.Name, &a.Category, &a.Description,
		&a.Address, &a.Transport, &a.MRT, &a.Lat, &a.Lng, &rawImages,
	); err != nil {
		return nil, err
	}
	a.Images = domain.ParseImageField(rawImages)
	return &a, nil
}

var _ AttractionsRepo = (*AttractionsRepoImpl)(nil)
