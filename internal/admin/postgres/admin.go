package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cuckooquote/quote-management/internal/admin"
)

// Repository serves the admin read models with raw SQL; the aggregates and
// joins here are awkward to express through the ORM.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, err
}

func (r *Repository) CountQuotes(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM quotes WHERE is_active = TRUE`)
	return count, err
}

func (r *Repository) SumQuoteAmount(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(total_amount), 0) FROM quotes WHERE is_active = TRUE`)
	return total, err
}

func (r *Repository) RecentUsers(ctx context.Context, limit int) ([]admin.RecentUser, error) {
	users := []admin.RecentUser{}
	err := r.db.SelectContext(ctx, &users,
		`SELECT username, COALESCE(profile_name, '') AS profile_name, role, created_at
		 FROM users
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	return users, err
}

func (r *Repository) RecentQuotes(ctx context.Context, limit int) ([]admin.RecentQuote, error) {
	quotes := []admin.RecentQuote{}
	err := r.db.SelectContext(ctx, &quotes,
		`SELECT q.quote_number, q.customer_name, COALESCE(u.profile_name, u.username) AS sales_name,
		        q.total_amount, q.status, q.created_at
		 FROM quotes q
		 JOIN users u ON u.id = q.sales_person_id
		 WHERE q.is_active = TRUE
		 ORDER BY q.created_at DESC
		 LIMIT $1`, limit)
	return quotes, err
}

func (r *Repository) QuoteStatusCounts(ctx context.Context) (map[string]int64, error) {
	rows := []struct {
		Status string `db:"status"`
		Count  int64  `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT status, COUNT(*) AS count FROM quotes WHERE is_active = TRUE GROUP BY status`)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *Repository) UserRoleCounts(ctx context.Context) (map[string]int64, error) {
	rows := []struct {
		Role  string `db:"role"`
		Count int64  `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT role, COUNT(*) AS count FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *Repository) TopSalespeople(ctx context.Context, limit int) ([]admin.SalesPerformance, error) {
	rows := []admin.SalesPerformance{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT u.username, COALESCE(u.profile_name, '') AS profile_name,
		        COUNT(*) AS total_quotes, SUM(q.total_amount) AS total_amount
		 FROM quotes q
		 JOIN users u ON u.id = q.sales_person_id
		 WHERE q.is_active = TRUE
		 GROUP BY u.id, u.username, u.profile_name
		 ORDER BY total_amount DESC
		 LIMIT $1`, limit)
	return rows, err
}

func (r *Repository) QuotesCreatedSince(ctx context.Context, since time.Time) ([]admin.CreationRow, error) {
	rows := []admin.CreationRow{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT created_at, total_amount FROM quotes
		 WHERE is_active = TRUE AND created_at >= $1`, since)
	return rows, err
}

func (r *Repository) ExportQuotes(ctx context.Context, startDate, endDate *time.Time) ([]admin.ExportRow, error) {
	query := `SELECT q.quote_number, q.customer_name, COALESCE(u.profile_name, u.username) AS sales_name,
	                 q.total_amount, q.status, q.quote_date, q.valid_until
	          FROM quotes q
	          JOIN users u ON u.id = q.sales_person_id
	          WHERE q.is_active = TRUE`
	args := []interface{}{}
	n := 1
	if startDate != nil {
		query += ` AND q.created_at >= $` + strconv.Itoa(n)
		args = append(args, *startDate)
		n++
	}
	if endDate != nil {
		query += ` AND q.created_at <= $` + strconv.Itoa(n)
		args = append(args, *endDate)
		n++
	}
	query += ` ORDER BY q.created_at DESC`

	rows := []admin.ExportRow{}
	err := r.db.SelectContext(ctx, &rows, query, args...)
	return rows, err
}
