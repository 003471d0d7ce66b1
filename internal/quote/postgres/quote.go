package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/core/datamodel/quote"
	quotedomain "github.com/cuckooquote/quote-management/internal/quote"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NextDaySequence atomically increments and returns the per-day counter
// used for quote numbers. The upsert keeps concurrent creations from ever
// seeing the same value.
func (r *Repository) NextDaySequence(ctx context.Context, day string) (int64, error) {
	var counter int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO quote_sequences (day, counter) VALUES (?, 1)
		 ON CONFLICT (day) DO UPDATE SET counter = quote_sequences.counter + 1
		 RETURNING counter`,
		day,
	).Scan(&counter).Error
	if err != nil {
		return 0, err
	}
	return counter, nil
}

func (r *Repository) Create(ctx context.Context, q *quote.Quote) error {
	err := r.db.WithContext(ctx).Create(q).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrDuplicateQuoteNumber
	}
	return err
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*quote.Quote, error) {
	var q quote.Quote
	err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrQuoteNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *Repository) Update(ctx context.Context, q *quote.Quote) error {
	return r.db.WithContext(ctx).Save(q).Error
}

func (r *Repository) List(ctx context.Context, params quotedomain.ListParams) ([]*quote.Quote, int64, error) {
	query := r.scoped(ctx, params.SalesPersonID)

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.StartDate != nil {
		query = query.Where("quote_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("quote_date <= ?", *params.EndDate)
	}
	if params.Search != "" {
		// LOWER on both sides keeps the match case-insensitive on Postgres,
		// where LIKE is case-sensitive.
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ? OR LOWER(quote_number) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*quote.Quote
	err := query.
		Order(fmt.Sprintf("%s %s", params.SortColumn(), params.SortOrder)).
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *Repository) CountByStatus(ctx context.Context, salesPersonID int64) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.scoped(ctx, salesPersonID).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, row := range rows {
		stats[row.Status] = row.Count
	}
	return stats, nil
}

func (r *Repository) SumTotalAmount(ctx context.Context, salesPersonID int64) (int64, error) {
	var total *int64
	err := r.scoped(ctx, salesPersonID).
		Select("SUM(total_amount)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *Repository) CreatedSince(ctx context.Context, salesPersonID int64, since time.Time) ([]quotedomain.CreatedRow, error) {
	var rows []quotedomain.CreatedRow
	err := r.scoped(ctx, salesPersonID).
		Select("created_at, total_amount").
		Where("created_at >= ?", since).
		Find(&rows).Error
	return rows, err
}

// scoped starts a live-quote query, limited to one salesperson when the id
// is non-zero.
func (r *Repository) scoped(ctx context.Context, salesPersonID int64) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&quote.Quote{}).Where("is_active = ?", true)
	if salesPersonID != 0 {
		query = query.Where("sales_person_id = ?", salesPersonID)
	}
	return query
}
