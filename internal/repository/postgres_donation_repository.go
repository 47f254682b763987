package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/pkg/database"
)

// PostgresDonationRepository implements DonationRepository using PostgreSQL
type PostgresDonationRepository struct {
	db database.DBTX
}

// NewPostgresDonationRepository creates a new PostgresDonationRepository
func NewPostgresDonationRepository(db database.DBTX) *PostgresDonationRepository {
	return &PostgresDonationRepository{db: db}
}

const donationColumns = `d.id, d.event_id, d.donor_id, d.amount::float8, d.currency,
	d.method, d.status,
	COALESCE(d.transaction_id, '') AS transaction_id,
	COALESCE(d.failure_reason, '') AS failure_reason,
	COALESCE(d.message, '') AS message,
	d.created_at,
	COALESCE(e.title, '') AS event_title,
	COALESCE(e.slug, '') AS event_slug`

// Create records a donation. It never touches events.raised or events.donors.
func (r *PostgresDonationRepository) Create(ctx context.Context, d *domain.Donation) error {
	query := `
		INSERT INTO donations (
			id, event_id, donor_id, amount, currency, method, status,
			transaction_id, failure_reason, message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), $11)
	`
	_, err := r.db.Exec(ctx, query,
		d.ID,
		d.EventID,
		d.DonorID,
		d.Amount,
		d.Currency,
		d.Method,
		d.Status,
		d.TransactionID,
		d.FailureReason,
		d.Message,
		d.CreatedAt,
	)
	return err
}

// ListByDonor lists a donor's donations, newest first
func (r *PostgresDonationRepository) ListByDonor(ctx context.Context, donorID string) ([]*domain.Donation, error) {
	query := `SELECT ` + donationColumns + `
		FROM donations d
		LEFT JOIN events e ON e.id = d.event_id
		WHERE d.donor_id = $1
		ORDER BY d.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, donorID)
	if err != nil {
		return nil, err
	}
	return scanDonations(rows)
}

// ListByEvent lists donations made to an event, newest first
func (r *PostgresDonationRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Donation, error) {
	query := `SELECT ` + donationColumns + `
		FROM donations d
		LEFT JOIN events e ON e.id = d.event_id
		WHERE d.event_id = $1
		ORDER BY d.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	return scanDonations(rows)
}

func scanDonations(rows pgx.Rows) ([]*domain.Donation, error) {
	defer rows.Close()

	donations := []*domain.Donation{}
	for rows.Next() {
		d := &domain.Donation{}
		err := rows.Scan(
			&d.ID,
			&d.EventID,
			&d.DonorID,
			&d.Amount,
			&d.Currency,
			&d.Method,
			&d.Status,
			&d.TransactionID,
			&d.FailureReason,
			&d.Message,
			&d.CreatedAt,
			&d.EventTitle,
			&d.EventSlug,
		)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}
