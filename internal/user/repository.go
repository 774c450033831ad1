package user

import (
	"context"
	"database/sql"
	"errors"

	"bakery-be/internal/logger"

	"go.uber.org/zap"
)

type ProfileRepository interface {
	GetProfile(ctx context.Context, customerID string) (*Profile, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ProfileRepository {
	return &repository{db: db}
}

// GetProfile fetches a customer's profile.
func (r *repository) GetProfile(ctx context.Context, customerID string) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProfile"),
		zap.String("customer_id", customerID),
	)

	query := `
		SELECT customer_id, full_name, phone, email, address_line, city, postal_code, updated_at
		FROM customer_profiles
		WHERE customer_id = $1
	`
	row := r.db.QueryRowContext(ctx, query, customerID)

	var (
		p     Profile
		email sql.NullString
	)
	err := row.Scan(
		&p.CustomerID, &p.FullName, &p.Phone, &email, &p.AddressLine, &p.City, &p.PostalCode, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("profile not found")
			return nil, ErrProfileNotFound
		}
		log.Error("failed to scan profile", zap.Error(err))
		return nil, err
	}

	if email.Valid {
		p.Email = &email.String
	}

	return &p, nil
}
