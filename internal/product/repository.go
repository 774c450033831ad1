package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bakery-be/internal/logger"

	"go.uber.org/zap"
)

// Catalog is the read-only product collaborator used by pricing and order assembly.
type Catalog interface {
	GetProductByID(ctx context.Context, id string) (*Product, error)
}

type Repository interface {
	Catalog
	List(ctx context.Context, onlyActive bool) ([]*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id,
	name,
	price,
	unit,
	stock,
	status,
	image_url,
	description,
	selling_config
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var (
		p       Product
		unit    sql.NullString
		selling []byte
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&unit,
		&p.Stock,
		&p.Status,
		&p.ImageURL,
		&p.Description,
		&selling,
	); err != nil {
		return nil, err
	}

	p.Unit = unit.String

	if len(selling) > 0 && string(selling) != "null" {
		var cfg SellingConfig
		if err := json.Unmarshal(selling, &cfg); err != nil {
			return nil, fmt.Errorf("%w: product %s: %v", ErrInvalidSelling, p.ID, err)
		}
		p.Selling = &cfg
	}

	return &p, nil
}

func (r *repository) GetProductByID(ctx context.Context, id string) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProductByID"),
		zap.String("product_id", id),
	)

	query := `SELECT` + productColumns + `FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		log.Error("failed to get product", zap.Error(err))
		return nil, err
	}

	return p, nil
}

func (r *repository) List(ctx context.Context, onlyActive bool) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.Bool("only_active", onlyActive),
	)

	start := time.Now()

	query := `SELECT` + productColumns + `FROM products`
	args := []any{}
	if onlyActive {
		query += ` WHERE status = $1`
		args = append(args, StatusActive)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("query success",
		zap.Int("rows", len(products)),
		zap.Duration("duration", time.Since(start)),
	)

	return products, nil
}
