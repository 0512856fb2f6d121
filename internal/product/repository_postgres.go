package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	productColumns = `id, name, description, price, original_price, category, badge, image, stock, sold, rating, num_reviews, is_active, created_at, updated_at`

	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	insertProductQuery = `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`
	updateProductQuery = `
		UPDATE products
		SET name = $2,
			description = $3,
			price = $4,
			original_price = $5,
			category = $6,
			badge = $7,
			image = $8,
			stock = $9,
			sold = $10,
			rating = $11,
			num_reviews = $12,
			is_active = $13,
			updated_at = $14
		WHERE id = $1
	`
	deleteProductQuery    = `DELETE FROM products WHERE id = $1`
	deleteAllProductQuery = `DELETE FROM products`
)

// sortColumns maps sort keys to a column and direction; the column goes
// through pq.QuoteIdentifier before reaching the query.
var sortColumns = map[string][2]string{
	SortPriceAsc:  {"price", "ASC"},
	SortPriceDesc: {"price", "DESC"},
	SortName:      {"name", "ASC"},
	SortNewest:    {"created_at", "DESC"},
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Product, int64, error) {
	where, args := buildWhere(f)

	var total int64
	countQuery := "SELECT COUNT(*) FROM products WHERE " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	order, ok := sortColumns[f.Sort]
	if !ok {
		order = sortColumns[SortNewest]
	}
	listQuery := fmt.Sprintf("SELECT %s FROM products WHERE %s ORDER BY %s %s, id LIMIT $%d OFFSET $%d",
		productColumns, where, pq.QuoteIdentifier(order[0]), order[1], len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.offset())

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}
	return out, total, nil
}

func buildWhere(f Filter) (string, []any) {
	clauses := []string{"is_active = TRUE"}
	args := make([]any, 0, 5)
	add := func(format string, v any) {
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf(format, len(args)))
	}

	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Badge != "" {
		add("badge = $%d", f.Badge)
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if f.PriceMin != nil {
		add("price >= $%d", *f.PriceMin)
	}
	if f.PriceMax != nil {
		add("price <= $%d", *f.PriceMax)
	}
	return strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := insertProduct(ctx, r.db, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertProduct(ctx context.Context, db execer, p Product) error {
	_, err := db.ExecContext(ctx, insertProductQuery,
		p.ID, p.Name, p.Description, p.Price, nullFloat(p.OriginalPrice), p.Category, p.Badge, p.Image,
		p.Stock, p.Sold, p.Rating, p.NumReviews, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, p Product) (Product, error) {
	res, err := r.db.ExecContext(ctx, updateProductQuery,
		p.ID, p.Name, p.Description, p.Price, nullFloat(p.OriginalPrice), p.Category, p.Badge, p.Image,
		p.Stock, p.Sold, p.Rating, p.NumReviews, p.IsActive, p.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset deletes all products and inserts the provided list in a single transaction.
func (r *PostgresRepository) Reset(ctx context.Context, products []Product) ([]Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, deleteAllProductQuery); err != nil {
		return nil, fmt.Errorf("clear products: %w", err)
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if err := insertProduct(ctx, tx, p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProduct(scanner rowScanner) (Product, error) {
	var (
		p        Product
		original sql.NullFloat64
	)
	err := scanner.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &original, &p.Category, &p.Badge, &p.Image,
		&p.Stock, &p.Sold, &p.Rating, &p.NumReviews, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, err
		}
		return Product{}, fmt.Errorf("scan product: %w", err)
	}
	if original.Valid {
		v := original.Float64
		p.OriginalPrice = &v
	}
	return p, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
