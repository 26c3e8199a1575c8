package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielaviles128-glitch/avarjoyas-api/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProductNotFound = errors.New("product not found")

var _ Api = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalogRepo.list")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, nombre, precio, categoria, stock, imagen, nueva_coleccion, created_at
			FROM producto
			ORDER BY id;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.rows2products(rows)
}

func (r *Repo) Get(ctx context.Context, id int) (*Product, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, nombre, precio, categoria, stock, imagen, nueva_coleccion, created_at
			FROM producto
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrProductNotFound
	}

	var product Product
	if err := rows.Scan(
		&product.ID, &product.Name, &product.Price, &product.Category,
		&product.Stock, &product.ImageURL, &product.NewCollection, &product.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return &product, nil
}

func (r *Repo) Add(ctx context.Context, product Product) (*Product, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalogRepo.add")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`
			INSERT INTO producto (nombre, precio, categoria, stock, imagen, nueva_coleccion)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at;`,
		product.Name, product.Price, product.Category,
		product.Stock, product.ImageURL, product.NewCollection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	if err := rows.Scan(&product.ID, &product.CreatedAt); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return &product, nil
}

func (r *Repo) Update(ctx context.Context, product Product) (*Product, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalogRepo.update")
	defer span.End()

	tag, err := r.db.Exec(
		ctx,
		`
			UPDATE producto
			SET nombre = $1, precio = $2, categoria = $3, stock = $4, imagen = $5, nueva_coleccion = $6
			WHERE id = $7;`,
		product.Name, product.Price, product.Category,
		product.Stock, product.ImageURL, product.NewCollection,
		product.ID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrProductNotFound
	}

	return r.Get(ctx, product.ID)
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalogRepo.delete")
	defer span.End()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM producto WHERE id = $1;`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repo) rows2products(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		var product Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Price, &product.Category,
			&product.Stock, &product.ImageURL, &product.NewCollection, &product.CreatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}
