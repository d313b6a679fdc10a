package repository

import (
	"context"
	"database/sql"

	"github.com/rbarbosa/glowroutine/internal/model"
)

// ProductRepo provides access to the products table.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

// Create inserts a product and returns its ID.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) (uint64, error) {
	actives, err := marshalList(p.KeyActives)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (user_id, name, brand, category, key_actives, notes, suitability, price) VALUES (?,?,?,?,?,?,?,?)",
		p.UserID, p.Name, p.Brand, p.Category, actives, p.Notes, p.Suitability, p.Price)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	p.ID = uint64(id)
	return p.ID, nil
}

// GetByID fetches a product by id, scoped to its owner.
func (r *ProductRepo) GetByID(ctx context.Context, userID, id uint64) (*model.Product, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,name,brand,category,key_actives,notes,suitability,price,created_at FROM products WHERE id=? AND user_id=? LIMIT 1",
		id, userID)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

// ListByUser returns the user's products, newest first.
func (r *ProductRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,name,brand,category,key_actives,notes,suitability,price,created_at FROM products WHERE user_id=? ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows for row decoding.
type scanner interface{ Scan(dest ...any) error }

func scanProduct(s scanner) (*model.Product, error) {
	var (
		p       model.Product
		brand   sql.NullString
		actives string
		notes   sql.NullString
		suit    sql.NullString
		price   sql.NullFloat64
	)
	if err := s.Scan(&p.ID, &p.UserID, &p.Name, &brand, &p.Category, &actives,
		&notes, &suit, &price, &p.CreatedAt); err != nil {
		return nil, err
	}
	if brand.Valid {
		b := brand.String
		p.Brand = &b
	}
	if notes.Valid {
		n := notes.String
		p.Notes = &n
	}
	if suit.Valid {
		sv := model.Suitability(suit.String)
		p.Suitability = &sv
	}
	if price.Valid {
		v := price.Float64
		p.Price = &v
	}
	var err error
	if p.KeyActives, err = unmarshalList(actives); err != nil {
		return nil, err
	}
	return &p, nil
}
