package catalog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/su413/storefront-golang/internal/models"
)

// Store gives read/write access to products and categories.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Stock-status buckets accepted by ProductFilters.Status.
const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

// ProductFilters narrows a product listing. Zero values mean "no filter".
type ProductFilters struct {
	Search     string // free text over name, SKU, description
	CategoryID int64
	Status     string // one of the stock-status buckets
	ActiveOnly bool   // storefront listings hide inactive products
	Featured   bool
	Page       int
	PerPage    int
}

const productColumns = `p.id, p.name, p.slug, p.description, p.price, p.compare_price, p.cost_price,
		p.sku, p.stock_quantity, p.low_stock_threshold, p.image_url, p.weight, p.dimensions,
		p.category_id, p.is_active, p.is_featured, p.created_at, p.updated_at, c.name`

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.ComparePrice, &p.CostPrice,
		&p.SKU, &p.StockQuantity, &p.LowStockThreshold, &p.ImageURL, &p.Weight, &p.Dimensions,
		&p.CategoryID, &p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt, &p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns one page of products matching the filters plus
// the total match count for pagination.
func (s *Store) ListProducts(f ProductFilters) ([]models.Product, int, error) {
	where := []string{"1=1"}
	var args []interface{}

	if f.Search != "" {
		where = append(where, "(p.name LIKE ? OR p.sku LIKE ? OR p.description LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if f.CategoryID != 0 {
		where = append(where, "p.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.ActiveOnly {
		where = append(where, "p.is_active = TRUE")
	}
	if f.Featured {
		where = append(where, "p.is_featured = TRUE")
	}
	switch f.Status {
	case StatusActive:
		where = append(where, "p.is_active = TRUE")
	case StatusInactive:
		where = append(where, "p.is_active = FALSE")
	case StatusLowStock:
		where = append(where, "p.stock_quantity > 0 AND p.stock_quantity <= p.low_stock_threshold")
	case StatusOutOfStock:
		where = append(where, "p.stock_quantity = 0")
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM products p WHERE " + whereClause
	if err := s.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT ? OFFSET ?`, productColumns, whereClause)

	rows, err := s.DB.Query(query, append(args, perPage, (page-1)*perPage)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

// GetProduct fetches a single product by id.
func (s *Store) GetProduct(id int64) (*models.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = ?`, productColumns)

	p, err := scanProduct(s.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetProductBySlug fetches a single product by its URL slug.
func (s *Store) GetProductBySlug(productSlug string) (*models.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.slug = ?`, productColumns)

	p, err := scanProduct(s.DB.QueryRow(query, productSlug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ProductInput carries the mutable fields for create/update.
type ProductInput struct {
	Name              string
	Description       *string
	Price             float64
	ComparePrice      *float64
	CostPrice         *float64
	SKU               *string
	StockQuantity     int
	LowStockThreshold int
	ImageURL          *string
	Weight            *float64
	Dimensions        *string
	CategoryID        *int64
	IsActive          bool
	IsFeatured        bool
}

// CreateProduct inserts a product with a unique slug derived from its
// name and returns the stored record.
func (s *Store) CreateProduct(in ProductInput) (*models.Product, error) {
	if in.SKU != nil {
		taken, err := s.skuTaken(*in.SKU, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateSKU
		}
	}

	productSlug, err := s.uniqueProductSlug(in.Name, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	query := `
		INSERT INTO products
			(name, slug, description, price, compare_price, cost_price, sku,
			 stock_quantity, low_stock_threshold, image_url, weight, dimensions,
			 category_id, is_active, is_featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.DB.Exec(query,
		in.Name, productSlug, in.Description, in.Price, in.ComparePrice, in.CostPrice, in.SKU,
		in.StockQuantity, in.LowStockThreshold, in.ImageURL, in.Weight, in.Dimensions,
		in.CategoryID, in.IsActive, in.IsFeatured, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetProduct(id)
}

// UpdateProduct rewrites a product's mutable fields. The slug is
// regenerated only when the name changed.
func (s *Store) UpdateProduct(id int64, in ProductInput) (*models.Product, error) {
	current, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if in.SKU != nil {
		taken, err := s.skuTaken(*in.SKU, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateSKU
		}
	}

	productSlug := current.Slug
	if in.Name != current.Name {
		productSlug, err = s.uniqueProductSlug(in.Name, id)
		if err != nil {
			return nil, err
		}
	}

	query := `
		UPDATE products SET
			name = ?, slug = ?, description = ?, price = ?, compare_price = ?, cost_price = ?,
			sku = ?, stock_quantity = ?, low_stock_threshold = ?, image_url = ?, weight = ?,
			dimensions = ?, category_id = ?, is_active = ?, is_featured = ?, updated_at = ?
		WHERE id = ?`
	_, err = s.DB.Exec(query,
		in.Name, productSlug, in.Description, in.Price, in.ComparePrice, in.CostPrice,
		in.SKU, in.StockQuantity, in.LowStockThreshold, in.ImageURL, in.Weight,
		in.Dimensions, in.CategoryID, in.IsActive, in.IsFeatured, time.Now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}
	return s.GetProduct(id)
}

// DeleteProduct removes a product. Historical order items keep their
// snapshot fields; their product_id is set NULL by the FK.
func (s *Store) DeleteProduct(id int64) error {
	res, err := s.DB.Exec("DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleProductActive flips is_active and returns the new value.
func (s *Store) ToggleProductActive(id int64) (bool, error) {
	return s.toggleProductFlag(id, "is_active")
}

// ToggleProductFeatured flips is_featured and returns the new value.
func (s *Store) ToggleProductFeatured(id int64) (bool, error) {
	return s.toggleProductFlag(id, "is_featured")
}

func (s *Store) toggleProductFlag(id int64, column string) (bool, error) {
	// column is one of two constants above, never user input.
	query := fmt.Sprintf("UPDATE products SET %s = NOT %s, updated_at = ? WHERE id = ?", column, column)
	res, err := s.DB.Exec(query, time.Now(), id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, ErrNotFound
	}

	var value bool
	err = s.DB.QueryRow(fmt.Sprintf("SELECT %s FROM products WHERE id = ?", column), id).Scan(&value)
	return value, err
}

// uniqueProductSlug slugifies the name and appends -2, -3, ... until no
// other product holds the slug. excludeID skips the product itself on
// rename.
func (s *Store) uniqueProductSlug(name string, excludeID int64) (string, error) {
	base := slug.Make(name)
	candidate := base
	for counter := 2; ; counter++ {
		var exists bool
		err := s.DB.QueryRow(
			"SELECT EXISTS(SELECT 1 FROM products WHERE slug = ? AND id != ?)",
			candidate, excludeID,
		).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("checking slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

func (s *Store) skuTaken(sku string, excludeID int64) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM products WHERE sku = ? AND id != ?)",
		sku, excludeID,
	).Scan(&exists)
	return exists, err
}
