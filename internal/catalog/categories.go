package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/su413/storefront-golang/internal/models"
)

// CategoryFilters narrows a category listing.
type CategoryFilters struct {
	Search     string
	ActiveOnly bool
	Page       int
	PerPage    int
}

// ListCategories returns one page of categories with their product
// counts, plus the total match count.
func (s *Store) ListCategories(f CategoryFilters) ([]models.Category, int, error) {
	where := "1=1"
	var args []interface{}

	if f.Search != "" {
		where += " AND (c.name LIKE ? OR c.description LIKE ?)"
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}
	if f.ActiveOnly {
		where += " AND c.is_active = TRUE"
	}

	var total int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM categories c WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting categories: %w", err)
	}

	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	query := `
		SELECT c.id, c.name, c.slug, c.description, c.is_active, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id)
		FROM categories c
		WHERE ` + where + `
		ORDER BY c.name ASC
		LIMIT ? OFFSET ?`

	rows, err := s.DB.Query(query, append(args, perPage, (page-1)*perPage)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.IsActive,
			&c.CreatedAt, &c.UpdatedAt, &c.ProductCount); err != nil {
			return nil, 0, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, total, rows.Err()
}

// GetCategory fetches a single category by id.
func (s *Store) GetCategory(id int64) (*models.Category, error) {
	var c models.Category
	err := s.DB.QueryRow(`
		SELECT c.id, c.name, c.slug, c.description, c.is_active, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id)
		FROM categories c WHERE c.id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.ProductCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a category. Names are unique, so the derived
// slug colliding means the name is already taken.
func (s *Store) CreateCategory(name string, description *string, isActive bool) (*models.Category, error) {
	categorySlug := slug.Make(name)

	var exists bool
	err := s.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM categories WHERE slug = ? OR name = ?)", categorySlug, name).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	now := time.Now()
	res, err := s.DB.Exec(`
		INSERT INTO categories (name, slug, description, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		name, categorySlug, description, isActive, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetCategory(id)
}

// UpdateCategory rewrites a category's fields, regenerating the slug
// when the name changed.
func (s *Store) UpdateCategory(id int64, name string, description *string, isActive bool) (*models.Category, error) {
	current, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	categorySlug := current.Slug
	if name != current.Name {
		categorySlug = slug.Make(name)
		var exists bool
		err := s.DB.QueryRow(
			"SELECT EXISTS(SELECT 1 FROM categories WHERE (slug = ? OR name = ?) AND id != ?)",
			categorySlug, name, id,
		).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateName
		}
	}

	_, err = s.DB.Exec(`
		UPDATE categories SET name = ?, slug = ?, description = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		name, categorySlug, description, isActive, time.Now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}
	return s.GetCategory(id)
}

// DeleteCategory removes a category. Deleting one that still has
// products is rejected.
func (s *Store) DeleteCategory(id int64) error {
	var productCount int
	err := s.DB.QueryRow("SELECT COUNT(*) FROM products WHERE category_id = ?", id).Scan(&productCount)
	if err != nil {
		return err
	}
	if productCount > 0 {
		return ErrCategoryHasProducts
	}

	res, err := s.DB.Exec("DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
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

// ToggleCategoryActive flips is_active and returns the new value.
func (s *Store) ToggleCategoryActive(id int64) (bool, error) {
	res, err := s.DB.Exec("UPDATE categories SET is_active = NOT is_active, updated_at = ? WHERE id = ?", time.Now(), id)
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
	err = s.DB.QueryRow("SELECT is_active FROM categories WHERE id = ?", id).Scan(&value)
	return value, err
}
