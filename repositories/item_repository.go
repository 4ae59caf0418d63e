package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"item-audit-api/models"
)

// ItemRepository interface defines item database operations
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	GetAll(ctx context.Context) ([]models.Item, error)
}

// itemRepository implements ItemRepository interface
type itemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *sql.DB) ItemRepository {
	return &itemRepository{db: db}
}

// Create inserts a new item and sets its generated ID
func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (name) VALUES (?)`

	result, err := r.db.ExecContext(ctx, query, item.Name)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	item.ID = id
	return nil
}

// GetByID retrieves an item by ID
func (r *itemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT id, name FROM items WHERE id = ?`

	var item models.Item
	err := r.db.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.Name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item with ID %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return &item, nil
}

// GetAll retrieves all items
func (r *itemRepository) GetAll(ctx context.Context) ([]models.Item, error) {
	query := `SELECT id, name FROM items ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}
