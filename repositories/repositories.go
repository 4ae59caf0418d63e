package repositories

import (
	"database/sql"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Item  ItemRepository
	User  UserRepository
	Audit AuditRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Item:  NewItemRepository(db),
		User:  NewUserRepository(db),
		Audit: NewAuditRepository(db),
	}
}
