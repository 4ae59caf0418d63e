package models

// Item represents a stored item
type Item struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ItemForm represents the request payload for creating items
type ItemForm struct {
	Name string `json:"name"`
}

// Validate validates the item form data
func (f *ItemForm) Validate() []string {
	var errors []string

	if f.Name == "" {
		errors = append(errors, "Name is required")
	}

	if len(f.Name) > 255 {
		errors = append(errors, "Name must be less than 255 characters")
	}

	return errors
}
