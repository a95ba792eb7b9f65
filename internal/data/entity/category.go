package entity

import "github.com/google/uuid"

type Category struct {
	Base
	Name        string     `db:"name"`
	Slug        string     `db:"slug"`
	Description string     `db:"description"`
	ParentID    *uuid.UUID `db:"parent_id"`
	IsActive    bool       `db:"is_active"`
}
