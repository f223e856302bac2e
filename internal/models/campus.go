package models

import (
	"time"

	"github.com/google/uuid"
)

type Campus struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	City      *string    `json:"city,omitempty"`
	Address   *string    `json:"address,omitempty"`
	Active    bool       `json:"active"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
