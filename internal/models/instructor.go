package models

import (
	"time"

	"github.com/google/uuid"
)

type Instructor struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Title     *string   `json:"title"`
	Bio       *string   `json:"bio"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}
