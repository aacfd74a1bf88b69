package domain

import "time"

type Manufacturer struct {
	ID        int64     `json:"id"`
	Make      string    `json:"make"`
	MakeImage string    `json:"make_image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
