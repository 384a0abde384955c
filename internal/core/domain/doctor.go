package domain

import "time"

type Doctor struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Specialty string    `json:"specialty"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}
