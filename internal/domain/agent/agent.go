package agent

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Agent is a delivery target for distributed leads, owned by exactly one user.
type Agent struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func New(ownerID uuid.UUID, name, email, phone, passwordHash string, status Status) Agent {
	if status == "" {
		status = StatusActive
	}
	return Agent{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}
}

func (a Agent) IsActive() bool {
	return a.Status == StatusActive
}

// Summary is the display projection joined into distribution reads.
type Summary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (a Agent) Summarize() Summary {
	return Summary{ID: a.ID, Name: a.Name, Email: a.Email}
}

// UpdateFields carries a partial update; nil fields are left untouched.
type UpdateFields struct {
	Name         *string
	Email        *string
	Phone        *string
	Status       *Status
	PasswordHash *string
}
