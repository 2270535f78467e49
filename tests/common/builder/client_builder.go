//go:build unit || e2e

package builder

import (
	"time"

	"github.com/google/uuid"

	"slotbooker/internal/domain/client"
)

type ClientBuilder struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         client.Role
	IsActive     bool
}

func NewClientBuilder() *ClientBuilder {
	return &ClientBuilder{
		ID:    uuid.New(),
		Name:  "Test Client",
		Email: "client@example.com",
		// bcrypt hash of "password123"
		PasswordHash: "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A.",
		Role:         client.RoleClient,
		IsActive:     true,
	}
}

func (b *ClientBuilder) With(mutate func(*ClientBuilder)) *ClientBuilder {
	mutate(b)
	return b
}

func (b *ClientBuilder) Build() (*client.Client, error) {
	email, err := client.NewEmail(b.Email)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return client.ReconstructClient(
		b.ID,
		b.Name,
		email,
		b.PasswordHash,
		b.Role,
		nil, nil,
		b.IsActive,
		now, now,
	), nil
}

func (b *ClientBuilder) MustBuild() *client.Client {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
