package client

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is a customer account. Staff roles share the same table; the
// Django-era admin accounts map to RoleAdmin/RoleOperator.
type Client struct {
	id           uuid.UUID
	name         string
	email        Email
	passwordHash string
	role         Role
	phone        *string
	company      *string
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewClient(name string, email Email, passwordHash string, role Role) (*Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	return &Client{
		id:           uuid.New(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		isActive:     true,
	}, nil
}

func ReconstructClient(
	id uuid.UUID,
	name string,
	email Email,
	passwordHash string,
	role Role,
	phone, company *string,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Client {
	return &Client{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		phone:        phone,
		company:      company,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (c *Client) ID() uuid.UUID        { return c.id }
func (c *Client) Name() string         { return c.name }
func (c *Client) Email() Email         { return c.email }
func (c *Client) PasswordHash() string { return c.passwordHash }
func (c *Client) Role() Role           { return c.role }
func (c *Client) Phone() *string       { return c.phone }
func (c *Client) Company() *string     { return c.company }
func (c *Client) IsActive() bool       { return c.isActive }
func (c *Client) CreatedAt() time.Time { return c.createdAt }
func (c *Client) UpdatedAt() time.Time { return c.updatedAt }
