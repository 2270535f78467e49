package platform

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("platform name cannot be empty")
	ErrInvalidType     = errors.New("invalid platform type")
	ErrInvalidCurrency = errors.New("currency not allowed")
	ErrInvalidTimezone = errors.New("timezone not allowed")
)

// Type is the sales channel a platform sells through.
type Type string

const (
	TypeTelegram Type = "telegram"
	TypeYouTube  Type = "youtube"
	TypeFacebook Type = "facebook"
	TypeWebsite  Type = "website"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeTelegram, TypeYouTube, TypeFacebook, TypeWebsite:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	return string(t)
}

// Platform is a sales channel with its own currency and timezone.
// It owns price lists; deleting a platform cascades to them.
type Platform struct {
	id          uuid.UUID
	name        string
	platformTyp Type
	description *string
	currency    string
	timezone    string
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

// AllowedLists carries the configured currency/timezone choices passed in
// from configuration instead of being read from ambient settings.
type AllowedLists struct {
	Currencies []string
	Timezones  []string
}

func (a AllowedLists) currencyAllowed(currency string) bool {
	for _, c := range a.Currencies {
		if c == currency {
			return true
		}
	}
	return false
}

func (a AllowedLists) timezoneAllowed(tz string) bool {
	for _, z := range a.Timezones {
		if z == tz {
			return true
		}
	}
	return false
}

func NewPlatform(name string, typ Type, currency, timezone string, allowed AllowedLists) (*Platform, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if !typ.IsValid() {
		return nil, ErrInvalidType
	}
	if !allowed.currencyAllowed(currency) {
		return nil, ErrInvalidCurrency
	}
	if !allowed.timezoneAllowed(timezone) {
		return nil, ErrInvalidTimezone
	}
	return &Platform{
		id:          uuid.New(),
		name:        name,
		platformTyp: typ,
		currency:    currency,
		timezone:    timezone,
		isActive:    true,
	}, nil
}

func ReconstructPlatform(
	id uuid.UUID,
	name string,
	typ Type,
	description *string,
	currency, timezone string,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Platform {
	return &Platform{
		id:          id,
		name:        name,
		platformTyp: typ,
		description: description,
		currency:    currency,
		timezone:    timezone,
		isActive:    isActive,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (p *Platform) ID() uuid.UUID        { return p.id }
func (p *Platform) Name() string         { return p.name }
func (p *Platform) Type() Type           { return p.platformTyp }
func (p *Platform) Description() *string { return p.description }
func (p *Platform) Currency() string     { return p.currency }
func (p *Platform) Timezone() string     { return p.timezone }
func (p *Platform) IsActive() bool       { return p.isActive }
func (p *Platform) CreatedAt() time.Time { return p.createdAt }
func (p *Platform) UpdatedAt() time.Time { return p.updatedAt }
