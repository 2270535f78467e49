//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"
	"time"

	"slotbooker/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterCursor_RoundTrip(t *testing.T) {
	id := uuid.New()
	createdAt := time.Date(2026, 3, 2, 10, 30, 0, 123456789, time.UTC)

	cursor := queries.EncodeAfterCursor(createdAt, id)

	gotTime, gotID, err := queries.DecodeAfterCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	// Encoding truncates to microseconds to match timestamptz precision.
	assert.True(t, gotTime.Equal(createdAt.Truncate(time.Microsecond)))
}

func TestDecodeAfterCursor_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{name: "empty", cursor: ""},
		{name: "not base64", cursor: "%%%"},
		{
			name:   "wrong version",
			cursor: base64.URLEncoding.EncodeToString([]byte("v2:123-" + uuid.NewString())),
		},
		{
			name:   "missing uuid part",
			cursor: base64.URLEncoding.EncodeToString([]byte("v1:123456")),
		},
		{
			name:   "bad timestamp",
			cursor: base64.URLEncoding.EncodeToString([]byte("v1:abc-" + uuid.NewString())),
		},
		{
			name:   "bad uuid",
			cursor: base64.URLEncoding.EncodeToString([]byte("v1:123-not-a-uuid")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := queries.DecodeAfterCursor(tt.cursor)
			assert.Error(t, err)
		})
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, queries.ValidateLimit(0))
	assert.Equal(t, 20, queries.ValidateLimit(-5))
	assert.Equal(t, 50, queries.ValidateLimit(50))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(10_000))
}
