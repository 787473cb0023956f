package mediaid

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IsValidAndParseable(t *testing.T) {
	id := New()

	assert.True(t, IsValid(id))
	assert.Len(t, id, len(Prefix)+26)

	created, err := Time(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), created, 5*time.Second)
}

func TestNew_Monotonic(t *testing.T) {
	ids := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		ids = append(ids, New())
	}
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"missing prefix", "01hzzzzzzzzzzzzzzzzzzzzzzz", false},
		{"wrong prefix", "jan_01hx2b3c4d5e6f7g8h9j0kmnpq", false},
		{"garbage", "rpl_not-a-ulid", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.value))
		})
	}
}
