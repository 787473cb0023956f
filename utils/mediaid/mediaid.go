package mediaid

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefix marks replacement ledger identifiers.
const Prefix = "rpl_"

var (
	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
)

func next(now time.Time) ulid.ULID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	if entropy == nil {
		entropy = ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	}
	return ulid.MustNew(ulid.Timestamp(now), entropy)
}

// New returns an rpl_* ULID string. IDs sort by creation time.
func New() string {
	return Prefix + strings.ToLower(next(time.Now()).String())
}

// IsValid reports whether the string is an rpl_* ULID.
func IsValid(value string) bool {
	if !strings.HasPrefix(value, Prefix) {
		return false
	}
	_, err := Parse(value)
	return err == nil
}

// Parse strips the rpl_ prefix and returns the ULID.
func Parse(value string) (ulid.ULID, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, Prefix)
	return ulid.ParseStrict(strings.ToUpper(value))
}

// Time returns the creation time encoded in the identifier.
func Time(value string) (time.Time, error) {
	id, err := Parse(value)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(id.Time()), nil
}
