package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID for the current time. Browser session ids and audit
// record ids are ULIDs.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID whose timestamp part is t, so an audit record id sorts
// with the date its object key is filed under.
func NewAt(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}
