// Package ident generates entity and activity identifiers.
package ident

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New returns an id of the form "{prefix}-{epochMillis}-{suffix}". The
// millisecond component keeps ids roughly creation-ordered for human
// debugging; the suffix is drawn from a v4 UUID for uniqueness.
func New(prefix string) string {
	return NewAt(prefix, time.Now())
}

// NewAt is New with an explicit timestamp.
func NewAt(prefix string, t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s-%d-%s", prefix, t.UnixMilli(), suffix)
}

// ForActivity returns the id of an activity appended to a task at t,
// "{taskID}-{epochMillis}".
func ForActivity(taskID string, t time.Time) string {
	return fmt.Sprintf("%s-%d", taskID, t.UnixMilli())
}
