// Package deployid names one deployment attempt.
package deployid

import (
	"strconv"
	"time"
)

// Prefix is prepended to every deployment id.
const Prefix = "autonate"

// ID tags every artifact built by one run. It is a valid image tag.
type ID string

func (id ID) String() string { return string(id) }

// New derives an id from t at millisecond precision.
func New(t time.Time) ID {
	return ID(Prefix + "-" + strconv.FormatInt(t.UnixMilli(), 10))
}
