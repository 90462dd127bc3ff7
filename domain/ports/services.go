package ports

import "time"

// IDGenerator supplies collision-resistant identifiers for new records.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current instant. Injected so that time-dependent rules
// (creation stamps, future-dated claim rejection) are testable.
type Clock interface {
	Now() time.Time
}
