package cache

import "time"

// Entry is an immutable cache payload. Entries are never mutated in place;
// a "set" on an existing fingerprint replaces the entry wholesale.
type Entry struct {
	Payload     []byte
	InsertedAt  time.Time
	TTLSeconds  int
	ContentType ContentType
}

func (e Entry) expiresAt() time.Time {
	return e.InsertedAt.Add(time.Duration(e.TTLSeconds) * time.Second)
}

func (e Entry) expired(now time.Time) bool {
	return now.After(e.expiresAt())
}
