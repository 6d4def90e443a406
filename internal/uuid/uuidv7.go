// Package uuid generates and checks the string identifiers used as primary
// keys.
package uuid

import (
	"time"

	googleuuid "github.com/google/uuid"
)

// New returns a time-ordered UUIDv7 string, so rows sort by creation time
// when ordered by primary key. A random UUIDv4 is returned if the v7
// generator fails.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates s and returns it in canonical lowercase form.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}

// CreatedAt extracts the millisecond timestamp embedded in a UUIDv7.
// ok is false for other versions.
func CreatedAt(s string) (t time.Time, ok bool) {
	parsed, err := googleuuid.Parse(s)
	if err != nil || parsed.Version() != 7 {
		return time.Time{}, false
	}
	sec, nsec := parsed.Time().UnixTime()
	return time.Unix(sec, nsec).UTC(), true
}
