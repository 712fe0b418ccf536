package identity

import "strings"

// Person is the canonical identity record held by the external master
// registry. It is read-only from this system's point of view and is never
// persisted locally.
type Person struct {
	EmployeeNumber int
	NationalID     int64
	FirstName      string
	LastName       string
	Department     string
	Phone          string
}

// HasPhone reports whether a mobile number is on file
func (p Person) HasPhone() bool {
	return strings.TrimSpace(p.Phone) != ""
}

// FullName returns the display name for the person
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
