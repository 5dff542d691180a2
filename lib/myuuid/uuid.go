package myuuid

import "github.com/google/uuid"

//go:generate mockgen -source=uuid.go -package myuuid -destination uuider_mock.go UUIDer
type UUIDer interface {
	Create() string
}

type RealUUIDer struct{}

func (u RealUUIDer) Create() string {
	return uuid.New().String()
}

// IsValid reports whether s is a canonical uuid, as handed out in session cookies.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
