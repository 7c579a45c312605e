package auth

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleEmployee  Role = "employee"
	RoleModerator Role = "moderator"
)

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleModerator
}

// Operation enumerates every role-gated action in the service.
type Operation int

const (
	OpCreatePVZ Operation = iota
	OpListPVZ
	OpOpenReception
	OpCloseReception
	OpAddProduct
	OpDeleteProduct
)

// permissions is the single source of truth for role checks, instead of
// per-handler role comparisons.
var permissions = map[Operation][]Role{
	OpCreatePVZ:      {RoleModerator},
	OpListPVZ:        {RoleEmployee, RoleModerator},
	OpOpenReception:  {RoleEmployee},
	OpCloseReception: {RoleEmployee},
	OpAddProduct:     {RoleEmployee},
	OpDeleteProduct:  {RoleEmployee},
}

func Allowed(role Role, op Operation) bool {
	for _, r := range permissions[op] {
		if r == role {
			return true
		}
	}
	return false
}

// NewToken issues an opaque bearer token. Tokens are resolved through the
// storage token index; issuing a new one never invalidates older ones.
func NewToken() string {
	return uuid.NewString()
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
