package auth

import "time"

// Role names the side of a commission an actor acts on.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProducer Role = "producer"
)

// Claims is the actor identity asserted by a verified token.
type Claims struct {
	ActorID int64
	Role    Role
}

// Options tunes token issuing.
type Options struct {
	TTL time.Duration
}

// TokenStrategy verifies bearer tokens issued by the identity collaborator
// and, for tests and tooling, issues them with the shared secret.
type TokenStrategy interface {
	IssueToken(actorID int64, role Role) (string, error)
	ParseToken(token string) (*Claims, error)
	Name() string
}
