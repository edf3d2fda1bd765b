package auth

// Principal is the minimal capability set the session layer needs from an
// authenticated entity: a stable identifier and an active predicate.
type Principal interface {
	PrincipalID() int
	IsActive() bool
}
