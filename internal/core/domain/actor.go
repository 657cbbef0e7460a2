package domain

// Actor is the authenticated caller as established by the auth layer.
type Actor struct {
	UserID string
	Role   string
}

// SystemActorID is recorded as the author of writes not attributable to a user.
const SystemActorID = "system"
