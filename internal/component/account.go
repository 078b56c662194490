package component

// Account is the authenticated identity a session is bound to.
type Account struct {
	PlayerID int64
	Name     string
}
