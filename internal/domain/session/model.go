package session

// Session holds the client-side record of authentication state: the opaque
// token issued by the server and the username it belongs to. Both are empty
// for an anonymous visitor.
type Session struct {
	Token    string
	Username string
}

// Anonymous returns the unauthenticated session.
func Anonymous() Session {
	return Session{}
}

// IsAuthenticated returns true if a token is held. The token may still have
// expired server-side; a status check reconciles that.
// INVARIANT: Session fields are not mutated
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}
