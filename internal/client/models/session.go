package models

// AuthSession is the identity obtained from a successful login. It is passed
// explicitly into every authenticated call rather than read from ambient
// state, so the sync core stays testable without a UI layer.
type AuthSession struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
	ServerURL string `json:"server_url"`
}

// Valid reports whether the session can authenticate a request.
// A blank token must never reach the transport: a naive server could accept
// it as an anonymous/default user and corrupt another account's data.
func (s *AuthSession) Valid() bool {
	return s != nil && s.Token != ""
}
