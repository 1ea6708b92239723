package domain

import "crypto/subtle"

// Credentials gate the admin editor. They are stored in plaintext.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Matches reports whether the supplied pair equals the stored one.
func (c *Credentials) Matches(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	return userOK && passOK
}
