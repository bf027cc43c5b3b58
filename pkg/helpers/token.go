package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// KeyResetToken is the Redis key mapping a password reset token to a user id.
func KeyResetToken(token string) string {
	return "pwd:reset:token:" + token
}

// KeySession is the Redis hash holding the active session of a user.
func KeySession(userID string) string {
	return "user:session:" + userID
}

// KeyCarViews counts how many times a car listing was opened.
func KeyCarViews(carID string) string {
	return "car:views:" + carID
}

// GenToken returns n random bytes encoded as URL-safe base64.
func GenToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
