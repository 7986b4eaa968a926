package gotrue

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenExpiry reads the exp claim of a backend access token without
// verifying its signature. The backend validates the token on every call; the
// value is only used to decide when to refresh. Returns 0 when unreadable.
func AccessTokenExpiry(accessToken string) int64 {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return exp.Unix()
}
