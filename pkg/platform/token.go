package platform

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// hasuraClaimsKey is the namespace Hasura reads its session variables from.
const hasuraClaimsKey = "https://hasura.io/jwt/claims"

const hasuraUserIDKey = "x-hasura-user-id"

// ErrMalformedToken is returned when a token is not a decodable JWT.
var ErrMalformedToken = errors.New("malformed token")

// Token is the opaque bearer token issued by the identity endpoint.
type Token string

// Claims are the token fields xpfang relies on. The signature is not checked;
// the gateway does that.
type Claims struct {
	UserID    int64
	ExpiresAt time.Time
}

// Expired reports whether the token has an expiry that is not after now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !c.ExpiresAt.After(now)
}

// Claims decodes the JWT payload without verifying it. The user id comes from
// the Hasura session claims, falling back to "sub".
func (t Token) Claims() (Claims, error) {
	mapClaims := jwt.MapClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(string(t), mapClaims)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	var claims Claims

	exp, err := mapClaims.GetExpirationTime()
	if err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	claims.UserID = hasuraUserID(mapClaims)

	if claims.UserID == 0 {
		sub, subErr := mapClaims.GetSubject()
		if subErr == nil {
			claims.UserID, _ = strconv.ParseInt(sub, 10, 64)
		}
	}

	return claims, nil
}

func hasuraUserID(mapClaims jwt.MapClaims) int64 {
	ns, ok := mapClaims[hasuraClaimsKey].(map[string]any)
	if !ok {
		return 0
	}

	switch v := ns[hasuraUserIDKey].(type) {
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}

		return id
	case float64:
		return int64(v)
	default:
		return 0
	}
}
