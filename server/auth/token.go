package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	// Issuer is the issuer of the jwt token.
	Issuer = "studybuddy"
	// KeyID is the key id of the jwt token, rotated together with the signing secret.
	KeyID = "v1"
	// AccessTokenAudienceName is the audience name of the access token.
	AccessTokenAudienceName = "user.access-token"
	// AccessTokenDuration is how long an access token stays valid.
	AccessTokenDuration = 7 * 24 * time.Hour
)

// ClaimsMessage is the JWT payload. The subject carries the user id.
type ClaimsMessage struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// UserClaims is the verified identity extracted from an access token.
type UserClaims struct {
	UserID   int32
	Username string
	Role     string
}

// GenerateAccessToken signs an HS256 access token for the user.
func GenerateAccessToken(userID int32, username, role string, expirationTime time.Time, secret []byte) (string, error) {
	registeredClaims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Audience:  jwt.ClaimStrings{AccessTokenAudienceName},
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Subject:   strconv.Itoa(int(userID)),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &ClaimsMessage{
		Username:         username,
		Role:             role,
		RegisteredClaims: registeredClaims,
	})
	token.Header["kid"] = KeyID

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}
	return signed, nil
}

// ParseAccessToken verifies signature, issuer, audience and expiry.
func ParseAccessToken(tokenString string, secret []byte) (*UserClaims, error) {
	claims := &ClaimsMessage{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if kid, ok := t.Header["kid"].(string); !ok || kid != KeyID {
			return nil, fmt.Errorf("unexpected kid: %v", t.Header["kid"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(AccessTokenAudienceName),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "invalid access token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 32)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed subject %q", claims.Subject)
	}
	return &UserClaims{
		UserID:   int32(userID),
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
