package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// workspaceCookieName carries the signed token naming the caller's workspace
	workspaceCookieName = "booking_client"
	clientTokenIssuer   = "go-travel-booking"
	clientTokenTTL      = 7 * 24 * time.Hour
)

// clientTokens issues and verifies the HS256 tokens binding a browser to a
// workspace.
type clientTokens struct {
	secret  []byte
	nowTime func() time.Time
}

func newClientTokens(secret string, nowTime func() time.Time) *clientTokens {
	return &clientTokens{secret: []byte(secret), nowTime: nowTime}
}

// Issue signs a token for workspaceID.
func (c *clientTokens) Issue(workspaceID string) (string, error) {
	now := c.nowTime()
	claims := jwtlib.RegisteredClaims{
		Issuer:    clientTokenIssuer,
		Subject:   workspaceID,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(clientTokenTTL)),
		ID:        uuid.New().String(),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign client token: %w", err)
	}
	return signed, nil
}

// Verify returns the workspace id of a valid token.
func (c *clientTokens) Verify(raw string) (string, error) {
	claims := &jwtlib.RegisteredClaims{}
	token, err := jwtlib.ParseWithClaims(raw, claims,
		func(*jwtlib.Token) (interface{}, error) { return c.secret, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(clientTokenIssuer),
		jwtlib.WithTimeFunc(c.nowTime),
	)
	if err != nil {
		return "", fmt.Errorf("invalid client token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid client token")
	}
	if claims.Subject == "" {
		return "", errors.New("client token has no workspace")
	}
	return claims.Subject, nil
}

func (s *Server) setClientCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     workspaceCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(clientTokenTTL / time.Second),
	})
}
