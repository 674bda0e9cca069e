package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"systems-console/internal/config"
	"systems-console/internal/domain"
	"systems-console/internal/domain/model"
)

// SessionCookieName carries the session token for browser clients.
const SessionCookieName = "console_session"

// ===== Session/JWT primitives =====

type AuthConfig struct {
	HMACSecret   []byte
	CookieName   string
	CookieDomain string
	SecureCookie bool
	TTL          time.Duration
}

type AuthManager struct{ cfg AuthConfig }

func NewAuthManager(cfg config.AuthConfig) *AuthManager {
	return &AuthManager{cfg: AuthConfig{
		HMACSecret:   []byte(cfg.Secret),
		CookieName:   SessionCookieName,
		CookieDomain: cfg.CookieDomain, // "" gives a host-only cookie
		SecureCookie: cfg.SecureCookie,
		TTL:          cfg.TTL,
	}}
}

// SessionClaims identify the console user a token was issued to.
type SessionClaims struct {
	UserID int64    `json:"uid"`
	OrgID  int64    `json:"oid"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Token signs a session token for u.
func (a *AuthManager) Token(u *model.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: u.ID,
		OrgID:  u.OrgID,
		Roles:  u.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TTL)),
			Subject:   u.Login,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.cfg.HMACSecret)
}

// Mint signs a session token for u and stores it in the session cookie.
func (a *AuthManager) Mint(w http.ResponseWriter, u *model.User) (string, error) {
	signed, err := a.Token(u)
	if err != nil {
		return "", err
	}

	c := &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    signed,
		Path:     "/",
		Domain:   a.cfg.CookieDomain,
		MaxAge:   int(a.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	}
	http.SetCookie(w, c)
	return signed, nil
}

func (a *AuthManager) Clear(w http.ResponseWriter) {
	c := &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   a.cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	}
	http.SetCookie(w, c)
}

func (a *AuthManager) ParseFromRequest(r *http.Request) (*SessionClaims, error) {
	// Authorization: Bearer <jwt>
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		if strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			return a.parse(strings.TrimSpace(hdr[7:]))
		}
	}
	// Cookie
	if c, err := r.Cookie(a.cfg.CookieName); err == nil {
		return a.parse(c.Value)
	}
	return nil, domain.ErrUnauthenticated
}

func (a *AuthManager) parse(tok string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.cfg.HMACSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}
	if claims.UserID <= 0 {
		return nil, errors.Join(domain.ErrUnauthenticated, errors.New("token carries no user"))
	}
	return claims, nil
}
