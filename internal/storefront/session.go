package storefront

import "context"

const (
	tokenKey = "authToken"
	userKey  = "currentUser"
)

// Account is the signed-in user as returned by register and login.
type Account struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type Session struct {
	storage Storage
}

func NewSession(s Storage) *Session {
	return &Session{storage: s}
}

// Token returns the stored bearer token, or "" when signed out.
func (s *Session) Token(ctx context.Context) (string, error) {
	var token string
	if _, err := getJSON(ctx, s.storage, tokenKey, &token); err != nil {
		return "", err
	}
	return token, nil
}

// CurrentUser returns nil when nobody is signed in.
func (s *Session) CurrentUser(ctx context.Context) (*Account, error) {
	var a Account
	ok, err := getJSON(ctx, s.storage, userKey, &a)
	if err != nil || !ok {
		return nil, err
	}
	return &a, nil
}

// SignIn stores the account and its token.
func (s *Session) SignIn(ctx context.Context, a Account) error {
	if err := setJSON(ctx, s.storage, tokenKey, a.Token); err != nil {
		return err
	}
	return setJSON(ctx, s.storage, userKey, a)
}

func (s *Session) SignOut(ctx context.Context) error {
	if err := s.storage.Delete(ctx, tokenKey); err != nil {
		return err
	}
	return s.storage.Delete(ctx, userKey)
}
