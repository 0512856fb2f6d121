package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/wichananm65/elite-shop-backend/internal/apperr"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	tokenContextKey    = "user"
	identityContextKey = "identity"

	MsgLoginRequired = "Vui lòng đăng nhập để tiếp tục"
	MsgInvalidToken  = "Token không hợp lệ hoặc đã hết hạn"
	MsgUserMissing   = "Không tìm thấy người dùng"
	MsgAdminOnly     = "Chỉ admin mới có quyền truy cập"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	ID   string
	Role string
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Resolver loads the identity behind a token subject. It returns an
// apperr NotFound error when the user no longer exists.
type Resolver interface {
	Identity(ctx context.Context, userID string) (Identity, error)
}

type Guard struct {
	issuer   *Issuer
	resolver Resolver
}

func NewGuard(issuer *Issuer, resolver Resolver) *Guard {
	return &Guard{issuer: issuer, resolver: resolver}
}

// Protect requires a valid bearer token whose subject still exists.
func (g *Guard) Protect() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     g.issuer.Secret(),
		SigningMethod:  "HS256",
		ContextKey:     tokenContextKey,
		SuccessHandler: g.resolve,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if err.Error() == "Missing or malformed JWT" {
				return apperr.Unauthorized(MsgLoginRequired)
			}
			return apperr.Unauthorized(MsgInvalidToken)
		},
	})
}

func (g *Guard) resolve(c *fiber.Ctx) error {
	token, ok := c.Locals(tokenContextKey).(*jwt.Token)
	if !ok {
		return apperr.Unauthorized(MsgInvalidToken)
	}
	userID, err := UserIDFromToken(token)
	if err != nil {
		return apperr.Unauthorized(MsgInvalidToken)
	}

	id, err := g.resolver.Identity(c.UserContext(), userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.Unauthorized(MsgUserMissing)
		}
		return err
	}
	SetIdentity(c, id)
	return c.Next()
}

// AdminOnly must run after Protect.
func (g *Guard) AdminOnly() fiber.Handler {
	return RequireAdmin
}

func RequireAdmin(c *fiber.Ctx) error {
	id, ok := CurrentIdentity(c)
	if !ok {
		return apperr.Unauthorized(MsgLoginRequired)
	}
	if !id.IsAdmin() {
		return apperr.Forbidden(MsgAdminOnly)
	}
	return c.Next()
}

func SetIdentity(c *fiber.Ctx, id Identity) {
	c.Locals(identityContextKey, id)
}

func CurrentIdentity(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(identityContextKey).(Identity)
	return id, ok && id.ID != ""
}
