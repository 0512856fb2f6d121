package user

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wichananm65/elite-shop-backend/internal/apperr"
	"github.com/wichananm65/elite-shop-backend/internal/auth"
)

// makeAppWithUserHandler wires the handler behind a bootstrap middleware that
// trusts the X-User-ID header instead of a real bearer token.
func makeAppWithUserHandler(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler(zap.NewNop(), false)})
	protect := func(c *fiber.Ctx) error {
		v := utils.CopyString(c.Get("X-User-ID"))
		if v == "" {
			return apperr.Unauthorized(auth.MsgLoginRequired)
		}
		auth.SetIdentity(c, auth.Identity{ID: v, Role: auth.RoleUser})
		return c.Next()
	}
	h.RegisterRoutes(app.Group("/api"), protect)
	return app
}

func newHandlerUnderTest() (*Handler, *auth.Issuer) {
	svc := NewService(NewInMemoryRepository(nil), zap.NewNop(), WithHashCost(bcrypt.MinCost))
	issuer := auth.NewIssuer("test-secret", time.Hour)
	return NewHandler(svc, issuer), issuer
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s failed: %v", path, err)
	}
	return res.StatusCode, decodeBody(t, res.Body)
}

func decodeBody(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func TestRoutesRegistered(t *testing.T) {
	h, _ := newHandlerUnderTest()
	app := makeAppWithUserHandler(h)

	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Method+" "+r.Path] = true
		}
	}
	for _, want := range []string{"POST /api/auth/register", "POST /api/auth/login", "GET /api/auth/me"} {
		if !routes[want] {
			t.Fatalf("expected route %q to be registered", want)
		}
	}
}

func TestRegisterLoginMe(t *testing.T) {
	h, issuer := newHandlerUnderTest()
	app := makeAppWithUserHandler(h)

	status, body := postJSON(t, app, "/api/auth/register", `{"name":"Hoa","email":"Hoa@Example.com","password":"123456"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", status, body)
	}
	data := body["data"].(map[string]interface{})
	if data["email"] != "hoa@example.com" || data["role"] != "user" {
		t.Fatalf("unexpected register payload: %v", data)
	}
	if _, ok := data["password"]; ok {
		t.Fatalf("password must never be returned")
	}
	userID := data["_id"].(string)
	if sub, err := issuer.Verify(data["token"].(string)); err != nil || sub != userID {
		t.Fatalf("register token does not resolve to the new user: %v", err)
	}

	status, body = postJSON(t, app, "/api/auth/login", `{"email":"hoa@example.com","password":"123456"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 on login, got %d", status)
	}
	if body["data"].(map[string]interface{})["token"] == "" {
		t.Fatalf("expected token on login")
	}

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("X-User-ID", userID)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("me request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on me, got %d", res.StatusCode)
	}
	raw, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(raw), "hoa@example.com") || strings.Contains(string(raw), "password") {
		t.Fatalf("unexpected me body: %s", raw)
	}
}

func TestRegister_Errors(t *testing.T) {
	h, _ := newHandlerUnderTest()
	app := makeAppWithUserHandler(h)

	status, body := postJSON(t, app, "/api/auth/register", `{"name":"","email":"x@y.z","password":"1"}`)
	if status != fiber.StatusBadRequest || body["message"] != MsgRegisterFieldsMissing {
		t.Fatalf("expected 400 missing fields, got %d %v", status, body)
	}

	postJSON(t, app, "/api/auth/register", `{"name":"A","email":"a@y.z","password":"123456"}`)
	status, body = postJSON(t, app, "/api/auth/register", `{"name":"B","email":"a@y.z","password":"123456"}`)
	if status != fiber.StatusBadRequest || body["message"] != MsgEmailTaken {
		t.Fatalf("expected duplicate email rejection, got %d %v", status, body)
	}
}

func TestLogin_GenericFailure(t *testing.T) {
	h, _ := newHandlerUnderTest()
	app := makeAppWithUserHandler(h)
	postJSON(t, app, "/api/auth/register", `{"name":"A","email":"a@y.z","password":"123456"}`)

	s1, b1 := postJSON(t, app, "/api/auth/login", `{"email":"a@y.z","password":"wrong"}`)
	s2, b2 := postJSON(t, app, "/api/auth/login", `{"email":"nobody@y.z","password":"123456"}`)
	if s1 != fiber.StatusUnauthorized || s2 != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for both, got %d and %d", s1, s2)
	}
	if b1["message"] != b2["message"] {
		t.Fatalf("login failures must be indistinguishable: %v vs %v", b1["message"], b2["message"])
	}

	s3, b3 := postJSON(t, app, "/api/auth/login", `{"email":"a@y.z"}`)
	if s3 != fiber.StatusBadRequest || b3["message"] != MsgLoginFieldsMissing {
		t.Fatalf("expected 400 for missing password, got %d %v", s3, b3)
	}
}

func TestMe_Unauthorized(t *testing.T) {
	h, _ := newHandlerUnderTest()
	app := makeAppWithUserHandler(h)

	res, err := app.Test(httptest.NewRequest("GET", "/api/auth/me", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
}
