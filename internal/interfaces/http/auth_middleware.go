package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/licorera-api/internal/domain"
	"github.com/jhoicas/licorera-api/pkg/jwt"
)

// Locals keys para UserID y Role en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// HeaderUserID vendedor de confianza enviado por el cliente del punto de venta.
const HeaderUserID = "X-User-Id"

// OptionalAuth si llega un Bearer Token válido carga UserID y Role en c.Locals.
// Sin token, o con uno inválido, la petición sigue sin identidad.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Next()
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" || jwtSecret == "" {
			return c.Next()
		}
		userID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Next()
		}
		id, err := strconv.ParseInt(userID, 10, 64)
		if err != nil {
			return c.Next()
		}
		c.Locals(LocalUserID, id)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del token, o nil si la petición no trae uno válido.
func GetUserID(c *fiber.Ctx) *int64 {
	id, ok := c.Locals(LocalUserID).(int64)
	if !ok {
		return nil
	}
	return &id
}

// GetRole devuelve el rol del token ("" sin token).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// fallbackUserID vendedor a usar cuando el body no trae id_usuario: primero X-User-Id,
// luego el usuario del token.
func fallbackUserID(c *fiber.Ctx) (*int64, error) {
	if h := strings.TrimSpace(c.Get(HeaderUserID)); h != "" {
		id, err := strconv.ParseInt(h, 10, 64)
		if err != nil || id <= 0 {
			return nil, domain.NewValidationError("El header X-User-Id no es un ID válido", "id_usuario")
		}
		return &id, nil
	}
	return GetUserID(c), nil
}
