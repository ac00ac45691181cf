package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/licorera-api/internal/application/dto"
	"github.com/jhoicas/licorera-api/internal/domain"
)

// messages textos por operación para las respuestas de error que no traen uno propio.
type messages struct {
	notFound string
	internal string
}

func ok(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.Response{Success: true, Message: message, Data: data})
}

func okList[T any](c *fiber.Ctx, message string, data []T) error {
	total := len(data)
	return c.Status(fiber.StatusOK).JSON(dto.Response{Success: true, Message: message, Data: data, Total: &total})
}

func badRequest(c *fiber.Ctx, message string, missing map[string]any) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Response{Success: false, Message: message, Missing: missing})
}

// fail traduce errores de dominio al sobre HTTP. Lo no clasificado es un 500 y se registra.
func fail(c *fiber.Ctx, log zerolog.Logger, msgs messages, err error) error {
	var (
		verr *domain.ValidationError
		serr *domain.InsufficientStockError
		rerr *domain.ReferenceError
		cerr *domain.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		missing := make(map[string]any, len(verr.Missing))
		for k, v := range verr.Missing {
			missing[k] = v
		}
		return badRequest(c, verr.Message, missing)
	case errors.As(err, &serr):
		return badRequest(c, serr.Error(), map[string]any{
			"id_producto":         serr.ProductID,
			"stock_disponible":    serr.Available,
			"cantidad_solicitada": serr.Requested,
		})
	case errors.Is(err, domain.ErrInsufficientStock):
		// CHECK de la base sin el detalle del Ledger
		return badRequest(c, "Stock insuficiente", nil)
	case errors.As(err, &rerr):
		return badRequest(c, rerr.Error(), nil)
	case errors.As(err, &cerr):
		return badRequest(c, cerr.Message, nil)
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Response{Success: false, Message: msgs.notFound})
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Response{Success: false, Message: "Credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.Response{Success: false, Message: "Acceso denegado"})
	}
	log.Error().Err(err).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(msgs.internal)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Response{
		Success: false,
		Message: msgs.internal,
		Error:   err.Error(),
	})
}

// paramID lee :id como entero positivo.
func paramID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("ID inválido", "id")
	}
	return int64(id), nil
}

func invalidBody(c *fiber.Ctx) error {
	return badRequest(c, "Cuerpo de la petición inválido", nil)
}
