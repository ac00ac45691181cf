package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/licorera-api/internal/application/dto"
	"github.com/jhoicas/licorera-api/internal/application/inventory"
)

var movementMsgs = messages{
	notFound: "Movimiento de inventario no encontrado",
	internal: "Error al procesar movimientos de inventario",
}

// MovementHandler maneja las peticiones HTTP de movimientos de inventario.
type MovementHandler struct {
	uc  *inventory.MovementUseCase
	log zerolog.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase, log zerolog.Logger) *MovementHandler {
	return &MovementHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory-movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "id_inventario, tipo_movimiento, cantidad, precio_unitario, id_proveedor (ENTRADA)"
// @Success      201   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Router       /api/inventory-movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, h.log, messages{notFound: movementMsgs.notFound, internal: "Error al crear movimiento de inventario"}, err)
	}
	return ok(c, fiber.StatusCreated, "Movimiento de inventario creado exitosamente", out)
}

// List godoc
// @Summary      Listar movimientos de inventario
// @Tags         inventory-movements
// @Produce      json
// @Param        tipo          query  string  false  "ENTRADA | SALIDA"
// @Param        id_producto   query  int     false  "Producto"
// @Param        id_proveedor  query  int     false  "Proveedor"
// @Param        desde         query  string  false  "YYYY-MM-DD"
// @Param        hasta         query  string  false  "YYYY-MM-DD, inclusivo"
// @Param        limit         query  int     false  "Máximo 500"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.Response{data=[]dto.MovementResponse}
// @Failure      400  {object}  dto.Response
// @Router       /api/inventory-movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Parámetros de consulta inválidos", nil)
	}
	list, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return fail(c, h.log, movementMsgs, err)
	}
	return okList(c, "Movimientos de inventario obtenidos exitosamente", list)
}

// Get godoc
// @Summary      Obtener movimiento de inventario
// @Tags         inventory-movements
// @Produce      json
// @Param        id   path  int  true  "ID del movimiento"
// @Success      200  {object}  dto.Response{data=dto.MovementResponse}
// @Failure      404  {object}  dto.Response
// @Router       /api/inventory-movements/{id} [get]
func (h *MovementHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, movementMsgs, err)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, h.log, movementMsgs, err)
	}
	return ok(c, fiber.StatusOK, "Movimiento de inventario obtenido exitosamente", out)
}

// ListByInventory godoc
// @Summary      Movimientos de un inventario
// @Description  El más reciente primero.
// @Tags         inventory-movements
// @Produce      json
// @Param        id   path  int  true  "ID del inventario"
// @Success      200  {object}  dto.Response{data=[]dto.MovementResponse}
// @Failure      404  {object}  dto.Response
// @Router       /api/inventory-movements/inventory/{id} [get]
func (h *MovementHandler) ListByInventory(c *fiber.Ctx) error {
	msgs := messages{notFound: "Inventario no encontrado", internal: movementMsgs.internal}
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, msgs, err)
	}
	seq, err := h.uc.ListByInventory(c.UserContext(), id)
	if err != nil {
		return fail(c, h.log, msgs, err)
	}
	list := make([]dto.MovementResponse, 0)
	for m, err := range seq {
		if err != nil {
			return fail(c, h.log, msgs, err)
		}
		list = append(list, m)
	}
	return okList(c, "Movimientos del inventario obtenidos exitosamente", list)
}

// Summary godoc
// @Summary      Resumen de movimientos de un inventario
// @Tags         inventory-movements
// @Produce      json
// @Param        id   path  int  true  "ID del inventario"
// @Success      200  {object}  dto.Response{data=dto.MovementSummaryResponse}
// @Failure      404  {object}  dto.Response
// @Router       /api/inventory-movements/inventory/{id}/summary [get]
func (h *MovementHandler) Summary(c *fiber.Ctx) error {
	msgs := messages{notFound: "Inventario no encontrado", internal: "Error al obtener resumen de movimientos"}
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, msgs, err)
	}
	out, err := h.uc.Summarize(c.UserContext(), id)
	if err != nil {
		return fail(c, h.log, msgs, err)
	}
	return ok(c, fiber.StatusOK, "Resumen de movimientos obtenido exitosamente", out)
}
