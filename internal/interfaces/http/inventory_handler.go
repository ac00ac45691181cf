package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/licorera-api/internal/application/dto"
	"github.com/jhoicas/licorera-api/internal/application/inventory"
)

var inventoryMsgs = messages{
	notFound: "Inventario no encontrado",
	internal: "Error al procesar inventario",
}

// InventoryHandler alta, consulta y baja de registros de inventario.
type InventoryHandler struct {
	uc  *inventory.InventoryUseCase
	log zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.InventoryUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear registro de inventario
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryRequest  true  "id_producto, cantidad inicial, id_proveedor"
// @Success      201   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, h.log, inventoryMsgs, err)
	}
	return ok(c, fiber.StatusCreated, "Inventario creado exitosamente", out)
}

// List godoc
// @Summary      Listar inventario
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  dto.Response{data=[]dto.InventoryResponse}
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return fail(c, h.log, inventoryMsgs, err)
	}
	return okList(c, "Inventario obtenido exitosamente", list)
}

// Get godoc
// @Summary      Obtener registro de inventario
// @Tags         inventory
// @Produce      json
// @Param        id   path  int  true  "ID del inventario"
// @Success      200  {object}  dto.Response{data=dto.InventoryResponse}
// @Failure      404  {object}  dto.Response
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, inventoryMsgs, err)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, h.log, inventoryMsgs, err)
	}
	return ok(c, fiber.StatusOK, "Inventario obtenido exitosamente", out)
}

// Delete godoc
// @Summary      Eliminar registro de inventario
// @Description  Falla con 400 si el registro tiene movimientos.
// @Tags         inventory
// @Produce      json
// @Param        id   path  int  true  "ID del inventario"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, inventoryMsgs, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return fail(c, h.log, inventoryMsgs, err)
	}
	return ok(c, fiber.StatusOK, "Inventario eliminado exitosamente", nil)
}
