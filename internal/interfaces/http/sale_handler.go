package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/licorera-api/internal/application/dto"
	"github.com/jhoicas/licorera-api/internal/application/sales"
)

var saleMsgs = messages{
	notFound: "Venta no encontrada",
	internal: "Error al procesar la venta",
}

// SaleHandler ventas, recibo PDF y regeneración retroactiva de movimientos.
type SaleHandler struct {
	uc       *sales.SaleUseCase
	backfill *sales.BackfillUseCase
	receipt  *sales.ReceiptUseCase
	log      zerolog.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, backfill *sales.BackfillUseCase, receipt *sales.ReceiptUseCase, log zerolog.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, backfill: backfill, receipt: receipt, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock por cada producto en una sola transacción. Si un producto
//
//	no tiene stock suficiente la venta completa se rechaza.
//
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        X-User-Id  header  int                    false  "Vendedor si el body no trae id_usuario"
// @Param        body       body    dto.CreateSaleRequest  true   "fecha, id_cliente, id_usuario, total, productos"
// @Success      201  {object}  dto.Response
// @Failure      400  {object}  dto.Response
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	fallback, err := fallbackUserID(c)
	if err != nil {
		return fail(c, h.log, saleMsgs, err)
	}
	out, err := h.uc.Create(c.UserContext(), in, fallback)
	if err != nil {
		return fail(c, h.log, messages{notFound: saleMsgs.notFound, internal: "Error al crear venta"}, err)
	}
	return ok(c, fiber.StatusCreated, "Venta creada exitosamente", out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Produce      json
// @Param        id_cliente  query  int     false  "Cliente"
// @Param        id_usuario  query  int     false  "Vendedor"
// @Param        desde       query  string  false  "YYYY-MM-DD"
// @Param        hasta       query  string  false  "YYYY-MM-DD, inclusivo"
// @Param        limit       query  int     false  "Máximo 500"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.Response{data=[]dto.SaleResponse}
// @Failure      400  {object}  dto.Response
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.SaleListQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Parámetros de consulta inválidos", nil)
	}
	list, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return fail(c, h.log, messages{notFound: saleMsgs.notFound, internal: "Error al obtener ventas"}, err)
	}
	return okList(c, "Ventas obtenidas exitosamente", list)
}

// Get godoc
// @Summary      Obtener venta
// @Tags         sales
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.Response{data=dto.SaleResponse}
// @Failure      404  {object}  dto.Response
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, saleMsgs, err)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, h.log, saleMsgs, err)
	}
	return ok(c, fiber.StatusOK, "Venta obtenida exitosamente", out)
}

// Update godoc
// @Summary      Actualizar venta
// @Description  Si el body trae productos, revierte el stock anterior y descuenta el nuevo en la misma transacción.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.Response{data=dto.SaleResponse}
// @Failure      400  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, saleMsgs, err)
	}
	var in dto.UpdateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return fail(c, h.log, messages{notFound: saleMsgs.notFound, internal: "Error al actualizar venta"}, err)
	}
	return ok(c, fiber.StatusOK, "Venta actualizada exitosamente", out)
}

// Delete godoc
// @Summary      Eliminar venta
// @Description  Devuelve el stock solo con SALES_RESTORE_STOCK_ON_DELETE=true.
// @Tags         sales
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, saleMsgs, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return fail(c, h.log, messages{notFound: saleMsgs.notFound, internal: "Error al eliminar venta"}, err)
	}
	return ok(c, fiber.StatusOK, "Venta eliminada exitosamente", nil)
}

// Receipt godoc
// @Summary      Recibo de la venta
// @Tags         sales
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.Response
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, saleMsgs, err)
	}
	pdf, filename, err := h.receipt.Download(c.UserContext(), id)
	if err != nil {
		return fail(c, h.log, messages{notFound: saleMsgs.notFound, internal: "Error al generar el recibo"}, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(pdf)
}

// GenerateRetroactiveMovements godoc
// @Summary      Generar movimientos retroactivos
// @Description  Crea las SALIDAS faltantes de ventas anteriores al descuento automático de stock. Idempotente.
// @Tags         sales
// @Produce      json
// @Success      200  {object}  dto.Response{data=dto.BackfillResponse}
// @Failure      500  {object}  dto.Response
// @Router       /api/sales/generate-retroactive-movements [post]
func (h *SaleHandler) GenerateRetroactiveMovements(c *fiber.Ctx) error {
	out, err := h.backfill.GenerateRetroactiveMovements(c.UserContext())
	if err != nil {
		return fail(c, h.log, messages{internal: "Error al generar movimientos retroactivos"}, err)
	}
	return ok(c, fiber.StatusOK, "Movimientos retroactivos generados exitosamente", out)
}
