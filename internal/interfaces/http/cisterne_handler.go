package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/oleotech/frantoio-api/internal/application/dto"
	"github.com/oleotech/frantoio-api/internal/application/registro"
)

// CisterneHandler letture dell'inventario cisterne (protetto).
type CisterneHandler struct {
	uc *registro.ConsultazioneUseCase
}

// NewCisterneHandler costruisce l'handler.
func NewCisterneHandler(uc *registro.ConsultazioneUseCase) *CisterneHandler {
	return &CisterneHandler{uc: uc}
}

// List godoc
// @Summary      Elenco cisterne con giacenza corrente
// @Tags         cisterne
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/cisterne [get]
func (h *CisterneHandler) List(c *fiber.Ctx) error {
	tenant := GetTenantCode(c)
	if tenant == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalido"})
	}
	cisterne, err := h.uc.Cisterne(c.Context(), tenant)
	if err != nil {
		if gestito, resp := erroreDominio(c, err); gestito {
			return resp
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"total":    len(cisterne),
		"cisterne": cisterne,
	})
}

// GetByID godoc
// @Summary      Dettaglio di una cisterna
// @Tags         cisterne
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "id della cisterna"
// @Success      200  {object}  entity.Cisterna
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cisterne/{id} [get]
func (h *CisterneHandler) GetByID(c *fiber.Ctx) error {
	tenant := GetTenantCode(c)
	if tenant == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalido"})
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id cisterna invalido"})
	}
	cis, err := h.uc.Cisterna(c.Context(), tenant, id)
	if err != nil {
		if gestito, resp := erroreDominio(c, err); gestito {
			return resp
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(cis)
}
