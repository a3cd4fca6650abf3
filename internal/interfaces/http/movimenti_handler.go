package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/oleotech/frantoio-api/internal/application/dto"
	"github.com/oleotech/frantoio-api/internal/application/registro"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
	"github.com/oleotech/frantoio-api/pkg/sian"
)

// MovimentiHandler letture del registro movimenti (protetto).
type MovimentiHandler struct {
	uc *registro.ConsultazioneUseCase
}

// NewMovimentiHandler costruisce l'handler.
func NewMovimentiHandler(uc *registro.ConsultazioneUseCase) *MovimentiHandler {
	return &MovimentiHandler{uc: uc}
}

// List godoc
// @Summary      Ricerca nel registro movimenti
// @Tags         movimenti
// @Security     Bearer
// @Produce      json
// @Param        cod_operazione  query  string  false  "codice operazione (CO, SO, CA, ...)"
// @Param        da              query  string  false  "data operazione minima (AAAAMMGG)"
// @Param        a               query  string  false  "data operazione massima (AAAAMMGG)"
// @Param        da_molire       query  bool    false  "solo conferimenti non ancora moliti"
// @Param        limit           query  int     false  "default 20, max 100"
// @Param        offset          query  int     false  "default 0"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movimenti [get]
func (h *MovimentiHandler) List(c *fiber.Ctx) error {
	tenant := GetTenantCode(c)
	if tenant == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parametri di paginazione invalidi"})
	}
	page.DefaultPage()

	f := repository.FiltroMovimenti{
		CodOperazione:    c.Query("cod_operazione"),
		SoloConferimenti: c.QueryBool("da_molire"),
		Limit:            page.Limit,
		Offset:           page.Offset,
	}
	var err error
	if f.Da, err = parseDataQuery(c.Query("da")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "data 'da' invalida, atteso AAAAMMGG"})
	}
	if f.A, err = parseDataQuery(c.Query("a")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "data 'a' invalida, atteso AAAAMMGG"})
	}

	movimenti, err := h.uc.Movimenti(c.Context(), tenant, f)
	if err != nil {
		if gestito, resp := erroreDominio(c, err); gestito {
			return resp
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"total":     len(movimenti),
		"movimenti": movimenti,
	})
}

// GetByID godoc
// @Summary      Dettaglio di un movimento del registro
// @Tags         movimenti
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "id del movimento"
// @Success      200  {object}  entity.Movimento
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimenti/{id} [get]
func (h *MovimentiHandler) GetByID(c *fiber.Ctx) error {
	tenant := GetTenantCode(c)
	if tenant == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalido"})
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id movimento invalido"})
	}
	m, err := h.uc.Movimento(c.Context(), tenant, id)
	if err != nil {
		if gestito, resp := erroreDominio(c, err); gestito {
			return resp
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(m)
}

// parseDataQuery interpreta una data AAAAMMGG dalla query; stringa vuota = nil.
func parseDataQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := sian.ParseData(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
