package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oleotech/frantoio-api/internal/application/dto"
	"github.com/oleotech/frantoio-api/internal/application/export"
)

// ExportHandler gestisce la generazione e la marcatura dei file di registro (protetto).
type ExportHandler struct {
	uc *export.UseCase
}

// NewExportHandler costruisce l'handler.
func NewExportHandler(uc *export.UseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Genera godoc
// @Summary      Genera il file XML del registro per i movimenti indicati
// @Description  Serializza i movimenti nel tracciato, li marca come generati e
//               scrive il file nella directory del tenant. Gli avvisi del
//               validatore sono consultivi e non bloccano la generazione.
// @Tags         sian
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GeneraExportRequest  true  "id dei movimenti da esportare"
// @Success      201   {object}  dto.GeneraExportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sian/export [post]
func (h *ExportHandler) Genera(c *fiber.Ctx) error {
	tenant := GetTenantCode(c)
	if tenant == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalido"})
	}
	var in dto.GeneraExportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo della richiesta invalido"})
	}
	out, err := h.uc.Genera(c.Context(), tenant, in)
	if err != nil {
		if gestito, resp := erroreDominio(c, err); gestito {
			return resp
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Elenco dei file di registro generati
// @Tags         sian
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/sian/export [get]
func (h *ExportHandler) List(c *fiber.Ctx) error {
	tenant := GetTenantCode(c)
	if tenant == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalido"})
	}
	list, err := h.uc.Elenca(c.Context(), tenant)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"total":        len(list),
		"esportazioni": list,
	})
}

// Scarica godoc
// @Summary      Scarica un file di registro generato
// @Tags         sian
// @Security     Bearer
// @Produce      application/xml
// @Param        nome  path  string  true  "nome del file"
// @Success      200  {string}  string  "contenuto XML"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sian/export/{nome} [get]
func (h *ExportHandler) Scarica(c *fiber.Ctx) error {
	tenant := GetTenantCode(c)
	if tenant == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalido"})
	}
	nome := c.Params("nome")
	dati, err := h.uc.Scarica(c.Context(), tenant, nome)
	if err != nil {
		if gestito, resp := erroreDominio(c, err); gestito {
			return resp
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+nome+`"`)
	return c.Send(dati)
}

// SegnaInviato godoc
// @Summary      Marca un file di registro come comunicato al SIAN
// @Description  Marca come inviati i movimenti del file. Senza id espliciti usa
//               quelli registrati alla generazione; in mancanza, se abilitata,
//               l'inferenza dalla data nel nome file.
// @Tags         sian
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        nome  path  string  true  "nome del file"
// @Param        body  body  dto.SegnaInviatoRequest  false  "id dei movimenti (opzionale)"
// @Success      200   {object}  dto.SegnaInviatoResult
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sian/export/{nome}/invio [post]
func (h *ExportHandler) SegnaInviato(c *fiber.Ctx) error {
	tenant := GetTenantCode(c)
	if tenant == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalido"})
	}
	nome := c.Params("nome")
	var in dto.SegnaInviatoRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo della richiesta invalido"})
		}
	}
	out, err := h.uc.SegnaInviato(c.Context(), tenant, nome, in)
	if err != nil {
		if gestito, resp := erroreDominio(c, err); gestito {
			return resp
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
