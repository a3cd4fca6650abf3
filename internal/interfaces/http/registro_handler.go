package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/oleotech/frantoio-api/internal/application/dto"
	"github.com/oleotech/frantoio-api/internal/application/registro"
	"github.com/oleotech/frantoio-api/internal/domain"
)

// RegistroHandler gestisce le richieste HTTP di conferimento e molitura (protetto).
type RegistroHandler struct {
	conferimento *registro.ConferimentoUseCase
	terzi        *registro.MolituraTerziUseCase
	proprio      *registro.MolituraProprioUseCase
}

// NewRegistroHandler costruisce l'handler.
func NewRegistroHandler(conferimento *registro.ConferimentoUseCase, terzi *registro.MolituraTerziUseCase, proprio *registro.MolituraProprioUseCase) *RegistroHandler {
	return &RegistroHandler{conferimento: conferimento, terzi: terzi, proprio: proprio}
}

// erroreDominio traduce gli errori sentinella di dominio in risposta HTTP.
// Restituisce false se l'errore non è di dominio (il chiamante rende 500).
func erroreDominio(c *fiber.Ctx, err error) (bool, error) {
	switch {
	case errors.Is(err, domain.ErrInputNonValido):
		return true, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNonTrovato):
		return true, c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrVietato):
		return true, c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "accesso negato alla risorsa"})
	case errors.Is(err, domain.ErrGiacenzaInsufficiente):
		return true, c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrCapacitaSuperata):
		return true, c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CAPACITY_EXCEEDED", Message: err.Error()})
	case errors.Is(err, domain.ErrConflitto), errors.Is(err, domain.ErrDuplicato):
		return true, c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return false, nil
}

// RegistraConferimento godoc
// @Summary      Registra un conferimento di olive
// @Tags         registro
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConferimentoRequest  true  "controparte, articolo oliva, kg, documento, origine; id_prenotazione opzionale"
// @Success      201   {object}  dto.ConferimentoResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/conferimenti [post]
func (h *RegistroHandler) RegistraConferimento(c *fiber.Ctx) error {
	tenant := GetTenantCode(c)
	if tenant == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalido"})
	}
	var in dto.ConferimentoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo della richiesta invalido"})
	}
	out, err := h.conferimento.Registra(c.Context(), tenant, in)
	if err != nil {
		if gestito, resp := erroreDominio(c, err); gestito {
			return resp
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// MolituraTerzi godoc
// @Summary      Esegue la molitura conto terzi sui conferimenti indicati
// @Description  Per ogni conferimento già trasmesso con ritiro immediato genera la
//               coppia scarico olive / carico olio; per quelli non ancora trasmessi
//               aggiorna il movimento in loco.
// @Tags         registro
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MolituraTerziRequest  true  "conferimenti con flag di ritiro, articolo olio, kg, data molitura"
// @Success      200   {object}  dto.MolituraResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/molitura/terzi [post]
func (h *RegistroHandler) MolituraTerzi(c *fiber.Ctx) error {
	tenant := GetTenantCode(c)
	if tenant == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalido"})
	}
	var in dto.MolituraTerziRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo della richiesta invalido"})
	}
	out, err := h.terzi.Esegui(c.Context(), tenant, in)
	if err != nil {
		if gestito, resp := erroreDominio(c, err); gestito {
			return resp
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// MolituraProprio godoc
// @Summary      Esegue la molitura conto proprio (movimento consolidato)
// @Description  Crea un unico movimento di molitura che aggrega i conferimenti
//               indicati, li collega al consolidato e carica l'olio in cisterna.
// @Tags         registro
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MolituraProprioRequest  true  "id dei conferimenti, articolo olio, cisterna, kg, data molitura"
// @Success      200   {object}  dto.MolituraResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/molitura/proprio [post]
func (h *RegistroHandler) MolituraProprio(c *fiber.Ctx) error {
	tenant := GetTenantCode(c)
	if tenant == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token invalido"})
	}
	var in dto.MolituraProprioRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo della richiesta invalido"})
	}
	out, err := h.proprio.Esegui(c.Context(), tenant, in)
	if err != nil {
		if gestito, resp := erroreDominio(c, err); gestito {
			return resp
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
