package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oleotech/frantoio-api/internal/application/export"
	"github.com/oleotech/frantoio-api/internal/application/registro"
)

// RouterDeps dipendenze per il router.
type RouterDeps struct {
	Conferimento  *registro.ConferimentoUseCase
	MolituraTerzi *registro.MolituraTerziUseCase
	MolituraProp  *registro.MolituraProprioUseCase
	Consultazione *registro.ConsultazioneUseCase
	Export        *export.UseCase
	JWTSecret     string
}

// Router registra le rotte dell'API. Tutte le rotte del registro richiedono
// il Bearer Token con il tenant.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Le scritture sul registro richiedono il ruolo operativo; per la
	// consultazione basta il token.
	scrittura := RequireRole("admin", "operatore")

	// Registro: conferimenti e moliture
	registroHandler := NewRegistroHandler(deps.Conferimento, deps.MolituraTerzi, deps.MolituraProp)
	protected.Post("/conferimenti", scrittura, registroHandler.RegistraConferimento)
	molitura := protected.Group("/molitura", scrittura)
	molitura.Post("/terzi", registroHandler.MolituraTerzi)
	molitura.Post("/proprio", registroHandler.MolituraProprio)

	// Consultazione registro
	movimentiHandler := NewMovimentiHandler(deps.Consultazione)
	movimenti := protected.Group("/movimenti")
	movimenti.Get("/", movimentiHandler.List)
	movimenti.Get("/:id", movimentiHandler.GetByID)

	// Cisterne
	cisterneHandler := NewCisterneHandler(deps.Consultazione)
	cisterne := protected.Group("/cisterne")
	cisterne.Get("/", cisterneHandler.List)
	cisterne.Get("/:id", cisterneHandler.GetByID)

	// Export registro telematico
	exportHandler := NewExportHandler(deps.Export)
	sianGroup := protected.Group("/sian/export")
	sianGroup.Post("/", scrittura, exportHandler.Genera)
	sianGroup.Get("/", exportHandler.List)
	sianGroup.Get("/:nome", exportHandler.Scarica)
	sianGroup.Post("/:nome/invio", scrittura, exportHandler.SegnaInviato)
}
