package registro

import (
	"context"

	"github.com/oleotech/frantoio-api/internal/domain/repository"
)

// TxRunner esegue una funzione dentro una transazione di DB per il tenant
// indicato, passando repository legati a quella transazione. Garantisce
// l'atomicità dei motori di molitura e del conferimento: Commit se fn
// restituisce nil, Rollback altrimenti.
type TxRunner interface {
	Esegui(ctx context.Context, tenant string, fn func(
		movRepo repository.MovimentoRepository,
		contatori repository.ContatoreRepository,
		cisterne repository.CisternaRepository,
	) error) error
}

// Repos costruisce i repository di sola lettura/anagrafica legati al tenant.
// È l'unico punto in cui il codice applicativo nomina il tenant verso lo
// storage: la regola di scoping delle tabelle vive nell'adapter.
type Repos interface {
	Movimenti(tenant string) (repository.MovimentoRepository, error)
	Cisterne(tenant string) (repository.CisternaRepository, error)
	Articoli(tenant string) (repository.ArticoloRepository, error)
	Soggetti(tenant string) (repository.SoggettoRepository, error)
	Origini(tenant string) (repository.OrigineRepository, error)
	Prenotazioni(tenant string) (repository.PrenotazioneRepository, error)
	Esportazioni(tenant string) (repository.EsportazioneRepository, error)
}
