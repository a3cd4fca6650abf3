package export

import (
	"context"
	"time"

	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
)

// Intestazione blocco di testa del file di registro.
type Intestazione struct {
	SoftwareID    string
	Versione      string
	GenerataIl    time.Time
	CodiceFiscale string
	Denominazione string
}

// Builder serializza i movimenti nel tracciato XML del registro telematico.
type Builder interface {
	Costruisci(intestazione Intestazione, movimenti []*entity.Movimento) ([]byte, error)
}

// FileStore persiste i file di registro nella directory del tenant e ne
// gestisce le copie di audit in sent/. Tutte le operazioni rifiutano nomi
// fuori dal prefisso del tenant o con attraversamento di percorso.
type FileStore interface {
	Scrivi(tenant, nome string, dati []byte) error
	Leggi(tenant, nome string) ([]byte, error)
	Elenca(tenant string) ([]string, error)
	// CopiaInviato copia il file nella sottodirectory sent/ con suffisso di
	// timestamp d'invio, a fini di audit.
	CopiaInviato(tenant, nome string, quando time.Time) error
}

// TxRunner esegue la marcatura "generato"/"inviato" e la registrazione del
// batch di export nella stessa transazione.
type TxRunner interface {
	EseguiExport(ctx context.Context, tenant string, fn func(
		movRepo repository.MovimentoRepository,
		espRepo repository.EsportazioneRepository,
	) error) error
}
