package repository

import (
	"time"

	"github.com/oleotech/frantoio-api/internal/domain/entity"
)

// EsportazioneRepository anagrafe dei file di registro generati per il tenant.
type EsportazioneRepository interface {
	Create(e *entity.Esportazione) error
	GetByNomeFile(nome string) (*entity.Esportazione, error)
	List() ([]*entity.Esportazione, error)
	SegnaInviata(nome string, quando time.Time) error
}
