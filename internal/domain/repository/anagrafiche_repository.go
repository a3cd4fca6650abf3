package repository

import "github.com/oleotech/frantoio-api/internal/domain/entity"

// ArticoloRepository anagrafica articoli (olive/oli), sola lettura per il core.
type ArticoloRepository interface {
	GetByID(id int64) (*entity.Articolo, error)
	List() ([]*entity.Articolo, error)
}

// SoggettoRepository anagrafica soggetti (fornitori/clienti/committenti), sola lettura.
type SoggettoRepository interface {
	GetByID(id int64) (*entity.Soggetto, error)
	List() ([]*entity.Soggetto, error)
}

// OrigineRepository anagrafica delle origini specifiche (territori), sola lettura.
// Descrizioni restituisce le descrizioni nell'ordine degli id richiesti,
// saltando gli id inesistenti.
type OrigineRepository interface {
	Descrizioni(ids []int64) ([]string, error)
}

// PrenotazioneRepository calendario conferimenti (collaboratore esterno):
// il core effettua solo la chiusura best-effort della prenotazione.
type PrenotazioneRepository interface {
	GetByID(id int64) (*entity.Prenotazione, error)
	// Chiudi marca la prenotazione chiusa e collegata al conferimento.
	Chiudi(id int64, idMovimento int64) error
}
