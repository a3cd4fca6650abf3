package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oleotech/frantoio-api/internal/domain/entity"
)

// FiltroMovimenti filtri per la ricerca nel registro.
type FiltroMovimenti struct {
	CodOperazione    string
	Da               *time.Time
	A                *time.Time
	SoloConferimenti bool // solo conferimenti non ancora moliti
	Generato         *bool
	Limit            int
	Offset           int
}

// AggiornamentoMolitura campi applicati al conferimento nel sotto-flusso
// "aggiorna in loco" della molitura conto terzi.
type AggiornamentoMolitura struct {
	CodOperazione  string
	KgOliveCarico  decimal.Decimal
	KgOlioCarico   decimal.Decimal
	DataMolitura   time.Time
	Descrizione    string
	IDArticoloFine int64 // 0 = non impostare
}

// MetadatiMovimento aggiornamento condizionale dei soli campi risolti
// (molitura conto proprio). I puntatori nil non vengono toccati.
type MetadatiMovimento struct {
	Categoria    *string
	Macroarea    *string
	Origine      *string
	FlagBio      *string
	FlagDopIgp   *string
	FlagOrigine  *string
	DataRaccolta *time.Time
}

// MovimentoRepository è il registro dei movimenti di un tenant: inserimenti,
// aggiornamenti mirati di campi/flag e letture filtrate. Le righe non vengono
// mai cancellate.
type MovimentoRepository interface {
	// Create inserisce il movimento e restituisce l'id assegnato dal registro.
	Create(m *entity.Movimento) (int64, error)
	GetByID(id int64) (*entity.Movimento, error)
	ListByIDs(ids []int64) ([]*entity.Movimento, error)
	Search(f FiltroMovimenti) ([]*entity.Movimento, error)

	// SetMolito marca i conferimenti come moliti (idempotente).
	SetMolito(ids []int64) error
	// AggiornaMolitura aggiorna il conferimento in loco trasformandolo in
	// record di molitura (imposta anche molito e flag molitura).
	AggiornaMolitura(id int64, a AggiornamentoMolitura) error
	// AggiornaMetadati applica i soli campi non nil.
	AggiornaMetadati(id int64, md MetadatiMovimento) error
	// CollegaMolitura collega i conferimenti alla molitura che li ha consumati.
	CollegaMolitura(ids []int64, idMolitura int64) error

	SegnaGenerati(ids []int64, quando time.Time) error
	// SegnaInviati marca i movimenti come comunicati al SIAN e restituisce il
	// numero di righe aggiornate.
	SegnaInviati(ids []int64, quando time.Time) (int64, error)
	// InviabiliPerData restituisce gli id generati nel giorno indicato e non
	// ancora inviati (fallback di inferenza per "segna inviato").
	InviabiliPerData(giorno time.Time) ([]int64, error)
}
