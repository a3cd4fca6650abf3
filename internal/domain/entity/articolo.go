package entity

// Tipi di articolo del frantoio.
const (
	TipoArticoloOliva = "OLIVA"
	TipoArticoloOlio  = "OLIO"
)

// Articolo è l'anagrafica di un tipo di oliva o di olio con i metadati
// regolatori che confluiscono nel movimento di molitura.
type Articolo struct {
	ID          int64
	Descrizione string
	Tipo        string // OLIVA | OLIO
	Categoria   string // categoria/classificazione SIAN (es. EVO, VERGINE, LAMPANTE)
	Macroarea   string // codice macroarea di origine
	Origine     string // origine specifica in chiaro
	FlagBio     string // "S"/"N"
	FlagDopIgp  string // "S"/"N"
	FlagOrigine string // "S"/"N" origine tracciata
}
