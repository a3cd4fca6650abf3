package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Codici operazione del registro (token del tracciato SIAN, campo07).
const (
	CodOpConferimento      = "CO" // carico olive conferite
	CodOpScaricoOlive      = "SO" // scarico olive a molitura (c/terzi con ritiro immediato)
	CodOpCaricoOlio        = "CA" // carico olio ottenuto (c/terzi con ritiro immediato)
	CodOpMolituraImmediata = "MI" // molitura c/terzi, conferimento aggiornato in loco, ritiro immediato
	CodOpMolituraDifferita = "MD" // molitura c/terzi, conferimento aggiornato in loco, ritiro differito
	CodOpMolituraProprio   = "MP" // molitura conto proprio consolidata
)

// Movimento è una riga del registro di carico/scarico di un tenant:
// un evento regolatorio con i campi semantici che nel tracciato SIAN
// finiscono negli slot posizionali CAMPO01..CAMPO49 (vedi domain/sian).
// Le righe non vengono mai cancellate; gli aggiornamenti in loco sono
// limitati ai flag di workflow e al sotto-flusso di molitura c/terzi.
type Movimento struct {
	ID int64

	// Campi regolatori (esportati nel tracciato).
	CodiceFiscale      string          // CUAA dell'azienda esercente
	CodStabilimento    int             // codice SIAN dello stabilimento; 0 = nessuno stabilimento risolto
	Progressivo        int64           // numero d'ordine per (stabilimento, giorno)
	DataOperazione     time.Time       // data dell'operazione
	NumDocumento       string          // numero documento di accompagnamento
	DataDocumento      time.Time       // data documento
	CodOperazione      string          // token operazione (CO, SO, CA, MI, MD, MP, ...)
	CodSianControparte string          // codice SIAN del soggetto controparte (fornitore/cliente)
	CodSianCommittente string          // codice SIAN del committente
	KgOliveCarico      decimal.Decimal // olive in ingresso
	KgOliveScarico     decimal.Decimal // olive in uscita (a molitura)
	KgOlioCarico       decimal.Decimal // olio in ingresso (ottenuto)
	KgOlioScarico      decimal.Decimal // olio in uscita
	Macroarea          string          // codice macroarea di origine
	OrigineSpecifica   string          // origine specifica in chiaro (descrizioni separate da spazio)
	Categoria          string          // categoria/classificazione dell'olio
	FlagBio            string          // "S"/"N" biologico
	FlagDopIgp         string          // "S"/"N" DOP/IGP
	FlagOrigine        string          // "S"/"N" origine tracciata
	DataRaccolta       time.Time       // data/ora di raccolta delle olive (zero = non indicata)
	DataOraOperazione  time.Time       // data/ora dell'operazione (granularità al minuto)
	DataMolitura       time.Time       // data/ora di completamento molitura
	Descrizione        string          // testo libero
	IDArticoloInizio   int64           // articolo di partenza (tipicamente l'oliva)
	IDArticoloFine     int64           // articolo di arrivo (tipicamente l'olio)

	// Stato di workflow (non esportato).
	Molito              bool       // il conferimento è stato molito
	FlagConferimento    bool       // la riga è un conferimento
	FlagMolitura        bool       // la riga è una molitura
	IDMovimentoMolitura int64      // molitura che ha consumato questo conferimento (0 = nessuna)
	Generato            bool       // incluso in un file di export
	DataGenerazione     *time.Time // quando è stato generato
	Inviato             bool       // comunicato al SIAN
	DataInvio           *time.Time // quando è stato comunicato
}

// Conferibile indica se la riga è un conferimento ancora molibile.
func (m *Movimento) Conferibile() bool {
	return m.FlagConferimento && !m.Molito
}
