package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConferimentoRequest payload per registrare un conferimento di olive.
// Per il flusso c/acquisto (conto proprio) IDPrenotazione resta zero.
type ConferimentoRequest struct {
	IDControparte    int64           `json:"id_controparte"`
	IDCommittente    int64           `json:"id_committente"`
	IDArticoloOliva  int64           `json:"id_articolo_oliva"`
	KgOlive          decimal.Decimal `json:"kg_olive"`
	NumDocumento     string          `json:"num_documento"`
	DataDocumento    time.Time       `json:"data_documento"`
	DataConferimento time.Time       `json:"data_conferimento"`
	Macroarea        string          `json:"macroarea"`
	IDsOrigine       string          `json:"ids_origine"` // id separati da virgola, convenzione del tracciato
	FlagBio          bool            `json:"flag_bio"`
	DataRaccolta     *time.Time      `json:"data_raccolta"`
	IDPrenotazione   int64           `json:"id_prenotazione"` // 0 = conferimento non prenotato
	IDCisterna       int64           `json:"id_cisterna"`     // 0 = nessuna cisterna di riferimento
}

// ConferimentoResult esito della registrazione di un conferimento.
type ConferimentoResult struct {
	IDMovimento int64 `json:"id_movimento"`
	Progressivo int64 `json:"progressivo"`
}

// ConferimentoMolitura un conferimento da molire nel flusso conto terzi,
// con il flag di ritiro immediato indicato dal frantoiano.
type ConferimentoMolitura struct {
	ID              int64 `json:"id"`
	RitiroImmediato bool  `json:"ritiro_immediato"`
}

// MolituraTerziRequest payload della molitura conto terzi.
type MolituraTerziRequest struct {
	Conferimenti   []ConferimentoMolitura `json:"conferimenti"`
	IDArticoloOlio int64                  `json:"id_articolo_olio"`
	IDCisterna     int64                  `json:"id_cisterna"`
	KgOlive        decimal.Decimal        `json:"kg_olive"`
	KgOlio         decimal.Decimal        `json:"kg_olio"`
	DataMolitura   time.Time              `json:"data_molitura"`
}

// MolituraProprioRequest payload della molitura conto proprio (consolidata).
type MolituraProprioRequest struct {
	IDConferimenti []int64         `json:"id_conferimenti"`
	IDArticoloOlio int64           `json:"id_articolo_olio"`
	IDCisterna     int64           `json:"id_cisterna"`
	KgOlive        decimal.Decimal `json:"kg_olive"`
	KgOlio         decimal.Decimal `json:"kg_olio"`
	DataMolitura   time.Time       `json:"data_molitura"`
}

// MolituraResult esito di una molitura. Per il conto terzi IDsCreati elenca i
// movimenti nuovi (vuoto quando tutti i conferimenti sono stati aggiornati in
// loco o rimandati); per il conto proprio IDMolitura è il consolidato.
type MolituraResult struct {
	IDMolitura  int64    `json:"id_molitura,omitempty"`
	IDsCreati   []int64  `json:"ids_creati,omitempty"`
	Progressivo int64    `json:"progressivo"`
	Avvisi      []string `json:"avvisi,omitempty"`
}
