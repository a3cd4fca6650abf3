package dto

import "time"

// GeneraExportRequest richiesta di generazione del file di registro.
type GeneraExportRequest struct {
	IDMovimenti []int64 `json:"id_movimenti"`
}

// GeneraExportResult esito della generazione: nome file e avvisi del
// validatore (consultivi: la generazione è comunque avvenuta).
type GeneraExportResult struct {
	NomeFile    string   `json:"nome_file"`
	IDMovimenti []int64  `json:"id_movimenti"`
	Avvisi      []string `json:"avvisi,omitempty"`
}

// SegnaInviatoRequest marcatura di un file come comunicato al SIAN.
// IDMovimenti vuoto attiva, se abilitata, l'inferenza dalla data nel nome file.
type SegnaInviatoRequest struct {
	IDMovimenti []int64 `json:"id_movimenti"`
}

// SegnaInviatoResult esito della marcatura.
type SegnaInviatoResult struct {
	Aggiornati int64 `json:"aggiornati"`
}

// EsportazioneDTO elemento dell'elenco file generati.
type EsportazioneDTO struct {
	NomeFile  string     `json:"nome_file"`
	CreataIl  time.Time  `json:"creata_il"`
	Movimenti int        `json:"movimenti"`
	Inviata   bool       `json:"inviata"`
	DataInvio *time.Time `json:"data_invio,omitempty"`
}
