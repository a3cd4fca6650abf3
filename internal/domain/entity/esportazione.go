package entity

import "time"

// Esportazione è un file di registro generato: nome (che incorpora tenant e
// timestamp), insieme dei movimenti coperti e stato di invio al SIAN.
// Immutabile dopo la creazione, salvo la marcatura di invio.
type Esportazione struct {
	ID          string // uuid
	NomeFile    string
	IDMovimenti []int64
	CreataIl    time.Time
	Inviata     bool
	DataInvio   *time.Time
}
