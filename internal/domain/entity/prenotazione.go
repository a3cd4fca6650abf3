package entity

import "time"

// Prenotazione è una riga del calendario conferimenti gestito dal collaboratore
// esterno di scheduling. Qui interessa solo la chiusura best-effort quando il
// conferimento prenotato viene effettivamente registrato.
type Prenotazione struct {
	ID           int64
	IDSoggetto   int64
	DataPrevista time.Time
	Chiusa       bool
	IDMovimento  int64 // conferimento che ha chiuso la prenotazione (0 = aperta)
}
