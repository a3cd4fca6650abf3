package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cisterna rappresenta un serbatoio di stoccaggio olio del frantoio:
// capacità, giacenza attuale e articolo attualmente contenuto.
type Cisterna struct {
	ID              int64
	Descrizione     string
	CodStabilimento int             // codice SIAN dello stabilimento di appartenenza
	Capacita        decimal.Decimal // kg
	Giacenza        decimal.Decimal // kg attualmente stoccati
	IDArticolo      int64           // articolo contenuto (0 = vuota)
	IDSoggetto      int64           // soggetto proprietario
	AggiornataIl    time.Time
}

// Disponibile restituisce la capacità residua in kg.
func (c *Cisterna) Disponibile() decimal.Decimal {
	return c.Capacita.Sub(c.Giacenza)
}
