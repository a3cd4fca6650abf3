package entity

// Soggetto è l'anagrafica di un fornitore/cliente/committente con il suo
// identificativo regolatorio SIAN.
type Soggetto struct {
	ID            int64
	Descrizione   string
	CodiceFiscale string
	CodSian       string // identificativo del soggetto presso il SIAN
}
