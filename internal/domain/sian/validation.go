package sian

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oleotech/frantoio-api/internal/domain/entity"
)

// requisitiOperazione elenca, per ciascun codice operazione conosciuto, i campi
// aggiuntivi obbligatori oltre a quelli comuni. Un codice presente nel movimento
// ma assente da questa tabella produce un avviso, non un errore.
var requisitiOperazione = map[string][]string{
	entity.CodOpConferimento:      {"controparte", "committente", "kg_olive_carico", "articolo_inizio"},
	entity.CodOpScaricoOlive:      {"kg_olive_scarico"},
	entity.CodOpCaricoOlio:        {"kg_olio_carico", "articolo_fine"},
	entity.CodOpMolituraImmediata: {"controparte", "kg_olive_carico", "kg_olio_carico", "data_molitura"},
	entity.CodOpMolituraDifferita: {"controparte", "kg_olive_carico", "kg_olio_carico", "data_molitura"},
	entity.CodOpMolituraProprio:   {"kg_olive_carico", "kg_olio_carico", "articolo_inizio", "articolo_fine", "categoria"},
}

// ValidaMovimenti verifica un insieme di movimenti contro i requisiti di campo
// del tracciato SIAN e restituisce l'elenco degli avvisi (vuoto se pulito).
//
// La validazione è consultiva: l'export procede comunque e gli avvisi vengono
// restituiti al chiamante insieme al risultato. È una scelta deliberata del
// processo regolatorio, non un controllo bloccante.
func ValidaMovimenti(movimenti []*entity.Movimento) []string {
	var avvisi []string
	for _, m := range movimenti {
		avvisi = append(avvisi, validaMovimento(m)...)
	}
	return avvisi
}

func validaMovimento(m *entity.Movimento) []string {
	var avvisi []string
	manca := func(campo string, indice int) {
		avvisi = append(avvisi, fmt.Sprintf("movimento %d: %s (%s) obbligatorio mancante", m.ID, campo, NomeCampo(indice)))
	}

	// Campi comuni a tutte le operazioni.
	if m.CodiceFiscale == "" {
		manca("codice fiscale", CampoCodiceFiscale)
	}
	if m.CodStabilimento == 0 {
		manca("codice stabilimento", CampoStabilimento)
	}
	if m.Progressivo <= 0 {
		manca("progressivo", CampoProgressivo)
	}
	if m.DataOperazione.IsZero() {
		manca("data operazione", CampoDataOperazione)
	}
	if m.CodOperazione == "" {
		manca("codice operazione", CampoCodOperazione)
		return avvisi
	}

	// Campi aggiuntivi per codice operazione.
	richiesti, noto := requisitiOperazione[m.CodOperazione]
	if !noto {
		avvisi = append(avvisi, fmt.Sprintf("movimento %d: codice operazione %q non riconosciuto", m.ID, m.CodOperazione))
	}
	for _, nome := range richiesti {
		if !campoPresente(m, nome) {
			avvisi = append(avvisi, fmt.Sprintf("movimento %d: campo %s obbligatorio per operazione %s mancante", m.ID, nome, m.CodOperazione))
		}
	}

	// Quantità negative.
	for nome, q := range map[string]decimal.Decimal{
		"kg_olive_carico":  m.KgOliveCarico,
		"kg_olive_scarico": m.KgOliveScarico,
		"kg_olio_carico":   m.KgOlioCarico,
		"kg_olio_scarico":  m.KgOlioScarico,
	} {
		if q.IsNegative() {
			avvisi = append(avvisi, fmt.Sprintf("movimento %d: quantità negativa in %s (%s)", m.ID, nome, q.String()))
		}
	}

	// Date implausibili.
	if !m.DataRaccolta.IsZero() && !m.DataOperazione.IsZero() && m.DataRaccolta.After(m.DataOperazione.AddDate(0, 0, 1)) {
		avvisi = append(avvisi, fmt.Sprintf("movimento %d: data raccolta successiva alla data operazione", m.ID))
	}
	if m.NumDocumento != "" && m.DataDocumento.IsZero() {
		avvisi = append(avvisi, fmt.Sprintf("movimento %d: numero documento senza data documento", m.ID))
	}

	return avvisi
}

func campoPresente(m *entity.Movimento, nome string) bool {
	switch nome {
	case "controparte":
		return m.CodSianControparte != ""
	case "committente":
		return m.CodSianCommittente != ""
	case "kg_olive_carico":
		return m.KgOliveCarico.IsPositive()
	case "kg_olive_scarico":
		return m.KgOliveScarico.IsPositive()
	case "kg_olio_carico":
		return m.KgOlioCarico.IsPositive()
	case "kg_olio_scarico":
		return m.KgOlioScarico.IsPositive()
	case "articolo_inizio":
		return m.IDArticoloInizio != 0
	case "articolo_fine":
		return m.IDArticoloFine != 0
	case "categoria":
		return m.Categoria != ""
	case "data_molitura":
		return !m.DataMolitura.IsZero()
	}
	return false
}
