// Package sian contiene la parte di dominio del registro telematico:
// la tabella di traduzione campo semantico -> slot posizionale CAMPOnn
// e la validazione regolatoria dei movimenti.
//
// Il tracciato storico usa 49 slot generici per movimento; il resto del
// codice lavora sui campi semantici di entity.Movimento e solo questa
// tabella conosce la posizione di ciascuno. Gli slot non mappati vengono
// comunque resi (vuoti) perché lo schema li prevede tutti.
package sian

import (
	"fmt"
	"strconv"

	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/pkg/sian"
)

// NumCampi è il numero di slot posizionali per movimento previsti dal tracciato.
const NumCampi = 49

// Posizione nel tracciato di ciascun campo semantico.
const (
	CampoCodiceFiscale     = 1  // CUAA dell'azienda esercente
	CampoStabilimento      = 2  // codice SIAN dello stabilimento
	CampoProgressivo       = 3  // numero d'ordine per (stabilimento, giorno)
	CampoDataOperazione    = 4  // AAAAMMGG
	CampoNumDocumento      = 5  //
	CampoDataDocumento     = 6  // AAAAMMGG
	CampoCodOperazione     = 7  // token operazione
	CampoControparte       = 8  // codice SIAN soggetto controparte
	CampoCommittente       = 9  // codice SIAN committente
	CampoKgOliveCarico     = 10 // importo ×100
	CampoKgOliveScarico    = 11 // importo ×100
	CampoKgOlioCarico      = 12 // importo ×100
	CampoKgOlioScarico     = 13 // importo ×100
	CampoMacroarea         = 20 //
	CampoOrigineSpecifica  = 21 // descrizioni separate da spazio
	CampoCategoria         = 22 //
	CampoFlagBio           = 23 // "S"/"N"
	CampoFlagDopIgp        = 24 // "S"/"N"
	CampoFlagOrigine       = 25 // "S"/"N"
	CampoDataRaccolta      = 26 // AAAAMMGGHHMM
	CampoDescrizione       = 40 //
	CampoDataOraOperazione = 41 // AAAAMMGGHHMM
	CampoDataMolitura      = 42 // AAAAMMGGHHMM
	CampoArticoloInizio    = 43 // id articolo di partenza
	CampoArticoloFine      = 44 // id articolo di arrivo
)

// NomeCampo restituisce il tag posizionale del tracciato ("CAMPO01".."CAMPO49").
func NomeCampo(indice int) string {
	return fmt.Sprintf("CAMPO%02d", indice)
}

// ValoriCampi proietta un movimento sugli slot posizionali del tracciato,
// già formattati secondo i formati SIAN. Gli slot assenti dalla mappa vanno
// resi come elementi vuoti.
func ValoriCampi(m *entity.Movimento) map[int]string {
	v := map[int]string{
		CampoCodiceFiscale:     m.CodiceFiscale,
		CampoProgressivo:       formatIntero(m.Progressivo),
		CampoDataOperazione:    sian.FormatData(m.DataOperazione),
		CampoNumDocumento:      m.NumDocumento,
		CampoDataDocumento:     sian.FormatData(m.DataDocumento),
		CampoCodOperazione:     m.CodOperazione,
		CampoControparte:       m.CodSianControparte,
		CampoCommittente:       m.CodSianCommittente,
		CampoKgOliveCarico:     sian.FormatImporto(m.KgOliveCarico),
		CampoKgOliveScarico:    sian.FormatImporto(m.KgOliveScarico),
		CampoKgOlioCarico:      sian.FormatImporto(m.KgOlioCarico),
		CampoKgOlioScarico:     sian.FormatImporto(m.KgOlioScarico),
		CampoMacroarea:         m.Macroarea,
		CampoOrigineSpecifica:  m.OrigineSpecifica,
		CampoCategoria:         m.Categoria,
		CampoFlagBio:           m.FlagBio,
		CampoFlagDopIgp:        m.FlagDopIgp,
		CampoFlagOrigine:       m.FlagOrigine,
		CampoDataRaccolta:      sian.FormatDataOra(m.DataRaccolta),
		CampoDescrizione:       m.Descrizione,
		CampoDataOraOperazione: sian.FormatDataOra(m.DataOraOperazione),
		CampoDataMolitura:      sian.FormatDataOra(m.DataMolitura),
		CampoArticoloInizio:    formatIntero(m.IDArticoloInizio),
		CampoArticoloFine:      formatIntero(m.IDArticoloFine),
	}
	// Lo stabilimento 0 è il sentinel "nessuno stabilimento risolto": nel
	// tracciato viene reso come slot vuoto, come faceva il registro storico.
	if m.CodStabilimento != 0 {
		v[CampoStabilimento] = strconv.Itoa(m.CodStabilimento)
	}
	return v
}

func formatIntero(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
