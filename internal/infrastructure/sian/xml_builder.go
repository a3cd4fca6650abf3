// Package sian contiene gli adapter verso il registro telematico: la
// serializzazione XML del tracciato e lo store dei file generati.
package sian

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/oleotech/frantoio-api/internal/application/export"
	"github.com/oleotech/frantoio-api/internal/domain/entity"
	domsian "github.com/oleotech/frantoio-api/internal/domain/sian"
	pksian "github.com/oleotech/frantoio-api/pkg/sian"
)

// Ensure XMLBuilder implements export.Builder.
var _ export.Builder = (*XMLBuilder)(nil)

// Nome degli elementi del tracciato.
const (
	elemRadice       = "RegistroTelematico"
	elemIntestazione = "Intestazione"
	elemMovimento    = "Movimento"
)

// XMLBuilder serializza i movimenti nel tracciato XML del registro.
// Ogni movimento rende tutti i 49 slot posizionali, nell'ordine del
// tracciato, anche quando vuoti.
type XMLBuilder struct{}

// NewXMLBuilder crea il builder.
func NewXMLBuilder() *XMLBuilder {
	return &XMLBuilder{}
}

// Costruisci genera il documento XML con intestazione e un elemento
// Movimento per riga.
func (b *XMLBuilder) Costruisci(intestazione export.Intestazione, movimenti []*entity.Movimento) ([]byte, error) {
	if intestazione.CodiceFiscale == "" {
		return nil, fmt.Errorf("sian: codice fiscale mancante nell'intestazione")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(elemRadice)

	testa := root.CreateElement(elemIntestazione)
	testa.CreateElement("SoftwareId").SetText(intestazione.SoftwareID)
	testa.CreateElement("Versione").SetText(intestazione.Versione)
	testa.CreateElement("DataGenerazione").SetText(pksian.FormatData(intestazione.GenerataIl))
	testa.CreateElement("OraGenerazione").SetText(pksian.FormatOra(intestazione.GenerataIl))
	testa.CreateElement("CodiceFiscale").SetText(intestazione.CodiceFiscale)
	testa.CreateElement("DenominazioneSocieta").SetText(intestazione.Denominazione)

	for _, m := range movimenti {
		if m == nil {
			continue
		}
		el := root.CreateElement(elemMovimento)
		valori := domsian.ValoriCampi(m)
		for i := 1; i <= domsian.NumCampi; i++ {
			// Anche gli slot non valorizzati vanno resi: lo schema li prevede tutti.
			el.CreateElement(domsian.NomeCampo(i)).SetText(valori[i])
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("sian: serializzazione XML: %w", err)
	}
	return out, nil
}
