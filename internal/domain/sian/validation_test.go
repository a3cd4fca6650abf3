package sian_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/sian"
)

func TestValidaMovimenti_MovimentoPulito(t *testing.T) {
	avvisi := sian.ValidaMovimenti([]*entity.Movimento{movimentoCompleto()})
	assert.Empty(t, avvisi, "un conferimento completo non deve produrre avvisi: %v", avvisi)
}

func TestValidaMovimenti_CampiComuniMancanti(t *testing.T) {
	m := movimentoCompleto()
	m.CodiceFiscale = ""
	m.Progressivo = 0
	avvisi := sian.ValidaMovimenti([]*entity.Movimento{m})

	assert.Len(t, avvisi, 2)
	assert.Contains(t, avvisi[0], "CAMPO01", "l'avviso deve citare lo slot del tracciato")
	assert.Contains(t, avvisi[1], "CAMPO03")
}

func TestValidaMovimenti_CodiceOperazioneSconosciuto(t *testing.T) {
	m := movimentoCompleto()
	m.CodOperazione = "XX"
	avvisi := sian.ValidaMovimenti([]*entity.Movimento{m})

	assert.Len(t, avvisi, 1)
	assert.Contains(t, avvisi[0], `"XX"`)
	assert.Contains(t, avvisi[0], "non riconosciuto")
}

func TestValidaMovimenti_SenzaCodiceOperazione_SiFerma(t *testing.T) {
	m := movimentoCompleto()
	m.CodOperazione = ""
	avvisi := sian.ValidaMovimenti([]*entity.Movimento{m})

	// Senza codice operazione i requisiti specifici non sono verificabili.
	assert.Len(t, avvisi, 1)
	assert.Contains(t, avvisi[0], "CAMPO07")
}

func TestValidaMovimenti_RequisitiPerOperazione(t *testing.T) {
	m := movimentoCompleto()
	m.CodOperazione = entity.CodOpMolituraProprio
	m.Categoria = ""
	m.IDArticoloFine = 0
	m.KgOlioCarico = decimal.Zero
	avvisi := sian.ValidaMovimenti([]*entity.Movimento{m})

	assert.Len(t, avvisi, 3)
	testo := ""
	for _, a := range avvisi {
		testo += a + "\n"
	}
	assert.Contains(t, testo, "kg_olio_carico")
	assert.Contains(t, testo, "articolo_fine")
	assert.Contains(t, testo, "categoria")
}

func TestValidaMovimenti_QuantitaNegativa(t *testing.T) {
	m := movimentoCompleto()
	m.KgOliveScarico = decimal.RequireFromString("-5")
	avvisi := sian.ValidaMovimenti([]*entity.Movimento{m})

	assert.Len(t, avvisi, 1)
	assert.Contains(t, avvisi[0], "quantità negativa")
	assert.Contains(t, avvisi[0], "kg_olive_scarico")
}

func TestValidaMovimenti_DataRaccoltaImplausibile(t *testing.T) {
	m := movimentoCompleto()
	// Raccolta due giorni dopo l'operazione: oltre la tolleranza di un giorno.
	m.DataRaccolta = m.DataOperazione.AddDate(0, 0, 2)
	avvisi := sian.ValidaMovimenti([]*entity.Movimento{m})

	assert.Len(t, avvisi, 1)
	assert.Contains(t, avvisi[0], "data raccolta")
}

func TestValidaMovimenti_RaccoltaStessoGiorno_Ammessa(t *testing.T) {
	m := movimentoCompleto()
	m.DataRaccolta = m.DataOperazione
	avvisi := sian.ValidaMovimenti([]*entity.Movimento{m})
	assert.Empty(t, avvisi, "raccolta nello stesso giorno dell'operazione è ammessa")
}

func TestValidaMovimenti_DocumentoSenzaData(t *testing.T) {
	m := movimentoCompleto()
	m.DataDocumento = time.Time{}
	avvisi := sian.ValidaMovimenti([]*entity.Movimento{m})

	assert.Len(t, avvisi, 1)
	assert.Contains(t, avvisi[0], "numero documento senza data documento")
}

func TestValidaMovimenti_PiuMovimenti_AvvisiAccumulati(t *testing.T) {
	pulito := movimentoCompleto()
	sporco := movimentoCompleto()
	sporco.ID = 8
	sporco.CodSianControparte = ""
	avvisi := sian.ValidaMovimenti([]*entity.Movimento{pulito, sporco})

	assert.Len(t, avvisi, 1)
	assert.Contains(t, avvisi[0], "movimento 8")
	assert.Contains(t, avvisi[0], "controparte")
}
