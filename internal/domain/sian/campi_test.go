package sian_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/sian"
)

func movimentoCompleto() *entity.Movimento {
	return &entity.Movimento{
		ID:                 7,
		CodiceFiscale:      "01234567890",
		CodStabilimento:    42,
		Progressivo:        3,
		DataOperazione:     time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		NumDocumento:       "DDT-18",
		DataDocumento:      time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
		CodOperazione:      entity.CodOpConferimento,
		CodSianControparte: "SIAN001",
		CodSianCommittente: "SIAN002",
		KgOliveCarico:      decimal.RequireFromString("1250.50"),
		Macroarea:          "IT",
		OrigineSpecifica:   "Umbria Toscana",
		Categoria:          "EVO",
		FlagBio:            "S",
		FlagDopIgp:         "N",
		FlagOrigine:        "S",
		DataRaccolta:       time.Date(2025, 11, 1, 8, 15, 0, 0, time.UTC),
		DataOraOperazione:  time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC),
		Descrizione:        "conferimento frantoio",
		IDArticoloInizio:   9,
	}
}

func TestNomeCampo_ZeroPadding(t *testing.T) {
	assert.Equal(t, "CAMPO01", sian.NomeCampo(1))
	assert.Equal(t, "CAMPO09", sian.NomeCampo(9))
	assert.Equal(t, "CAMPO10", sian.NomeCampo(10))
	assert.Equal(t, "CAMPO49", sian.NomeCampo(sian.NumCampi))
}

func TestValoriCampi_IndiciDentroIlTracciato(t *testing.T) {
	v := sian.ValoriCampi(movimentoCompleto())
	for indice := range v {
		assert.GreaterOrEqual(t, indice, 1, "indice slot fuori tracciato")
		assert.LessOrEqual(t, indice, sian.NumCampi, "indice slot fuori tracciato")
	}
}

func TestValoriCampi_ProiezioneCompleta(t *testing.T) {
	m := movimentoCompleto()
	v := sian.ValoriCampi(m)

	assert.Equal(t, "01234567890", v[sian.CampoCodiceFiscale])
	assert.Equal(t, "42", v[sian.CampoStabilimento])
	assert.Equal(t, "3", v[sian.CampoProgressivo])
	assert.Equal(t, "20251103", v[sian.CampoDataOperazione])
	assert.Equal(t, "DDT-18", v[sian.CampoNumDocumento])
	assert.Equal(t, "20251102", v[sian.CampoDataDocumento])
	assert.Equal(t, entity.CodOpConferimento, v[sian.CampoCodOperazione])
	assert.Equal(t, "SIAN001", v[sian.CampoControparte])
	assert.Equal(t, "SIAN002", v[sian.CampoCommittente])
	assert.Equal(t, "125050", v[sian.CampoKgOliveCarico], "quantità in centesimi")
	assert.Equal(t, "", v[sian.CampoKgOlioCarico], "quantità zero resa vuota")
	assert.Equal(t, "Umbria Toscana", v[sian.CampoOrigineSpecifica])
	assert.Equal(t, "S", v[sian.CampoFlagBio])
	assert.Equal(t, "202511010815", v[sian.CampoDataRaccolta])
	assert.Equal(t, "202511031430", v[sian.CampoDataOraOperazione])
	assert.Equal(t, "9", v[sian.CampoArticoloInizio])
	assert.Equal(t, "", v[sian.CampoArticoloFine], "articolo assente reso vuoto")
}

func TestValoriCampi_StabilimentoSentinella(t *testing.T) {
	m := movimentoCompleto()
	m.CodStabilimento = 0
	v := sian.ValoriCampi(m)
	_, presente := v[sian.CampoStabilimento]
	assert.False(t, presente, "lo stabilimento 0 va reso come slot vuoto")
}
