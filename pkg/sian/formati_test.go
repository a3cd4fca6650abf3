package sian_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleotech/frantoio-api/pkg/sian"
)

func TestFormatData(t *testing.T) {
	giorno := time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "20251103", sian.FormatData(giorno))
	assert.Equal(t, "", sian.FormatData(time.Time{}), "il valore zero va reso vuoto")
}

func TestFormatDataOra_GranularitaMinuto(t *testing.T) {
	istante := time.Date(2025, 11, 3, 14, 30, 59, 123456, time.UTC)
	// I secondi vengono troncati: il tracciato prevede solo ora e minuto.
	assert.Equal(t, "202511031430", sian.FormatDataOra(istante))
	assert.Equal(t, "", sian.FormatDataOra(time.Time{}))
}

func TestParseData_RoundTrip(t *testing.T) {
	giorno, err := sian.ParseData("20251103")
	require.NoError(t, err)
	assert.Equal(t, 2025, giorno.Year())
	assert.Equal(t, time.November, giorno.Month())
	assert.Equal(t, 3, giorno.Day())
	assert.Equal(t, "20251103", sian.FormatData(giorno))
}

func TestParseData_Invalida(t *testing.T) {
	_, err := sian.ParseData("2025-11-03")
	assert.Error(t, err)
	_, err = sian.ParseData("20251399")
	assert.Error(t, err)
}

func TestParseDataOra_RoundTrip(t *testing.T) {
	istante, err := sian.ParseDataOra("202511031430")
	require.NoError(t, err)
	assert.Equal(t, 14, istante.Hour())
	assert.Equal(t, 30, istante.Minute())
	assert.Equal(t, "202511031430", sian.FormatDataOra(istante))
}

func TestFormatImporto_Centesimi(t *testing.T) {
	// Gli importi viaggiano come interi ×100: 1234.56 kg -> "123456".
	assert.Equal(t, "123456", sian.FormatImporto(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "10050", sian.FormatImporto(decimal.RequireFromString("100.5")))
	assert.Equal(t, "100", sian.FormatImporto(decimal.NewFromInt(1)))
}

func TestFormatImporto_ZeroVuoto(t *testing.T) {
	assert.Equal(t, "", sian.FormatImporto(decimal.Zero), "lo zero va reso come slot vuoto")
}

func TestFormatImporto_Arrotondamento(t *testing.T) {
	// Oltre il centesimo si arrotonda, non si tronca.
	assert.Equal(t, "123", sian.FormatImporto(decimal.RequireFromString("1.229")))
	assert.Equal(t, "122", sian.FormatImporto(decimal.RequireFromString("1.221")))
}

func TestParseImporto(t *testing.T) {
	d, err := sian.ParseImporto("123456")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("1234.56")), "atteso 1234.56, ottenuto %s", d)

	_, err = sian.ParseImporto("12.34")
	assert.Error(t, err, "l'importo del tracciato è un intero")
}

func TestFormatFlag(t *testing.T) {
	assert.Equal(t, "S", sian.FormatFlag(true))
	assert.Equal(t, "N", sian.FormatFlag(false))
}
