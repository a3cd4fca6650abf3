// Package sian contiene i formati di tracciato del registro telematico SIAN
// per gli oli di oliva: date, date/ora, importi e flag a carattere singolo.
// Tutta la compatibilità di formato verso il SIAN passa da qui.
package sian

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Layout del tracciato SIAN.
const (
	LayoutData    = "20060102"     // AAAAMMGG
	LayoutDataOra = "200601021504" // AAAAMMGGHHMM (granularità al minuto)
	LayoutOra     = "1504"         // HHMM

	// Flag a carattere singolo ("S"/"N") del tracciato.
	FlagSi = "S"
	FlagNo = "N"
)

// FormatData formatta una data come AAAAMMGG. Zero value -> stringa vuota
// (il tracciato prevede l'elemento presente ma vuoto).
func FormatData(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LayoutData)
}

// FormatDataOra formatta un istante come AAAAMMGGHHMM. Zero value -> stringa vuota.
func FormatDataOra(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LayoutDataOra)
}

// FormatOra formatta la sola ora come HHMM.
func FormatOra(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LayoutOra)
}

// ParseData interpreta una data AAAAMMGG del tracciato.
func ParseData(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(LayoutData, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sian: data %q non valida: %w", s, err)
	}
	return t, nil
}

// ParseDataOra interpreta un istante AAAAMMGGHHMM del tracciato.
func ParseDataOra(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(LayoutDataOra, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sian: data/ora %q non valida: %w", s, err)
	}
	return t, nil
}

// FormatImporto rende una quantità nel formato SIAN: intero pari al valore
// moltiplicato per 100, senza separatore decimale (123.45 kg -> "12345").
// Quantità zero -> stringa vuota: nei campi numerici del tracciato lo zero
// equivale a "non indicato".
func FormatImporto(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.Shift(2).Round(0).String()
}

// ParseImporto interpreta un importo del tracciato (intero ×100) in kg.
func ParseImporto(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sian: importo %q non valido: %w", s, err)
	}
	if !d.IsInteger() {
		return decimal.Zero, fmt.Errorf("sian: importo %q non valido: atteso intero in centesimi", s)
	}
	return d.Shift(-2), nil
}

// FormatFlag converte un booleano nel flag "S"/"N" del tracciato.
func FormatFlag(b bool) string {
	if b {
		return FlagSi
	}
	return FlagNo
}
