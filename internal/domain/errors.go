package domain

import "errors"

// Errori di dominio (senza dipendenze esterne).
var (
	ErrNonTrovato            = errors.New("risorsa non trovata")
	ErrInputNonValido        = errors.New("input non valido")
	ErrDuplicato             = errors.New("risorsa duplicata")
	ErrNonAutorizzato        = errors.New("non autorizzato")
	ErrVietato               = errors.New("accesso negato")
	ErrConflitto             = errors.New("conflitto con lo stato attuale")
	ErrGiacenzaInsufficiente = errors.New("giacenza insufficiente")
	ErrCapacitaSuperata      = errors.New("capacità della cisterna superata")
)
