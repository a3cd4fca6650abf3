package repository

import "time"

// ContatoreRepository emette il progressivo per (stabilimento, giorno).
//
// Contratto: la prima allocazione per una chiave restituisce 1; ogni chiamata
// successiva per la stessa chiave restituisce il valore precedente + 1. La
// sequenza emessa è senza buchi e senza duplicati anche sotto richieste
// concorrenti: l'implementazione deve usare un singolo statement atomico di
// upsert-and-increment, mai read-then-write applicativo. Un errore di storage
// si propaga al chiamante e fa abortire la transazione che lo contiene.
type ContatoreRepository interface {
	Prossimo(codStabilimento int, giorno time.Time) (int64, error)
}
