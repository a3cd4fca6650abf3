package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/oleotech/frantoio-api/internal/domain/repository"
)

var _ repository.ContatoreRepository = (*ContatoreRepo)(nil)

// ContatoreRepo emette il progressivo per (stabilimento, giorno) su PostgreSQL.
type ContatoreRepo struct {
	q   Querier
	tab Tabelle
}

// NewContatoreRepository costruisce l'adapter. Passare pool o tx (Querier).
func NewContatoreRepository(q Querier, tab Tabelle) *ContatoreRepo {
	return &ContatoreRepo{q: q, tab: tab}
}

// Prossimo alloca il prossimo progressivo con un singolo upsert atomico:
// la prima allocazione per la chiave inserisce 1, le successive incrementano.
// Niente read-then-write applicativo, quindi niente duplicati sotto richieste
// concorrenti per lo stesso stabilimento/giorno. L'errore di storage si
// propaga: il fallback silenzioso a 1 del registro storico mascherava il
// rischio di progressivi duplicati.
func (r *ContatoreRepo) Prossimo(codStabilimento int, giorno time.Time) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (cod_stabilimento, giorno, ultimo)
		VALUES ($1, $2, 1)
		ON CONFLICT (cod_stabilimento, giorno)
		DO UPDATE SET ultimo = %s.ultimo + 1
		RETURNING ultimo`, r.tab.Contatori, r.tab.Contatori)

	data := time.Date(giorno.Year(), giorno.Month(), giorno.Day(), 0, 0, 0, 0, time.UTC)
	var ultimo int64
	if err := r.q.QueryRow(context.Background(), query, codStabilimento, data).Scan(&ultimo); err != nil {
		return 0, fmt.Errorf("allocazione progressivo (%d, %s): %w", codStabilimento, data.Format("2006-01-02"), err)
	}
	return ultimo, nil
}
