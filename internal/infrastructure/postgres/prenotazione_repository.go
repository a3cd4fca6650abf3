package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oleotech/frantoio-api/internal/domain"
	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
)

var _ repository.PrenotazioneRepository = (*PrenotazioneRepo)(nil)

// PrenotazioneRepo calendario conferimenti su PostgreSQL. Il core effettua
// solo letture e la chiusura best-effort.
type PrenotazioneRepo struct {
	q   Querier
	tab Tabelle
}

// NewPrenotazioneRepository costruisce l'adapter. Passare pool o tx (Querier).
func NewPrenotazioneRepository(q Querier, tab Tabelle) *PrenotazioneRepo {
	return &PrenotazioneRepo{q: q, tab: tab}
}

// GetByID restituisce la prenotazione o nil se non esiste.
func (r *PrenotazioneRepo) GetByID(id int64) (*entity.Prenotazione, error) {
	query := fmt.Sprintf(`
		SELECT id, id_soggetto, data_prevista, chiusa, id_movimento
		FROM %s WHERE id = $1`, r.tab.Prenotazioni)
	var p entity.Prenotazione
	var idMovimento *int64
	err := r.q.QueryRow(context.Background(), query, id).Scan(&p.ID, &p.IDSoggetto, &p.DataPrevista, &p.Chiusa, &idMovimento)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lettura prenotazione: %w", err)
	}
	p.IDMovimento = derefInt(idMovimento)
	return &p, nil
}

// Chiudi marca la prenotazione chiusa e collegata al conferimento registrato.
func (r *PrenotazioneRepo) Chiudi(id int64, idMovimento int64) error {
	query := fmt.Sprintf(`UPDATE %s SET chiusa = TRUE, id_movimento = $1 WHERE id = $2`, r.tab.Prenotazioni)
	tag, err := r.q.Exec(context.Background(), query, idMovimento, id)
	if err != nil {
		return fmt.Errorf("chiusura prenotazione: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: prenotazione %d", domain.ErrNonTrovato, id)
	}
	return nil
}
