package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oleotech/frantoio-api/internal/domain"
	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
)

var _ repository.EsportazioneRepository = (*EsportazioneRepo)(nil)

// EsportazioneRepo anagrafe dei file di registro generati, su PostgreSQL.
type EsportazioneRepo struct {
	q   Querier
	tab Tabelle
}

// NewEsportazioneRepository costruisce l'adapter. Passare pool o tx (Querier).
func NewEsportazioneRepository(q Querier, tab Tabelle) *EsportazioneRepo {
	return &EsportazioneRepo{q: q, tab: tab}
}

// Create registra il batch di export. Il nome file è univoco per tenant.
func (r *EsportazioneRepo) Create(e *entity.Esportazione) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, nome_file, id_movimenti, creata_il, inviata)
		VALUES ($1, $2, $3, $4, FALSE)`, r.tab.Esportazioni)
	_, err := r.q.Exec(context.Background(), query, e.ID, e.NomeFile, e.IDMovimenti, e.CreataIl)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: file %s", domain.ErrDuplicato, e.NomeFile)
		}
		return fmt.Errorf("registrazione esportazione: %w", err)
	}
	return nil
}

// GetByNomeFile restituisce il batch o nil se non esiste.
func (r *EsportazioneRepo) GetByNomeFile(nome string) (*entity.Esportazione, error) {
	query := fmt.Sprintf(`
		SELECT id, nome_file, id_movimenti, creata_il, inviata, data_invio
		FROM %s WHERE nome_file = $1`, r.tab.Esportazioni)
	var e entity.Esportazione
	err := r.q.QueryRow(context.Background(), query, nome).Scan(
		&e.ID, &e.NomeFile, &e.IDMovimenti, &e.CreataIl, &e.Inviata, &e.DataInvio,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lettura esportazione: %w", err)
	}
	return &e, nil
}

// List elenca i batch dal più recente.
func (r *EsportazioneRepo) List() ([]*entity.Esportazione, error) {
	query := fmt.Sprintf(`
		SELECT id, nome_file, id_movimenti, creata_il, inviata, data_invio
		FROM %s ORDER BY creata_il DESC`, r.tab.Esportazioni)
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("elenco esportazioni: %w", err)
	}
	defer rows.Close()
	var list []*entity.Esportazione
	for rows.Next() {
		var e entity.Esportazione
		if err := rows.Scan(&e.ID, &e.NomeFile, &e.IDMovimenti, &e.CreataIl, &e.Inviata, &e.DataInvio); err != nil {
			return nil, fmt.Errorf("scan esportazione: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// SegnaInviata marca il batch come comunicato al SIAN.
func (r *EsportazioneRepo) SegnaInviata(nome string, quando time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET inviata = TRUE, data_invio = $1 WHERE nome_file = $2`, r.tab.Esportazioni)
	tag, err := r.q.Exec(context.Background(), query, quando, nome)
	if err != nil {
		return fmt.Errorf("marcatura esportazione: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: file %s", domain.ErrNonTrovato, nome)
	}
	return nil
}
