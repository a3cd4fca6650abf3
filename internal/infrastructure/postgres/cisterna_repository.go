package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/oleotech/frantoio-api/internal/domain"
	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
)

var _ repository.CisternaRepository = (*CisternaRepo)(nil)

// CisternaRepo inventario cisterne su PostgreSQL (usabile con pool o tx).
type CisternaRepo struct {
	q   Querier
	tab Tabelle
}

// NewCisternaRepository costruisce l'adapter. Passare pool o tx (Querier).
func NewCisternaRepository(q Querier, tab Tabelle) *CisternaRepo {
	return &CisternaRepo{q: q, tab: tab}
}

// GetByID restituisce la cisterna o nil se non esiste.
func (r *CisternaRepo) GetByID(id int64) (*entity.Cisterna, error) {
	query := fmt.Sprintf(`
		SELECT id, descrizione, cod_stabilimento, capacita, giacenza, id_articolo, id_soggetto, aggiornata_il
		FROM %s WHERE id = $1`, r.tab.Cisterne)
	c, err := scanCisterna(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lettura cisterna: %w", err)
	}
	return c, nil
}

// List elenca le cisterne del tenant.
func (r *CisternaRepo) List() ([]*entity.Cisterna, error) {
	query := fmt.Sprintf(`
		SELECT id, descrizione, cod_stabilimento, capacita, giacenza, id_articolo, id_soggetto, aggiornata_il
		FROM %s ORDER BY id`, r.tab.Cisterne)
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("elenco cisterne: %w", err)
	}
	defer rows.Close()
	var list []*entity.Cisterna
	for rows.Next() {
		c, err := scanCisterna(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cisterna: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Carica incrementa la giacenza con un singolo statement atomico; la guardia
// in WHERE rifiuta giacenza negativa o oltre capacità. Va eseguita nella
// stessa transazione della molitura: l'incremento non legge mai la giacenza
// lato applicazione.
func (r *CisternaRepo) Carica(id int64, deltaKg decimal.Decimal, idArticolo int64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET giacenza = giacenza + $1, id_articolo = $2, aggiornata_il = now()
		WHERE id = $3 AND giacenza + $1 >= 0 AND giacenza + $1 <= capacita`, r.tab.Cisterne)
	tag, err := r.q.Exec(context.Background(), query, deltaKg, idArticolo, id)
	if err != nil {
		return fmt.Errorf("carico cisterna: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Nessuna riga toccata: distinguere cisterna inesistente da guardia violata.
	c, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: cisterna %d", domain.ErrNonTrovato, id)
	}
	if deltaKg.IsNegative() {
		return fmt.Errorf("%w: cisterna %d, giacenza %s, richiesto %s", domain.ErrGiacenzaInsufficiente, id, c.Giacenza, deltaKg.Neg())
	}
	return fmt.Errorf("%w: cisterna %d, giacenza %s + %s oltre capacità %s", domain.ErrCapacitaSuperata, id, c.Giacenza, deltaKg, c.Capacita)
}

func scanCisterna(row scannable) (*entity.Cisterna, error) {
	var c entity.Cisterna
	var idArticolo, idSoggetto *int64
	err := row.Scan(&c.ID, &c.Descrizione, &c.CodStabilimento, &c.Capacita, &c.Giacenza, &idArticolo, &idSoggetto, &c.AggiornataIl)
	if err != nil {
		return nil, err
	}
	c.IDArticolo = derefInt(idArticolo)
	c.IDSoggetto = derefInt(idSoggetto)
	return &c, nil
}
