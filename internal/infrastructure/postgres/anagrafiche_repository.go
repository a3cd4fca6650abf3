package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
)

var _ repository.ArticoloRepository = (*ArticoloRepo)(nil)
var _ repository.SoggettoRepository = (*SoggettoRepo)(nil)
var _ repository.OrigineRepository = (*OrigineRepo)(nil)

// ArticoloRepo anagrafica articoli su PostgreSQL, sola lettura per il core.
type ArticoloRepo struct {
	q   Querier
	tab Tabelle
}

// NewArticoloRepository costruisce l'adapter. Passare pool o tx (Querier).
func NewArticoloRepository(q Querier, tab Tabelle) *ArticoloRepo {
	return &ArticoloRepo{q: q, tab: tab}
}

// GetByID restituisce l'articolo o nil se non esiste.
func (r *ArticoloRepo) GetByID(id int64) (*entity.Articolo, error) {
	query := fmt.Sprintf(`
		SELECT id, descrizione, tipo, categoria, macroarea, origine, flag_bio, flag_dop_igp, flag_origine
		FROM %s WHERE id = $1`, r.tab.Articoli)
	var a entity.Articolo
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.Descrizione, &a.Tipo, &a.Categoria, &a.Macroarea, &a.Origine,
		&a.FlagBio, &a.FlagDopIgp, &a.FlagOrigine,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lettura articolo: %w", err)
	}
	return &a, nil
}

// List elenca gli articoli del tenant.
func (r *ArticoloRepo) List() ([]*entity.Articolo, error) {
	query := fmt.Sprintf(`
		SELECT id, descrizione, tipo, categoria, macroarea, origine, flag_bio, flag_dop_igp, flag_origine
		FROM %s ORDER BY descrizione`, r.tab.Articoli)
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("elenco articoli: %w", err)
	}
	defer rows.Close()
	var list []*entity.Articolo
	for rows.Next() {
		var a entity.Articolo
		if err := rows.Scan(&a.ID, &a.Descrizione, &a.Tipo, &a.Categoria, &a.Macroarea,
			&a.Origine, &a.FlagBio, &a.FlagDopIgp, &a.FlagOrigine); err != nil {
			return nil, fmt.Errorf("scan articolo: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// SoggettoRepo anagrafica soggetti su PostgreSQL, sola lettura per il core.
type SoggettoRepo struct {
	q   Querier
	tab Tabelle
}

// NewSoggettoRepository costruisce l'adapter. Passare pool o tx (Querier).
func NewSoggettoRepository(q Querier, tab Tabelle) *SoggettoRepo {
	return &SoggettoRepo{q: q, tab: tab}
}

// GetByID restituisce il soggetto o nil se non esiste.
func (r *SoggettoRepo) GetByID(id int64) (*entity.Soggetto, error) {
	query := fmt.Sprintf(`
		SELECT id, descrizione, codice_fiscale, cod_sian
		FROM %s WHERE id = $1`, r.tab.Soggetti)
	var s entity.Soggetto
	err := r.q.QueryRow(context.Background(), query, id).Scan(&s.ID, &s.Descrizione, &s.CodiceFiscale, &s.CodSian)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lettura soggetto: %w", err)
	}
	return &s, nil
}

// List elenca i soggetti del tenant.
func (r *SoggettoRepo) List() ([]*entity.Soggetto, error) {
	query := fmt.Sprintf(`
		SELECT id, descrizione, codice_fiscale, cod_sian
		FROM %s ORDER BY descrizione`, r.tab.Soggetti)
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("elenco soggetti: %w", err)
	}
	defer rows.Close()
	var list []*entity.Soggetto
	for rows.Next() {
		var s entity.Soggetto
		if err := rows.Scan(&s.ID, &s.Descrizione, &s.CodiceFiscale, &s.CodSian); err != nil {
			return nil, fmt.Errorf("scan soggetto: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// OrigineRepo anagrafica origini specifiche su PostgreSQL.
type OrigineRepo struct {
	q   Querier
	tab Tabelle
}

// NewOrigineRepository costruisce l'adapter. Passare pool o tx (Querier).
func NewOrigineRepository(q Querier, tab Tabelle) *OrigineRepo {
	return &OrigineRepo{q: q, tab: tab}
}

// Descrizioni restituisce le descrizioni nell'ordine degli id richiesti,
// saltando gli id inesistenti (convenzione del tracciato: testo unito da spazi).
func (r *OrigineRepo) Descrizioni(ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT id, descrizione FROM %s WHERE id = ANY($1)`, r.tab.Origini)
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("lettura origini: %w", err)
	}
	defer rows.Close()
	perID := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var descrizione string
		if err := rows.Scan(&id, &descrizione); err != nil {
			return nil, fmt.Errorf("scan origine: %w", err)
		}
		perID[id] = descrizione
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var out []string
	for _, id := range ids {
		if d, ok := perID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}
