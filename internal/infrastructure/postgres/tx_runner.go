package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oleotech/frantoio-api/internal/application/export"
	"github.com/oleotech/frantoio-api/internal/application/registro"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
)

// Ensure TxRunner implements registro.TxRunner and export.TxRunner.
var _ registro.TxRunner = (*TxRunner)(nil)
var _ export.TxRunner = (*TxRunner)(nil)

// TxRunner esegue callback dentro una transazione PostgreSQL con repository
// legati alla tx e alle tabelle del tenant.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner costruisce il runner con il pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Esegui apre una transazione, esegue fn con i repository del registro legati
// alla tx e fa Commit o Rollback.
func (r *TxRunner) Esegui(ctx context.Context, tenant string, fn func(
	movRepo repository.MovimentoRepository,
	contatori repository.ContatoreRepository,
	cisterne repository.CisternaRepository,
) error) error {
	tab, err := TabelleTenant(tenant)
	if err != nil {
		return err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovimentoRepository(tx, tab)
	contatori := NewContatoreRepository(tx, tab)
	cisterne := NewCisternaRepository(tx, tab)

	if err := fn(movRepo, contatori, cisterne); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// EseguiExport apre una transazione con i repository dell'export (movimenti e
// anagrafe dei batch) e fa Commit o Rollback.
func (r *TxRunner) EseguiExport(ctx context.Context, tenant string, fn func(
	movRepo repository.MovimentoRepository,
	espRepo repository.EsportazioneRepository,
) error) error {
	tab, err := TabelleTenant(tenant)
	if err != nil {
		return err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovimentoRepository(tx, tab)
	espRepo := NewEsportazioneRepository(tx, tab)

	if err := fn(movRepo, espRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

var _ registro.Repos = (*Repos)(nil)

// Repos fabbrica di repository legati al pool, fuori transazione.
type Repos struct {
	pool *pgxpool.Pool
}

// NewRepos costruisce la fabbrica con il pool.
func NewRepos(pool *pgxpool.Pool) *Repos {
	return &Repos{pool: pool}
}

func (r *Repos) Movimenti(tenant string) (repository.MovimentoRepository, error) {
	tab, err := TabelleTenant(tenant)
	if err != nil {
		return nil, err
	}
	return NewMovimentoRepository(r.pool, tab), nil
}

func (r *Repos) Cisterne(tenant string) (repository.CisternaRepository, error) {
	tab, err := TabelleTenant(tenant)
	if err != nil {
		return nil, err
	}
	return NewCisternaRepository(r.pool, tab), nil
}

func (r *Repos) Articoli(tenant string) (repository.ArticoloRepository, error) {
	tab, err := TabelleTenant(tenant)
	if err != nil {
		return nil, err
	}
	return NewArticoloRepository(r.pool, tab), nil
}

func (r *Repos) Soggetti(tenant string) (repository.SoggettoRepository, error) {
	tab, err := TabelleTenant(tenant)
	if err != nil {
		return nil, err
	}
	return NewSoggettoRepository(r.pool, tab), nil
}

func (r *Repos) Origini(tenant string) (repository.OrigineRepository, error) {
	tab, err := TabelleTenant(tenant)
	if err != nil {
		return nil, err
	}
	return NewOrigineRepository(r.pool, tab), nil
}

func (r *Repos) Prenotazioni(tenant string) (repository.PrenotazioneRepository, error) {
	tab, err := TabelleTenant(tenant)
	if err != nil {
		return nil, err
	}
	return NewPrenotazioneRepository(r.pool, tab), nil
}

func (r *Repos) Esportazioni(tenant string) (repository.EsportazioneRepository, error) {
	tab, err := TabelleTenant(tenant)
	if err != nil {
		return nil, err
	}
	return NewEsportazioneRepository(r.pool, tab), nil
}
