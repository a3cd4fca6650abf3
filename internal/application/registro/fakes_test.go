package registro_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oleotech/frantoio-api/internal/application/registro"
	"github.com/oleotech/frantoio-api/internal/domain"
	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
	"github.com/oleotech/frantoio-api/pkg/logger"
)

// bancoProva è un backend in memoria che implementa registro.Repos e
// registro.TxRunner con semantica di rollback: se la funzione transazionale
// fallisce, lo stato torna allo snapshot precedente.
type bancoProva struct {
	movimenti    *memMovimenti
	contatori    *memContatori
	cisterne     *memCisterne
	articoli     map[int64]*entity.Articolo
	soggetti     map[int64]*entity.Soggetto
	origini      map[int64]string
	prenotazioni *memPrenotazioni
}

func nuovoBanco() *bancoProva {
	return &bancoProva{
		movimenti:    &memMovimenti{byID: map[int64]*entity.Movimento{}},
		contatori:    &memContatori{ultimi: map[string]int64{}},
		cisterne:     &memCisterne{byID: map[int64]*entity.Cisterna{}},
		articoli:     map[int64]*entity.Articolo{},
		soggetti:     map[int64]*entity.Soggetto{},
		origini:      map[int64]string{},
		prenotazioni: &memPrenotazioni{byID: map[int64]*entity.Prenotazione{}},
	}
}

func logProva() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// ── registro.TxRunner ────────────────────────────────────────────────────────

func (b *bancoProva) Esegui(_ context.Context, _ string, fn func(
	movRepo repository.MovimentoRepository,
	contatori repository.ContatoreRepository,
	cisterne repository.CisternaRepository,
) error) error {
	movSnap := b.movimenti.snapshot()
	contSnap := b.contatori.snapshot()
	cisSnap := b.cisterne.snapshot()
	if err := fn(b.movimenti, b.contatori, b.cisterne); err != nil {
		b.movimenti.ripristina(movSnap)
		b.contatori.ripristina(contSnap)
		b.cisterne.ripristina(cisSnap)
		return err
	}
	return nil
}

// ── registro.Repos ───────────────────────────────────────────────────────────

func (b *bancoProva) Movimenti(string) (repository.MovimentoRepository, error) {
	return b.movimenti, nil
}
func (b *bancoProva) Cisterne(string) (repository.CisternaRepository, error) {
	return b.cisterne, nil
}
func (b *bancoProva) Articoli(string) (repository.ArticoloRepository, error) {
	return anagraficaArticoli{b.articoli}, nil
}
func (b *bancoProva) Soggetti(string) (repository.SoggettoRepository, error) {
	return anagraficaSoggetti{b.soggetti}, nil
}
func (b *bancoProva) Origini(string) (repository.OrigineRepository, error) {
	return anagraficaOrigini{b.origini}, nil
}
func (b *bancoProva) Prenotazioni(string) (repository.PrenotazioneRepository, error) {
	return b.prenotazioni, nil
}
func (b *bancoProva) Esportazioni(string) (repository.EsportazioneRepository, error) {
	return nil, fmt.Errorf("non usato in questi test")
}

var _ registro.Repos = (*bancoProva)(nil)
var _ registro.TxRunner = (*bancoProva)(nil)

// ── movimenti ────────────────────────────────────────────────────────────────

type memMovimenti struct {
	byID         map[int64]*entity.Movimento
	prossimoID   int64
	erroreCreate error // iniettabile per i test di rollback
}

var _ repository.MovimentoRepository = (*memMovimenti)(nil)

func (r *memMovimenti) snapshot() map[int64]*entity.Movimento {
	snap := make(map[int64]*entity.Movimento, len(r.byID))
	for id, m := range r.byID {
		copia := *m
		snap[id] = &copia
	}
	return snap
}

func (r *memMovimenti) ripristina(snap map[int64]*entity.Movimento) {
	r.byID = snap
}

func (r *memMovimenti) Create(m *entity.Movimento) (int64, error) {
	if r.erroreCreate != nil {
		return 0, r.erroreCreate
	}
	r.prossimoID++
	copia := *m
	copia.ID = r.prossimoID
	r.byID[copia.ID] = &copia
	return copia.ID, nil
}

func (r *memMovimenti) GetByID(id int64) (*entity.Movimento, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	copia := *m
	return &copia, nil
}

func (r *memMovimenti) ListByIDs(ids []int64) ([]*entity.Movimento, error) {
	var out []*entity.Movimento
	for _, id := range ids {
		if m, ok := r.byID[id]; ok {
			copia := *m
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (r *memMovimenti) Search(f repository.FiltroMovimenti) ([]*entity.Movimento, error) {
	var out []*entity.Movimento
	for _, m := range r.byID {
		if f.CodOperazione != "" && m.CodOperazione != f.CodOperazione {
			continue
		}
		if f.SoloConferimenti && !m.Conferibile() {
			continue
		}
		copia := *m
		out = append(out, &copia)
	}
	return out, nil
}

func (r *memMovimenti) SetMolito(ids []int64) error {
	for _, id := range ids {
		if m, ok := r.byID[id]; ok {
			m.Molito = true
		}
	}
	return nil
}

func (r *memMovimenti) AggiornaMolitura(id int64, a repository.AggiornamentoMolitura) error {
	m, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: movimento %d", domain.ErrNonTrovato, id)
	}
	m.CodOperazione = a.CodOperazione
	m.KgOliveCarico = a.KgOliveCarico
	m.KgOlioCarico = a.KgOlioCarico
	m.DataMolitura = a.DataMolitura
	m.Descrizione = a.Descrizione
	if a.IDArticoloFine != 0 {
		m.IDArticoloFine = a.IDArticoloFine
	}
	m.Molito = true
	m.FlagMolitura = true
	return nil
}

func (r *memMovimenti) AggiornaMetadati(id int64, md repository.MetadatiMovimento) error {
	m, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: movimento %d", domain.ErrNonTrovato, id)
	}
	if md.Categoria != nil {
		m.Categoria = *md.Categoria
	}
	if md.Macroarea != nil {
		m.Macroarea = *md.Macroarea
	}
	if md.Origine != nil {
		m.OrigineSpecifica = *md.Origine
	}
	if md.FlagBio != nil {
		m.FlagBio = *md.FlagBio
	}
	if md.FlagDopIgp != nil {
		m.FlagDopIgp = *md.FlagDopIgp
	}
	if md.FlagOrigine != nil {
		m.FlagOrigine = *md.FlagOrigine
	}
	if md.DataRaccolta != nil {
		m.DataRaccolta = *md.DataRaccolta
	}
	return nil
}

func (r *memMovimenti) CollegaMolitura(ids []int64, idMolitura int64) error {
	for _, id := range ids {
		if m, ok := r.byID[id]; ok {
			m.IDMovimentoMolitura = idMolitura
		}
	}
	return nil
}

func (r *memMovimenti) SegnaGenerati(ids []int64, quando time.Time) error {
	for _, id := range ids {
		if m, ok := r.byID[id]; ok {
			m.Generato = true
			q := quando
			m.DataGenerazione = &q
		}
	}
	return nil
}

func (r *memMovimenti) SegnaInviati(ids []int64, quando time.Time) (int64, error) {
	var n int64
	for _, id := range ids {
		if m, ok := r.byID[id]; ok && !m.Inviato {
			m.Inviato = true
			q := quando
			m.DataInvio = &q
			n++
		}
	}
	return n, nil
}

func (r *memMovimenti) InviabiliPerData(giorno time.Time) ([]int64, error) {
	var ids []int64
	for id, m := range r.byID {
		if m.Generato && !m.Inviato && m.DataGenerazione != nil &&
			m.DataGenerazione.Year() == giorno.Year() && m.DataGenerazione.YearDay() == giorno.YearDay() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ── contatori ────────────────────────────────────────────────────────────────

type memContatori struct {
	mu     sync.Mutex
	ultimi map[string]int64
	errore error // iniettabile: il fallimento dell'allocatore è fatale
}

var _ repository.ContatoreRepository = (*memContatori)(nil)

func chiaveContatore(codStabilimento int, giorno time.Time) string {
	return fmt.Sprintf("%d|%s", codStabilimento, giorno.Format("20060102"))
}

func (r *memContatori) Prossimo(codStabilimento int, giorno time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errore != nil {
		return 0, r.errore
	}
	k := chiaveContatore(codStabilimento, giorno)
	r.ultimi[k]++
	return r.ultimi[k], nil
}

func (r *memContatori) snapshot() map[string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[string]int64, len(r.ultimi))
	for k, v := range r.ultimi {
		snap[k] = v
	}
	return snap
}

func (r *memContatori) ripristina(snap map[string]int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ultimi = snap
}

// ── cisterne ─────────────────────────────────────────────────────────────────

type memCisterne struct {
	byID map[int64]*entity.Cisterna
}

var _ repository.CisternaRepository = (*memCisterne)(nil)

func (r *memCisterne) snapshot() map[int64]*entity.Cisterna {
	snap := make(map[int64]*entity.Cisterna, len(r.byID))
	for id, c := range r.byID {
		copia := *c
		snap[id] = &copia
	}
	return snap
}

func (r *memCisterne) ripristina(snap map[int64]*entity.Cisterna) {
	r.byID = snap
}

func (r *memCisterne) GetByID(id int64) (*entity.Cisterna, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	copia := *c
	return &copia, nil
}

func (r *memCisterne) List() ([]*entity.Cisterna, error) {
	var out []*entity.Cisterna
	for _, c := range r.byID {
		copia := *c
		out = append(out, &copia)
	}
	return out, nil
}

func (r *memCisterne) Carica(id int64, deltaKg decimal.Decimal, idArticolo int64) error {
	c, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: cisterna %d", domain.ErrNonTrovato, id)
	}
	nuova := c.Giacenza.Add(deltaKg)
	if nuova.IsNegative() {
		return fmt.Errorf("%w: cisterna %d", domain.ErrGiacenzaInsufficiente, id)
	}
	if nuova.GreaterThan(c.Capacita) {
		return fmt.Errorf("%w: cisterna %d", domain.ErrCapacitaSuperata, id)
	}
	c.Giacenza = nuova
	c.IDArticolo = idArticolo
	return nil
}

// ── anagrafiche ──────────────────────────────────────────────────────────────

type anagraficaArticoli struct{ byID map[int64]*entity.Articolo }

func (a anagraficaArticoli) GetByID(id int64) (*entity.Articolo, error) {
	art, ok := a.byID[id]
	if !ok {
		return nil, nil
	}
	copia := *art
	return &copia, nil
}

func (a anagraficaArticoli) List() ([]*entity.Articolo, error) {
	var out []*entity.Articolo
	for _, art := range a.byID {
		copia := *art
		out = append(out, &copia)
	}
	return out, nil
}

type anagraficaSoggetti struct{ byID map[int64]*entity.Soggetto }

func (a anagraficaSoggetti) GetByID(id int64) (*entity.Soggetto, error) {
	s, ok := a.byID[id]
	if !ok {
		return nil, nil
	}
	copia := *s
	return &copia, nil
}

func (a anagraficaSoggetti) List() ([]*entity.Soggetto, error) {
	var out []*entity.Soggetto
	for _, s := range a.byID {
		copia := *s
		out = append(out, &copia)
	}
	return out, nil
}

type anagraficaOrigini struct{ descrizioni map[int64]string }

func (a anagraficaOrigini) Descrizioni(ids []int64) ([]string, error) {
	var out []string
	for _, id := range ids {
		if d, ok := a.descrizioni[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

type memPrenotazioni struct {
	byID         map[int64]*entity.Prenotazione
	erroreChiudi error
}

var _ repository.PrenotazioneRepository = (*memPrenotazioni)(nil)

func (r *memPrenotazioni) GetByID(id int64) (*entity.Prenotazione, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	copia := *p
	return &copia, nil
}

func (r *memPrenotazioni) Chiudi(id int64, idMovimento int64) error {
	if r.erroreChiudi != nil {
		return r.erroreChiudi
	}
	p, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: prenotazione %d", domain.ErrNonTrovato, id)
	}
	p.Chiusa = true
	p.IDMovimento = idMovimento
	return nil
}
