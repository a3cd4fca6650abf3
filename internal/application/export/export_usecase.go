package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oleotech/frantoio-api/internal/application/dto"
	"github.com/oleotech/frantoio-api/internal/application/registro"
	"github.com/oleotech/frantoio-api/internal/domain"
	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
	sianvalid "github.com/oleotech/frantoio-api/internal/domain/sian"
	"github.com/oleotech/frantoio-api/pkg/logger"
)

// Config parametri regolatori dell'export.
type Config struct {
	CodiceFiscale string // CUAA dell'azienda esercente
	Denominazione string
	SoftwareID    string
	Versione      string
	PrefissoFile  string
	// InferenzaData abilita il fallback degradato di "segna inviato": senza id
	// espliciti né batch registrato, i movimenti candidati vengono dedotti
	// dalla data incorporata nel nome file.
	InferenzaData bool
}

// UseCase gestisce il ciclo di export del registro: generazione del file XML,
// marcatura "generato", marcatura "inviato" con copia di audit, elenco e
// download dei file del tenant.
type UseCase struct {
	txRunner TxRunner
	repos    registro.Repos
	builder  Builder
	store    FileStore
	cfg      Config
	log      *logger.Logger
}

// NewUseCase costruisce il caso d'uso.
func NewUseCase(txRunner TxRunner, repos registro.Repos, builder Builder, store FileStore, cfg Config, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, repos: repos, builder: builder, store: store, cfg: cfg, log: log}
}

// Genera carica i movimenti indicati, li valida (in modo consultivo: gli
// avvisi non bloccano), serializza il tracciato, marca i movimenti come
// generati e registra il batch nella stessa transazione, poi scrive il file.
// Il file viene scritto solo dopo il commit della marcatura: in caso di
// crash tra le due scritture il registro è riconciliabile rigenerando il file.
func (uc *UseCase) Genera(ctx context.Context, tenant string, in dto.GeneraExportRequest) (*dto.GeneraExportResult, error) {
	if len(in.IDMovimenti) == 0 {
		return nil, fmt.Errorf("%w: nessun movimento indicato", domain.ErrInputNonValido)
	}

	movRepo, err := uc.repos.Movimenti(tenant)
	if err != nil {
		return nil, err
	}
	movimenti, err := movRepo.ListByIDs(in.IDMovimenti)
	if err != nil {
		return nil, err
	}
	if len(movimenti) != len(in.IDMovimenti) {
		trovati := make(map[int64]bool, len(movimenti))
		for _, m := range movimenti {
			trovati[m.ID] = true
		}
		for _, id := range in.IDMovimenti {
			if !trovati[id] {
				return nil, fmt.Errorf("%w: movimento %d", domain.ErrNonTrovato, id)
			}
		}
	}

	uc.arricchisciDescrizioni(tenant, movimenti)

	avvisi := sianvalid.ValidaMovimenti(movimenti)

	now := time.Now()
	nome := fmt.Sprintf("%s_%s_%s.xml", uc.cfg.PrefissoFile, tenant, now.Format("20060102150405"))

	xmlBytes, err := uc.builder.Costruisci(Intestazione{
		SoftwareID:    uc.cfg.SoftwareID,
		Versione:      uc.cfg.Versione,
		GenerataIl:    now,
		CodiceFiscale: uc.cfg.CodiceFiscale,
		Denominazione: uc.cfg.Denominazione,
	}, movimenti)
	if err != nil {
		return nil, fmt.Errorf("serializzazione registro: %w", err)
	}

	err = uc.txRunner.EseguiExport(ctx, tenant, func(
		movRepo repository.MovimentoRepository,
		espRepo repository.EsportazioneRepository,
	) error {
		if err := movRepo.SegnaGenerati(in.IDMovimenti, now); err != nil {
			return fmt.Errorf("marcatura generati: %w", err)
		}
		return espRepo.Create(&entity.Esportazione{
			ID:          uuid.New().String(),
			NomeFile:    nome,
			IDMovimenti: in.IDMovimenti,
			CreataIl:    now,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := uc.store.Scrivi(tenant, nome, xmlBytes); err != nil {
		// La marcatura è già committata: il file si rigenera dal registro.
		uc.log.PerTenant(tenant).Error().Err(err).Str("file", nome).
			Msg("scrittura file di export fallita dopo la marcatura")
		return nil, fmt.Errorf("scrittura file %s: %w", nome, err)
	}

	uc.log.PerTenant(tenant).Info().Str("file", nome).
		Int("movimenti", len(in.IDMovimenti)).Int("avvisi", len(avvisi)).
		Msg("registro generato")
	return &dto.GeneraExportResult{NomeFile: nome, IDMovimenti: in.IDMovimenti, Avvisi: avvisi}, nil
}

// SegnaInviato marca come comunicati al SIAN i movimenti coperti da un file
// già generato e ne copia una versione di audit in sent/. Gli id espliciti
// hanno precedenza; senza id si usano quelli registrati col batch; la
// deduzione dalla data nel nome file resta solo come fallback degradato
// dietro configurazione.
func (uc *UseCase) SegnaInviato(ctx context.Context, tenant, nome string, in dto.SegnaInviatoRequest) (*dto.SegnaInviatoResult, error) {
	espRepo, err := uc.repos.Esportazioni(tenant)
	if err != nil {
		return nil, err
	}
	batch, err := espRepo.GetByNomeFile(nome)
	if err != nil {
		return nil, err
	}

	ids := in.IDMovimenti
	if len(ids) == 0 && batch != nil {
		ids = batch.IDMovimenti
	}
	if len(ids) == 0 {
		if !uc.cfg.InferenzaData {
			return nil, fmt.Errorf("%w: nessun movimento da marcare per %s", domain.ErrInputNonValido, nome)
		}
		ids, err = uc.inferisciDaNomeFile(tenant, nome)
		if err != nil {
			return nil, err
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: nessun movimento da marcare per %s", domain.ErrNonTrovato, nome)
	}

	now := time.Now()
	var aggiornati int64
	err = uc.txRunner.EseguiExport(ctx, tenant, func(
		movRepo repository.MovimentoRepository,
		espRepo repository.EsportazioneRepository,
	) error {
		aggiornati, err = movRepo.SegnaInviati(ids, now)
		if err != nil {
			return fmt.Errorf("marcatura inviati: %w", err)
		}
		if batch != nil {
			if err := espRepo.SegnaInviata(nome, now); err != nil {
				return fmt.Errorf("marcatura batch: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Copia di audit: la marcatura è già committata, un fallimento qui viene
	// loggato senza invalidare l'esito.
	if err := uc.store.CopiaInviato(tenant, nome, now); err != nil {
		uc.log.PerTenant(tenant).Warn().Err(err).Str("file", nome).
			Msg("copia di audit in sent/ fallita")
	}

	return &dto.SegnaInviatoResult{Aggiornati: aggiornati}, nil
}

// Elenca restituisce i batch di export registrati per il tenant.
func (uc *UseCase) Elenca(ctx context.Context, tenant string) ([]dto.EsportazioneDTO, error) {
	espRepo, err := uc.repos.Esportazioni(tenant)
	if err != nil {
		return nil, err
	}
	batches, err := espRepo.List()
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return uc.elencaDaDisco(tenant)
	}
	out := make([]dto.EsportazioneDTO, 0, len(batches))
	for _, b := range batches {
		out = append(out, dto.EsportazioneDTO{
			NomeFile:  b.NomeFile,
			CreataIl:  b.CreataIl,
			Movimenti: len(b.IDMovimenti),
			Inviata:   b.Inviata,
			DataInvio: b.DataInvio,
		})
	}
	return out, nil
}

// elencaDaDisco riconcilia con i file presenti su disco quando il tenant non
// ha batch registrati (file generati prima dell'introduzione della tabella
// esportazioni): nome e data di creazione dal nome file, nessun dettaglio
// sui movimenti coperti.
func (uc *UseCase) elencaDaDisco(tenant string) ([]dto.EsportazioneDTO, error) {
	nomi, err := uc.store.Elenca(tenant)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EsportazioneDTO, 0, len(nomi))
	for _, nome := range nomi {
		e := dto.EsportazioneDTO{NomeFile: nome}
		if ts, err := dataDaNomeFile(nome); err == nil {
			e.CreataIl = ts
		}
		out = append(out, e)
	}
	return out, nil
}

// Scarica restituisce il contenuto di un file generato del tenant. Il file
// store rifiuta nomi fuori prefisso o con attraversamento di percorso.
func (uc *UseCase) Scarica(ctx context.Context, tenant, nome string) ([]byte, error) {
	return uc.store.Leggi(tenant, nome)
}

// inferisciDaNomeFile deduce i movimenti candidati dalla data incorporata nel
// nome file: generati quel giorno e non ancora inviati. Euristica ereditata
// dal registro storico, usata solo come fallback.
func (uc *UseCase) inferisciDaNomeFile(tenant, nome string) ([]int64, error) {
	ts, err := dataDaNomeFile(nome)
	if err != nil {
		return nil, err
	}
	movRepo, err := uc.repos.Movimenti(tenant)
	if err != nil {
		return nil, err
	}
	ids, err := movRepo.InviabiliPerData(ts)
	if err != nil {
		return nil, err
	}
	uc.log.PerTenant(tenant).Warn().Str("file", nome).Int("candidati", len(ids)).
		Msg("segna inviato: movimenti dedotti dalla data nel nome file")
	return ids, nil
}

// dataDaNomeFile estrae il timestamp in coda ai nomi generati
// (<prefisso>_<tenant>_<AAAAMMGGHHMMSS>.xml).
func dataDaNomeFile(nome string) (time.Time, error) {
	base := strings.TrimSuffix(nome, ".xml")
	idx := strings.LastIndex(base, "_")
	if idx < 0 || idx == len(base)-1 {
		return time.Time{}, fmt.Errorf("%w: nome file %q senza timestamp", domain.ErrInputNonValido, nome)
	}
	ts, err := time.Parse("20060102150405", base[idx+1:])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: nome file %q senza timestamp", domain.ErrInputNonValido, nome)
	}
	return ts, nil
}

// arricchisciDescrizioni completa le descrizioni vuote con le anagrafiche di
// articoli e soggetti, per leggibilità del file. Best-effort: un errore di
// lookup non blocca la generazione.
func (uc *UseCase) arricchisciDescrizioni(tenant string, movimenti []*entity.Movimento) {
	articoli, err := uc.repos.Articoli(tenant)
	if err != nil {
		return
	}
	cache := map[int64]string{}
	descrizione := func(id int64) string {
		if id == 0 {
			return ""
		}
		if d, ok := cache[id]; ok {
			return d
		}
		a, err := articoli.GetByID(id)
		if err != nil || a == nil {
			cache[id] = ""
			return ""
		}
		cache[id] = a.Descrizione
		return a.Descrizione
	}
	for _, m := range movimenti {
		if m.Descrizione != "" {
			continue
		}
		da := descrizione(m.IDArticoloInizio)
		a := descrizione(m.IDArticoloFine)
		switch {
		case da != "" && a != "":
			m.Descrizione = da + " in " + a
		case da != "":
			m.Descrizione = da
		case a != "":
			m.Descrizione = a
		}
	}
}
