package registro

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oleotech/frantoio-api/internal/application/dto"
	"github.com/oleotech/frantoio-api/internal/domain"
	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
	"github.com/oleotech/frantoio-api/pkg/logger"
)

// MolituraTerziUseCase guida la molitura conto terzi: dato un insieme di
// conferimenti già registrati, per ciascuno o emette due movimenti nuovi
// collegati (scarico olive + carico olio) o aggiorna il conferimento in loco,
// a seconda dello stato di export e del flag di ritiro immediato.
type MolituraTerziUseCase struct {
	txRunner TxRunner
	repos    Repos
	log      *logger.Logger
}

// NewMolituraTerziUseCase costruisce il caso d'uso.
func NewMolituraTerziUseCase(txRunner TxRunner, repos Repos, log *logger.Logger) *MolituraTerziUseCase {
	return &MolituraTerziUseCase{txRunner: txRunner, repos: repos, log: log}
}

// Esegui applica la molitura a tutti i conferimenti indicati in un'unica
// transazione. L'insieme deve essere non vuoto e ogni id deve risolvere un
// conferimento esistente, altrimenti l'intera operazione fallisce prima di
// qualunque scrittura. Il progressivo è allocato una volta sola per l'intera
// operazione e il suo fallimento è fatale.
//
// Il fallimento di dominio sul singolo conferimento (stato incompatibile)
// viene loggato e riportato tra gli avvisi senza interrompere gli altri;
// un errore di storage fa invece abortire e annullare tutto.
func (uc *MolituraTerziUseCase) Esegui(ctx context.Context, tenant string, in dto.MolituraTerziRequest) (*dto.MolituraResult, error) {
	if len(in.Conferimenti) == 0 {
		return nil, fmt.Errorf("%w: nessun conferimento indicato", domain.ErrInputNonValido)
	}
	if in.DataMolitura.IsZero() {
		return nil, fmt.Errorf("%w: data molitura mancante", domain.ErrInputNonValido)
	}

	codStabilimento, err := uc.risolviStabilimento(tenant, in.IDCisterna)
	if err != nil {
		return nil, err
	}

	result := &dto.MolituraResult{}
	err = uc.txRunner.Esegui(ctx, tenant, func(
		movRepo repository.MovimentoRepository,
		contatori repository.ContatoreRepository,
		_ repository.CisternaRepository,
	) error {
		// Tutti gli id devono risolvere conferimenti esistenti.
		conferimenti := make([]*entity.Movimento, 0, len(in.Conferimenti))
		ids := make([]int64, 0, len(in.Conferimenti))
		for _, c := range in.Conferimenti {
			m, err := movRepo.GetByID(c.ID)
			if err != nil {
				return fmt.Errorf("lettura conferimento %d: %w", c.ID, err)
			}
			if m == nil || !m.FlagConferimento {
				return fmt.Errorf("%w: conferimento %d", domain.ErrNonTrovato, c.ID)
			}
			conferimenti = append(conferimenti, m)
			ids = append(ids, c.ID)
		}

		// Marcatura molito per tutti (idempotente: rieseguire non cambia nulla).
		if err := movRepo.SetMolito(ids); err != nil {
			return fmt.Errorf("marcatura molito: %w", err)
		}

		// Un solo progressivo per l'intera operazione, non per conferimento.
		progressivo, err := contatori.Prossimo(codStabilimento, in.DataMolitura)
		if err != nil {
			return fmt.Errorf("allocazione progressivo: %w", err)
		}
		result.Progressivo = progressivo

		for i, m := range conferimenti {
			ritiro := in.Conferimenti[i].RitiroImmediato
			ids, err := uc.applicaConferimento(movRepo, m, ritiro, progressivo, codStabilimento, in)
			if err != nil {
				if errors.Is(err, domain.ErrNonTrovato) || errors.Is(err, domain.ErrInputNonValido) || errors.Is(err, domain.ErrConflitto) {
					uc.log.PerTenant(tenant).Warn().
						Err(err).
						Int64("conferimento", m.ID).
						Msg("molitura c/terzi: conferimento saltato")
					result.Avvisi = append(result.Avvisi, fmt.Sprintf("conferimento %d saltato: %v", m.ID, err))
					continue
				}
				return fmt.Errorf("conferimento %d: %w", m.ID, err)
			}
			result.IDsCreati = append(result.IDsCreati, ids...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applicaConferimento applica a un singolo conferimento il percorso dettato
// dal suo stato di export (letto dalla riga, che è autoritativa) e dal flag
// di ritiro immediato richiesto:
//
//   - già esportato + ritiro immediato: due movimenti nuovi (scarico olive e
//     carico olio) che condividono il progressivo dell'operazione;
//   - non ancora esportato: il conferimento viene aggiornato in loco;
//   - già esportato senza ritiro: nessuna azione oltre alla marcatura molito
//     (molitura differita, non è un errore).
func (uc *MolituraTerziUseCase) applicaConferimento(
	movRepo repository.MovimentoRepository,
	m *entity.Movimento,
	ritiroImmediato bool,
	progressivo int64,
	codStabilimento int,
	in dto.MolituraTerziRequest,
) ([]int64, error) {
	codStab := codStabilimento
	if codStab == 0 {
		codStab = m.CodStabilimento
	}
	giorno := in.DataMolitura.Truncate(24 * time.Hour)

	switch {
	case m.Generato && ritiroImmediato:
		scarico := &entity.Movimento{
			CodiceFiscale:      m.CodiceFiscale,
			CodStabilimento:    codStab,
			Progressivo:        progressivo,
			DataOperazione:     giorno,
			CodOperazione:      entity.CodOpScaricoOlive,
			CodSianControparte: m.CodSianControparte,
			CodSianCommittente: m.CodSianCommittente,
			KgOliveScarico:     m.KgOliveCarico,
			DataOraOperazione:  in.DataMolitura,
			Descrizione:        "Scarico olive a molitura c/terzi",
			IDArticoloInizio:   m.IDArticoloInizio,
			FlagMolitura:       true,
		}
		idScarico, err := movRepo.Create(scarico)
		if err != nil {
			return nil, fmt.Errorf("inserimento scarico olive: %w", err)
		}
		carico := &entity.Movimento{
			CodiceFiscale:      m.CodiceFiscale,
			CodStabilimento:    codStab,
			Progressivo:        progressivo,
			DataOperazione:     giorno,
			CodOperazione:      entity.CodOpCaricoOlio,
			CodSianControparte: m.CodSianControparte,
			CodSianCommittente: m.CodSianCommittente,
			KgOliveCarico:      m.KgOliveCarico,
			KgOlioCarico:       in.KgOlio,
			FlagBio:            m.FlagBio,
			DataOraOperazione:  in.DataMolitura,
			DataMolitura:       in.DataMolitura,
			Descrizione:        "Carico olio da molitura c/terzi",
			IDArticoloInizio:   m.IDArticoloInizio,
			IDArticoloFine:     in.IDArticoloOlio,
			FlagMolitura:       true,
		}
		idCarico, err := movRepo.Create(carico)
		if err != nil {
			return nil, fmt.Errorf("inserimento carico olio: %w", err)
		}
		return []int64{idScarico, idCarico}, nil

	case !m.Generato:
		codOp := entity.CodOpMolituraDifferita
		descrizione := "Molitura conto terzi con ritiro differito"
		if ritiroImmediato {
			codOp = entity.CodOpMolituraImmediata
			descrizione = "Molitura conto terzi con ritiro immediato"
		}
		err := movRepo.AggiornaMolitura(m.ID, repository.AggiornamentoMolitura{
			CodOperazione:  codOp,
			KgOliveCarico:  m.KgOliveCarico,
			KgOlioCarico:   in.KgOlio,
			DataMolitura:   in.DataMolitura,
			Descrizione:    descrizione,
			IDArticoloFine: in.IDArticoloOlio,
		})
		if err != nil {
			return nil, fmt.Errorf("aggiornamento in loco: %w", err)
		}
		return nil, nil

	default:
		// Già esportato senza ritiro immediato: molitura differita, resta
		// solo la marcatura molito già effettuata.
		return nil, nil
	}
}

func (uc *MolituraTerziUseCase) risolviStabilimento(tenant string, idCisterna int64) (int, error) {
	if idCisterna == 0 {
		return 0, nil
	}
	cisterne, err := uc.repos.Cisterne(tenant)
	if err != nil {
		return 0, err
	}
	cisterna, err := cisterne.GetByID(idCisterna)
	if err != nil {
		return 0, err
	}
	if cisterna == nil {
		return 0, fmt.Errorf("%w: cisterna %d", domain.ErrNonTrovato, idCisterna)
	}
	return cisterna.CodStabilimento, nil
}
