package registro

import (
	"context"
	"fmt"
	"time"

	"github.com/oleotech/frantoio-api/internal/application/dto"
	"github.com/oleotech/frantoio-api/internal/domain"
	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
	"github.com/oleotech/frantoio-api/pkg/logger"
)

// MolituraProprioUseCase consolida uno o più conferimenti in un unico
// movimento di molitura conto proprio, lo arricchisce con i metadati
// dell'articolo olio, ricollega i conferimenti di origine e aggiorna la
// giacenza della cisterna. Tutto in un'unica transazione: qui è in gioco la
// coerenza dell'inventario, nessun commit parziale è accettabile.
type MolituraProprioUseCase struct {
	txRunner TxRunner
	repos    Repos
	log      *logger.Logger
}

// NewMolituraProprioUseCase costruisce il caso d'uso.
func NewMolituraProprioUseCase(txRunner TxRunner, repos Repos, log *logger.Logger) *MolituraProprioUseCase {
	return &MolituraProprioUseCase{txRunner: txRunner, repos: repos, log: log}
}

// Esegui esegue la molitura conto proprio come unità atomica: qualunque
// fallimento annulla tutte le scritture e l'errore riporta il dettaglio del
// passaggio che lo ha originato.
func (uc *MolituraProprioUseCase) Esegui(ctx context.Context, tenant string, in dto.MolituraProprioRequest) (*dto.MolituraResult, error) {
	if len(in.IDConferimenti) == 0 {
		return nil, fmt.Errorf("%w: nessun conferimento indicato", domain.ErrInputNonValido)
	}
	if in.IDArticoloOlio == 0 {
		return nil, fmt.Errorf("%w: articolo olio mancante", domain.ErrInputNonValido)
	}
	if in.DataMolitura.IsZero() {
		return nil, fmt.Errorf("%w: data molitura mancante", domain.ErrInputNonValido)
	}

	articoli, err := uc.repos.Articoli(tenant)
	if err != nil {
		return nil, err
	}
	olio, err := articoli.GetByID(in.IDArticoloOlio)
	if err != nil {
		return nil, err
	}
	if olio == nil {
		return nil, fmt.Errorf("%w: articolo olio %d", domain.ErrNonTrovato, in.IDArticoloOlio)
	}

	codStabilimento := 0
	if in.IDCisterna != 0 {
		cisterne, err := uc.repos.Cisterne(tenant)
		if err != nil {
			return nil, err
		}
		cisterna, err := cisterne.GetByID(in.IDCisterna)
		if err != nil {
			return nil, err
		}
		if cisterna == nil {
			return nil, fmt.Errorf("%w: cisterna %d", domain.ErrNonTrovato, in.IDCisterna)
		}
		codStabilimento = cisterna.CodStabilimento
	}

	result := &dto.MolituraResult{}
	err = uc.txRunner.Esegui(ctx, tenant, func(
		movRepo repository.MovimentoRepository,
		contatori repository.ContatoreRepository,
		cisterne repository.CisternaRepository,
	) error {
		conferimenti := make([]*entity.Movimento, 0, len(in.IDConferimenti))
		for _, id := range in.IDConferimenti {
			m, err := movRepo.GetByID(id)
			if err != nil {
				return fmt.Errorf("lettura conferimento %d: %w", id, err)
			}
			if m == nil || !m.FlagConferimento {
				return fmt.Errorf("%w: conferimento %d", domain.ErrNonTrovato, id)
			}
			conferimenti = append(conferimenti, m)
		}

		if err := movRepo.SetMolito(in.IDConferimenti); err != nil {
			return fmt.Errorf("marcatura molito: %w", err)
		}

		progressivo, err := contatori.Prossimo(codStabilimento, in.DataMolitura)
		if err != nil {
			return fmt.Errorf("allocazione progressivo: %w", err)
		}
		result.Progressivo = progressivo

		// Il flag biologico viaggia col primo conferimento della partita.
		primo := conferimenti[0]
		consolidato := &entity.Movimento{
			CodiceFiscale:      primo.CodiceFiscale,
			CodStabilimento:    codStabilimento,
			Progressivo:        progressivo,
			DataOperazione:     in.DataMolitura.Truncate(24 * time.Hour),
			CodOperazione:      entity.CodOpMolituraProprio,
			CodSianControparte: primo.CodSianControparte,
			KgOliveCarico:      in.KgOlive,
			KgOlioCarico:       in.KgOlio,
			FlagBio:            primo.FlagBio,
			DataOraOperazione:  in.DataMolitura,
			DataMolitura:       in.DataMolitura,
			Descrizione:        "Molitura conto proprio",
			IDArticoloInizio:   primo.IDArticoloInizio,
			IDArticoloFine:     in.IDArticoloOlio,
			FlagMolitura:       true,
		}
		idMolitura, err := movRepo.Create(consolidato)
		if err != nil {
			return fmt.Errorf("inserimento molitura consolidata: %w", err)
		}
		result.IDMolitura = idMolitura

		// Secondo aggiornamento condizionale: solo i metadati effettivamente
		// risolti dall'anagrafica dell'olio (e la raccolta del primo
		// conferimento) vengono scritti.
		if err := movRepo.AggiornaMetadati(idMolitura, metadatiDaArticolo(olio, primo)); err != nil {
			return fmt.Errorf("aggiornamento metadati molitura: %w", err)
		}

		if err := movRepo.CollegaMolitura(in.IDConferimenti, idMolitura); err != nil {
			return fmt.Errorf("collegamento conferimenti: %w", err)
		}

		if in.IDCisterna != 0 && in.KgOlio.IsPositive() {
			if err := cisterne.Carica(in.IDCisterna, in.KgOlio, in.IDArticoloOlio); err != nil {
				return fmt.Errorf("carico cisterna %d: %w", in.IDCisterna, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.PerTenant(tenant).Info().
		Int64("molitura", result.IDMolitura).
		Int("conferimenti", len(in.IDConferimenti)).
		Str("kg_olio", in.KgOlio.String()).
		Msg("molitura conto proprio registrata")
	return result, nil
}

// metadatiDaArticolo costruisce l'aggiornamento condizionale con i soli campi
// valorizzati in anagrafica.
func metadatiDaArticolo(olio *entity.Articolo, primo *entity.Movimento) repository.MetadatiMovimento {
	md := repository.MetadatiMovimento{}
	if olio.Categoria != "" {
		md.Categoria = &olio.Categoria
	}
	if olio.Macroarea != "" {
		md.Macroarea = &olio.Macroarea
	}
	if olio.Origine != "" {
		md.Origine = &olio.Origine
	}
	// Il flag biologico non viene sovrascritto: viaggia col primo conferimento.
	if olio.FlagDopIgp != "" {
		md.FlagDopIgp = &olio.FlagDopIgp
	}
	if olio.FlagOrigine != "" {
		md.FlagOrigine = &olio.FlagOrigine
	}
	if !primo.DataRaccolta.IsZero() {
		raccolta := primo.DataRaccolta
		md.DataRaccolta = &raccolta
	}
	return md
}
