package registro

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oleotech/frantoio-api/internal/application/dto"
	"github.com/oleotech/frantoio-api/internal/domain"
	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
	"github.com/oleotech/frantoio-api/pkg/logger"
	"github.com/oleotech/frantoio-api/pkg/sian"
)

// ConferimentoUseCase registra il movimento iniziale di conferimento olive,
// sia standalone (flusso c/acquisto) sia collegato a una prenotazione del
// calendario: risolve le anagrafiche, alloca il progressivo e inserisce la
// riga nel registro in un'unica transazione.
type ConferimentoUseCase struct {
	txRunner      TxRunner
	repos         Repos
	codiceFiscale string // CUAA dell'azienda esercente, costante per installazione
	log           *logger.Logger
}

// NewConferimentoUseCase costruisce il caso d'uso.
func NewConferimentoUseCase(txRunner TxRunner, repos Repos, codiceFiscale string, log *logger.Logger) *ConferimentoUseCase {
	return &ConferimentoUseCase{txRunner: txRunner, repos: repos, codiceFiscale: codiceFiscale, log: log}
}

// Registra valida il payload, risolve le anagrafiche e inserisce il
// conferimento. La chiusura della prenotazione collegata è best-effort:
// avviene dopo il commit e un suo fallimento viene loggato senza far fallire
// la registrazione.
func (uc *ConferimentoUseCase) Registra(ctx context.Context, tenant string, in dto.ConferimentoRequest) (*dto.ConferimentoResult, error) {
	if in.IDControparte == 0 || in.IDArticoloOliva == 0 {
		return nil, fmt.Errorf("%w: controparte e articolo oliva sono obbligatori", domain.ErrInputNonValido)
	}
	if !in.KgOlive.IsPositive() {
		return nil, fmt.Errorf("%w: kg olive deve essere positivo", domain.ErrInputNonValido)
	}
	if in.DataConferimento.IsZero() {
		return nil, fmt.Errorf("%w: data conferimento mancante", domain.ErrInputNonValido)
	}

	soggetti, err := uc.repos.Soggetti(tenant)
	if err != nil {
		return nil, err
	}
	articoli, err := uc.repos.Articoli(tenant)
	if err != nil {
		return nil, err
	}

	controparte, err := soggetti.GetByID(in.IDControparte)
	if err != nil {
		return nil, err
	}
	if controparte == nil {
		return nil, fmt.Errorf("%w: soggetto %d", domain.ErrNonTrovato, in.IDControparte)
	}
	codCommittente := ""
	if in.IDCommittente != 0 {
		committente, err := soggetti.GetByID(in.IDCommittente)
		if err != nil {
			return nil, err
		}
		if committente == nil {
			return nil, fmt.Errorf("%w: committente %d", domain.ErrNonTrovato, in.IDCommittente)
		}
		codCommittente = committente.CodSian
	}

	oliva, err := articoli.GetByID(in.IDArticoloOliva)
	if err != nil {
		return nil, err
	}
	if oliva == nil {
		return nil, fmt.Errorf("%w: articolo %d", domain.ErrNonTrovato, in.IDArticoloOliva)
	}

	// Stabilimento dalla cisterna di riferimento; 0 quando nessuna cisterna è
	// indicata o risolta. Lo 0 è il sentinel ereditato dal registro storico.
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
		if cisterna != nil {
			codStabilimento = cisterna.CodStabilimento
		}
	}

	origine, err := uc.risolviOrigine(tenant, in.IDsOrigine)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	raccolta := time.Time{}
	if in.DataRaccolta != nil {
		raccolta = *in.DataRaccolta
	}

	var idMovimento, progressivo int64
	err = uc.txRunner.Esegui(ctx, tenant, func(
		movRepo repository.MovimentoRepository,
		contatori repository.ContatoreRepository,
		_ repository.CisternaRepository,
	) error {
		progressivo, err = contatori.Prossimo(codStabilimento, in.DataConferimento)
		if err != nil {
			return fmt.Errorf("allocazione progressivo: %w", err)
		}
		mov := &entity.Movimento{
			CodiceFiscale:      uc.codiceFiscale,
			CodStabilimento:    codStabilimento,
			Progressivo:        progressivo,
			DataOperazione:     in.DataConferimento,
			NumDocumento:       in.NumDocumento,
			DataDocumento:      in.DataDocumento,
			CodOperazione:      entity.CodOpConferimento,
			CodSianControparte: controparte.CodSian,
			CodSianCommittente: codCommittente,
			KgOliveCarico:      in.KgOlive,
			Macroarea:          in.Macroarea,
			OrigineSpecifica:   origine,
			FlagBio:            sian.FormatFlag(in.FlagBio),
			DataRaccolta:       raccolta,
			DataOraOperazione:  now,
			Descrizione:        "Conferimento olive da " + controparte.Descrizione,
			IDArticoloInizio:   in.IDArticoloOliva,
			FlagConferimento:   true,
		}
		idMovimento, err = movRepo.Create(mov)
		if err != nil {
			return fmt.Errorf("inserimento conferimento: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Chiusura best-effort della prenotazione: non deve far fallire il
	// conferimento già registrato.
	if in.IDPrenotazione != 0 {
		uc.chiudiPrenotazione(tenant, in.IDPrenotazione, idMovimento)
	}

	return &dto.ConferimentoResult{IDMovimento: idMovimento, Progressivo: progressivo}, nil
}

// risolviOrigine traduce la lista di id separati da virgola nelle descrizioni
// in chiaro unite da spazio, secondo la convenzione del tracciato.
func (uc *ConferimentoUseCase) risolviOrigine(tenant, idsOrigine string) (string, error) {
	if strings.TrimSpace(idsOrigine) == "" {
		return "", nil
	}
	var ids []int64
	for _, tok := range strings.Split(idsOrigine, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return "", fmt.Errorf("%w: id origine %q", domain.ErrInputNonValido, tok)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return "", nil
	}
	origini, err := uc.repos.Origini(tenant)
	if err != nil {
		return "", err
	}
	descrizioni, err := origini.Descrizioni(ids)
	if err != nil {
		return "", err
	}
	return strings.Join(descrizioni, " "), nil
}

func (uc *ConferimentoUseCase) chiudiPrenotazione(tenant string, idPrenotazione, idMovimento int64) {
	prenotazioni, err := uc.repos.Prenotazioni(tenant)
	if err == nil {
		err = prenotazioni.Chiudi(idPrenotazione, idMovimento)
	}
	if err != nil {
		uc.log.PerTenant(tenant).Warn().
			Err(err).
			Int64("prenotazione", idPrenotazione).
			Int64("movimento", idMovimento).
			Msg("chiusura prenotazione fallita, conferimento comunque registrato")
	}
}
