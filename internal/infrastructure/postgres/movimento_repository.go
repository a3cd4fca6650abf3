package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
)

var _ repository.MovimentoRepository = (*MovimentoRepo)(nil)

// MovimentoRepo registro movimenti su PostgreSQL (usabile con pool o tx).
type MovimentoRepo struct {
	q   Querier
	tab Tabelle
}

// NewMovimentoRepository costruisce l'adapter per il set di tabelle del tenant.
// Passare pool o tx (Querier).
func NewMovimentoRepository(q Querier, tab Tabelle) *MovimentoRepo {
	return &MovimentoRepo{q: q, tab: tab}
}

const colonneMovimento = `
	id, codice_fiscale, cod_stabilimento, progressivo, data_operazione,
	num_documento, data_documento, cod_operazione, cod_sian_controparte,
	cod_sian_committente, kg_olive_carico, kg_olive_scarico, kg_olio_carico,
	kg_olio_scarico, macroarea, origine_specifica, categoria, flag_bio,
	flag_dop_igp, flag_origine, data_raccolta, data_ora_operazione,
	data_molitura, descrizione, id_articolo_inizio, id_articolo_fine,
	molito, flag_conferimento, flag_molitura, id_movimento_molitura,
	generato, data_generazione, inviato, data_invio`

// Create inserisce il movimento e restituisce l'id assegnato (RETURNING:
// l'id serve subito nella stessa transazione, mai una query separata).
func (r *MovimentoRepo) Create(m *entity.Movimento) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			codice_fiscale, cod_stabilimento, progressivo, data_operazione,
			num_documento, data_documento, cod_operazione, cod_sian_controparte,
			cod_sian_committente, kg_olive_carico, kg_olive_scarico, kg_olio_carico,
			kg_olio_scarico, macroarea, origine_specifica, categoria, flag_bio,
			flag_dop_igp, flag_origine, data_raccolta, data_ora_operazione,
			data_molitura, descrizione, id_articolo_inizio, id_articolo_fine,
			molito, flag_conferimento, flag_molitura, id_movimento_molitura,
			generato, inviato
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
			$29, $30, $31
		)
		RETURNING id`, r.tab.Movimenti)

	var id int64
	err := r.q.QueryRow(context.Background(), query,
		m.CodiceFiscale, m.CodStabilimento, m.Progressivo, m.DataOperazione,
		m.NumDocumento, nullTime(m.DataDocumento), m.CodOperazione, m.CodSianControparte,
		m.CodSianCommittente, m.KgOliveCarico, m.KgOliveScarico, m.KgOlioCarico,
		m.KgOlioScarico, m.Macroarea, m.OrigineSpecifica, m.Categoria, m.FlagBio,
		m.FlagDopIgp, m.FlagOrigine, nullTime(m.DataRaccolta), nullTime(m.DataOraOperazione),
		nullTime(m.DataMolitura), m.Descrizione, nullInt(m.IDArticoloInizio), nullInt(m.IDArticoloFine),
		m.Molito, m.FlagConferimento, m.FlagMolitura, nullInt(m.IDMovimentoMolitura),
		m.Generato, m.Inviato,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserimento movimento: %w", err)
	}
	m.ID = id
	return id, nil
}

// GetByID restituisce il movimento o nil se non esiste.
func (r *MovimentoRepo) GetByID(id int64) (*entity.Movimento, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, colonneMovimento, r.tab.Movimenti)
	m, err := scanMovimento(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lettura movimento: %w", err)
	}
	return m, nil
}

// ListByIDs restituisce i movimenti esistenti tra gli id richiesti, in ordine di id.
func (r *MovimentoRepo) ListByIDs(ids []int64) ([]*entity.Movimento, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ANY($1) ORDER BY id`, colonneMovimento, r.tab.Movimenti)
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("lettura movimenti: %w", err)
	}
	defer rows.Close()
	return scanMovimenti(rows)
}

// Search elenca i movimenti secondo il filtro, dal più recente.
func (r *MovimentoRepo) Search(f repository.FiltroMovimenti) ([]*entity.Movimento, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE 1=1`, colonneMovimento, r.tab.Movimenti)
	args := []any{}
	pos := 1
	if f.CodOperazione != "" {
		query += fmt.Sprintf(" AND cod_operazione = $%d", pos)
		args = append(args, f.CodOperazione)
		pos++
	}
	if f.Da != nil {
		query += fmt.Sprintf(" AND data_operazione >= $%d", pos)
		args = append(args, *f.Da)
		pos++
	}
	if f.A != nil {
		query += fmt.Sprintf(" AND data_operazione <= $%d", pos)
		args = append(args, *f.A)
		pos++
	}
	if f.SoloConferimenti {
		query += " AND flag_conferimento AND NOT molito"
	}
	if f.Generato != nil {
		query += fmt.Sprintf(" AND generato = $%d", pos)
		args = append(args, *f.Generato)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY data_operazione DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("ricerca movimenti: %w", err)
	}
	defer rows.Close()
	return scanMovimenti(rows)
}

// SetMolito marca i conferimenti come moliti. Idempotente: righe già molite
// restano invariate.
func (r *MovimentoRepo) SetMolito(ids []int64) error {
	query := fmt.Sprintf(`UPDATE %s SET molito = TRUE WHERE id = ANY($1)`, r.tab.Movimenti)
	if _, err := r.q.Exec(context.Background(), query, ids); err != nil {
		return fmt.Errorf("marcatura molito: %w", err)
	}
	return nil
}

// AggiornaMolitura trasforma il conferimento in record di molitura in loco.
func (r *MovimentoRepo) AggiornaMolitura(id int64, a repository.AggiornamentoMolitura) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			cod_operazione = $1, kg_olive_carico = $2, kg_olio_carico = $3,
			data_molitura = $4, descrizione = $5, molito = TRUE, flag_molitura = TRUE,
			id_articolo_fine = COALESCE($6, id_articolo_fine)
		WHERE id = $7`, r.tab.Movimenti)
	tag, err := r.q.Exec(context.Background(), query,
		a.CodOperazione, a.KgOliveCarico, a.KgOlioCarico,
		nullTime(a.DataMolitura), a.Descrizione, nullInt(a.IDArticoloFine), id,
	)
	if err != nil {
		return fmt.Errorf("aggiornamento molitura: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AggiornaMetadati applica i soli campi non nil (SET dinamico).
func (r *MovimentoRepo) AggiornaMetadati(id int64, md repository.MetadatiMovimento) error {
	set := []string{}
	args := []any{}
	pos := 1
	add := func(colonna string, valore any) {
		set = append(set, fmt.Sprintf("%s = $%d", colonna, pos))
		args = append(args, valore)
		pos++
	}
	if md.Categoria != nil {
		add("categoria", *md.Categoria)
	}
	if md.Macroarea != nil {
		add("macroarea", *md.Macroarea)
	}
	if md.Origine != nil {
		add("origine_specifica", *md.Origine)
	}
	if md.FlagBio != nil {
		add("flag_bio", *md.FlagBio)
	}
	if md.FlagDopIgp != nil {
		add("flag_dop_igp", *md.FlagDopIgp)
	}
	if md.FlagOrigine != nil {
		add("flag_origine", *md.FlagOrigine)
	}
	if md.DataRaccolta != nil {
		add("data_raccolta", *md.DataRaccolta)
	}
	if len(set) == 0 {
		return nil
	}
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`, r.tab.Movimenti, joinSet(set), pos)
	args = append(args, id)
	if _, err := r.q.Exec(context.Background(), query, args...); err != nil {
		return fmt.Errorf("aggiornamento metadati: %w", err)
	}
	return nil
}

// CollegaMolitura collega i conferimenti alla molitura che li ha consumati.
func (r *MovimentoRepo) CollegaMolitura(ids []int64, idMolitura int64) error {
	query := fmt.Sprintf(`UPDATE %s SET id_movimento_molitura = $1 WHERE id = ANY($2)`, r.tab.Movimenti)
	if _, err := r.q.Exec(context.Background(), query, idMolitura, ids); err != nil {
		return fmt.Errorf("collegamento molitura: %w", err)
	}
	return nil
}

// SegnaGenerati marca i movimenti come inclusi in un file di export.
func (r *MovimentoRepo) SegnaGenerati(ids []int64, quando time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET generato = TRUE, data_generazione = $1 WHERE id = ANY($2)`, r.tab.Movimenti)
	if _, err := r.q.Exec(context.Background(), query, quando, ids); err != nil {
		return fmt.Errorf("marcatura generati: %w", err)
	}
	return nil
}

// SegnaInviati marca i movimenti come comunicati al SIAN.
func (r *MovimentoRepo) SegnaInviati(ids []int64, quando time.Time) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET inviato = TRUE, data_invio = $1 WHERE id = ANY($2) AND NOT inviato`, r.tab.Movimenti)
	tag, err := r.q.Exec(context.Background(), query, quando, ids)
	if err != nil {
		return 0, fmt.Errorf("marcatura inviati: %w", err)
	}
	return tag.RowsAffected(), nil
}

// InviabiliPerData restituisce gli id generati nel giorno indicato e non
// ancora inviati.
func (r *MovimentoRepo) InviabiliPerData(giorno time.Time) ([]int64, error) {
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE generato AND NOT inviato
		  AND data_generazione >= $1 AND data_generazione < $2
		ORDER BY id`, r.tab.Movimenti)
	inizio := time.Date(giorno.Year(), giorno.Month(), giorno.Day(), 0, 0, 0, 0, giorno.Location())
	rows, err := r.q.Query(context.Background(), query, inizio, inizio.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("ricerca inviabili: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanMovimento(row scannable) (*entity.Movimento, error) {
	var m entity.Movimento
	var dataDocumento, dataRaccolta, dataOraOperazione, dataMolitura *time.Time
	var idArticoloInizio, idArticoloFine, idMovimentoMolitura *int64
	err := row.Scan(
		&m.ID, &m.CodiceFiscale, &m.CodStabilimento, &m.Progressivo, &m.DataOperazione,
		&m.NumDocumento, &dataDocumento, &m.CodOperazione, &m.CodSianControparte,
		&m.CodSianCommittente, &m.KgOliveCarico, &m.KgOliveScarico, &m.KgOlioCarico,
		&m.KgOlioScarico, &m.Macroarea, &m.OrigineSpecifica, &m.Categoria, &m.FlagBio,
		&m.FlagDopIgp, &m.FlagOrigine, &dataRaccolta, &dataOraOperazione,
		&dataMolitura, &m.Descrizione, &idArticoloInizio, &idArticoloFine,
		&m.Molito, &m.FlagConferimento, &m.FlagMolitura, &idMovimentoMolitura,
		&m.Generato, &m.DataGenerazione, &m.Inviato, &m.DataInvio,
	)
	if err != nil {
		return nil, err
	}
	m.DataDocumento = derefTime(dataDocumento)
	m.DataRaccolta = derefTime(dataRaccolta)
	m.DataOraOperazione = derefTime(dataOraOperazione)
	m.DataMolitura = derefTime(dataMolitura)
	m.IDArticoloInizio = derefInt(idArticoloInizio)
	m.IDArticoloFine = derefInt(idArticoloFine)
	m.IDMovimentoMolitura = derefInt(idMovimentoMolitura)
	return &m, nil
}

func scanMovimenti(rows pgx.Rows) ([]*entity.Movimento, error) {
	var list []*entity.Movimento
	for rows.Next() {
		m, err := scanMovimento(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimento: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
