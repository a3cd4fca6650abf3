package registro_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleotech/frantoio-api/internal/application/dto"
	"github.com/oleotech/frantoio-api/internal/application/registro"
	"github.com/oleotech/frantoio-api/internal/domain"
	"github.com/oleotech/frantoio-api/internal/domain/entity"
)

func richiestaProprio(ids ...int64) dto.MolituraProprioRequest {
	return dto.MolituraProprioRequest{
		IDConferimenti: ids,
		IDArticoloOlio: 10,
		IDCisterna:     20,
		KgOlive:        decimal.RequireFromString("1400"),
		KgOlio:         decimal.RequireFromString("210"),
		DataMolitura:   time.Date(2025, 11, 4, 10, 30, 0, 0, time.UTC),
	}
}

func TestMolituraProprio_Consolidamento(t *testing.T) {
	b := bancoConAnagrafiche()
	a := conferimentoInRegistro(t, b, false)
	c := conferimentoInRegistro(t, b, false)
	uc := registro.NewMolituraProprioUseCase(b, b, logProva())

	out, err := uc.Esegui(context.Background(), tenantProva, richiestaProprio(a, c))
	require.NoError(t, err)
	require.NotZero(t, out.IDMolitura)

	consolidato, _ := b.movimenti.GetByID(out.IDMolitura)
	require.NotNil(t, consolidato)
	assert.Equal(t, entity.CodOpMolituraProprio, consolidato.CodOperazione)
	assert.True(t, consolidato.KgOliveCarico.Equal(decimal.RequireFromString("1400")))
	assert.True(t, consolidato.KgOlioCarico.Equal(decimal.RequireFromString("210")))
	assert.Equal(t, out.Progressivo, consolidato.Progressivo)
	assert.True(t, consolidato.FlagMolitura)

	// I conferimenti di origine sono moliti e ricollegati al consolidato.
	for _, id := range []int64{a, c} {
		m, _ := b.movimenti.GetByID(id)
		assert.True(t, m.Molito)
		assert.Equal(t, out.IDMolitura, m.IDMovimentoMolitura)
	}
}

func TestMolituraProprio_MetadatiDaAnagraficaOlio(t *testing.T) {
	b := bancoConAnagrafiche()
	id := conferimentoInRegistro(t, b, false)
	uc := registro.NewMolituraProprioUseCase(b, b, logProva())

	out, err := uc.Esegui(context.Background(), tenantProva, richiestaProprio(id))
	require.NoError(t, err)

	consolidato, _ := b.movimenti.GetByID(out.IDMolitura)
	assert.Equal(t, "EVO", consolidato.Categoria)
	assert.Equal(t, "IT", consolidato.Macroarea)
	assert.Equal(t, "Umbria", consolidato.OrigineSpecifica)
	assert.Equal(t, "S", consolidato.FlagDopIgp)
	assert.Equal(t, "S", consolidato.FlagOrigine)
}

func TestMolituraProprio_FlagBioDalPrimoConferimento(t *testing.T) {
	b := bancoConAnagrafiche()
	// L'anagrafica dell'olio non deve sovrascrivere il biologico della partita.
	b.articoli[10].FlagBio = "N"
	id := conferimentoInRegistro(t, b, false) // FlagBio "S"
	uc := registro.NewMolituraProprioUseCase(b, b, logProva())

	out, err := uc.Esegui(context.Background(), tenantProva, richiestaProprio(id))
	require.NoError(t, err)

	consolidato, _ := b.movimenti.GetByID(out.IDMolitura)
	assert.Equal(t, "S", consolidato.FlagBio, "il biologico viaggia col primo conferimento")
}

func TestMolituraProprio_CaricaCisterna(t *testing.T) {
	b := bancoConAnagrafiche()
	id := conferimentoInRegistro(t, b, false)
	uc := registro.NewMolituraProprioUseCase(b, b, logProva())

	_, err := uc.Esegui(context.Background(), tenantProva, richiestaProprio(id))
	require.NoError(t, err)

	cis, _ := b.cisterne.GetByID(20)
	assert.True(t, cis.Giacenza.Equal(decimal.RequireFromString("210")),
		"giacenza attesa 210 kg, trovata %s", cis.Giacenza)
	assert.Equal(t, int64(10), cis.IDArticolo, "la cisterna registra l'articolo caricato")
}

func TestMolituraProprio_SenzaCisterna_NessunCarico(t *testing.T) {
	b := bancoConAnagrafiche()
	id := conferimentoInRegistro(t, b, false)
	uc := registro.NewMolituraProprioUseCase(b, b, logProva())

	in := richiestaProprio(id)
	in.IDCisterna = 0
	out, err := uc.Esegui(context.Background(), tenantProva, in)
	require.NoError(t, err)
	assert.NotZero(t, out.IDMolitura)

	cis, _ := b.cisterne.GetByID(20)
	assert.True(t, cis.Giacenza.IsZero())
}

func TestMolituraProprio_CapacitaSuperata_AnnullaTutto(t *testing.T) {
	b := bancoConAnagrafiche()
	b.cisterne.byID[20].Capacita = decimal.NewFromInt(100) // meno dei 210 kg prodotti
	id := conferimentoInRegistro(t, b, false)
	uc := registro.NewMolituraProprioUseCase(b, b, logProva())

	_, err := uc.Esegui(context.Background(), tenantProva, richiestaProprio(id))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCapacitaSuperata), "atteso ErrCapacitaSuperata, ottenuto %v", err)

	// Nessun commit parziale: conferimento intatto, registro senza consolidato.
	m, _ := b.movimenti.GetByID(id)
	assert.False(t, m.Molito)
	assert.Zero(t, m.IDMovimentoMolitura)
	assert.Len(t, b.movimenti.byID, 1, "il consolidato non deve sopravvivere al rollback")
}

func TestMolituraProprio_Validazioni(t *testing.T) {
	b := bancoConAnagrafiche()
	id := conferimentoInRegistro(t, b, false)
	uc := registro.NewMolituraProprioUseCase(b, b, logProva())

	casi := []struct {
		nome       string
		muta       func(*dto.MolituraProprioRequest)
		sentinella error
	}{
		{"senza conferimenti", func(in *dto.MolituraProprioRequest) { in.IDConferimenti = nil }, domain.ErrInputNonValido},
		{"senza articolo olio", func(in *dto.MolituraProprioRequest) { in.IDArticoloOlio = 0 }, domain.ErrInputNonValido},
		{"senza data molitura", func(in *dto.MolituraProprioRequest) { in.DataMolitura = time.Time{} }, domain.ErrInputNonValido},
		{"articolo olio ignoto", func(in *dto.MolituraProprioRequest) { in.IDArticoloOlio = 77 }, domain.ErrNonTrovato},
		{"cisterna ignota", func(in *dto.MolituraProprioRequest) { in.IDCisterna = 77 }, domain.ErrNonTrovato},
		{"conferimento ignoto", func(in *dto.MolituraProprioRequest) { in.IDConferimenti = []int64{999} }, domain.ErrNonTrovato},
	}
	for _, c := range casi {
		t.Run(c.nome, func(t *testing.T) {
			in := richiestaProprio(id)
			c.muta(&in)
			_, err := uc.Esegui(context.Background(), tenantProva, in)
			assert.True(t, errors.Is(err, c.sentinella), "atteso %v, ottenuto %v", c.sentinella, err)
		})
	}
}

func TestMolituraProprio_RifiutaNonConferimento(t *testing.T) {
	b := bancoConAnagrafiche()
	// Una molitura non è consolidabile come se fosse un conferimento.
	idMolitura, err := b.movimenti.Create(&entity.Movimento{
		CodOperazione: entity.CodOpMolituraProprio,
		FlagMolitura:  true,
	})
	require.NoError(t, err)
	uc := registro.NewMolituraProprioUseCase(b, b, logProva())

	_, err = uc.Esegui(context.Background(), tenantProva, richiestaProprio(idMolitura))
	assert.True(t, errors.Is(err, domain.ErrNonTrovato))
}
