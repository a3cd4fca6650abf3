package postgres

import (
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"

	"github.com/oleotech/frantoio-api/internal/domain"
)

// Tabelle nomi (già quotati) del set di tabelle di un tenant. Il registro
// storico usa un set di tabelle per tenant con suffisso del codice frantoio.
type Tabelle struct {
	Movimenti    string
	Contatori    string
	Cisterne     string
	Articoli     string
	Soggetti     string
	Origini      string
	Prenotazioni string
	Esportazioni string
}

// I codici tenant sono slug minuscoli; tutto il resto viene rifiutato prima
// di toccare un identificatore SQL.
var tenantValido = regexp.MustCompile(`^[a-z][a-z0-9_]{0,23}$`)

// TabelleTenant deriva i nomi delle tabelle del tenant. È l'unico punto del
// codice che costruisce identificatori SQL dal codice tenant: la regola di
// scoping e la sanitizzazione vivono qui.
func TabelleTenant(tenant string) (Tabelle, error) {
	if !tenantValido.MatchString(tenant) {
		return Tabelle{}, fmt.Errorf("%w: codice tenant %q", domain.ErrInputNonValido, tenant)
	}
	t := func(nome string) string {
		return pgx.Identifier{nome + "_" + tenant}.Sanitize()
	}
	return Tabelle{
		Movimenti:    t("movimenti"),
		Contatori:    t("contatori"),
		Cisterne:     t("cisterne"),
		Articoli:     t("articoli"),
		Soggetti:     t("soggetti"),
		Origini:      t("origini"),
		Prenotazioni: t("prenotazioni"),
		Esportazioni: t("esportazioni"),
	}, nil
}
