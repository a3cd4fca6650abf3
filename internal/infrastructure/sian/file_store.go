package sian

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oleotech/frantoio-api/internal/application/export"
	"github.com/oleotech/frantoio-api/internal/domain"
)

// Ensure FileStore implements export.FileStore.
var _ export.FileStore = (*FileStore)(nil)

// dirInviati sottodirectory delle copie di audit dei file inviati.
const dirInviati = "sent"

// FileStore persiste i file di registro su disco, una directory per tenant
// sotto la radice configurata.
type FileStore struct {
	radice string
}

// NewFileStore costruisce lo store sulla directory radice.
func NewFileStore(radice string) *FileStore {
	return &FileStore{radice: radice}
}

// percorso valida tenant e nome e compone il percorso assoluto del file.
// Rifiuta nomi con separatori o attraversamento di percorso.
func (s *FileStore) percorso(tenant, nome string) (string, error) {
	if tenant == "" || nome == "" {
		return "", fmt.Errorf("%w: tenant o nome file vuoto", domain.ErrInputNonValido)
	}
	if nome != filepath.Base(nome) || strings.Contains(nome, "..") {
		return "", fmt.Errorf("%w: nome file non ammesso: %s", domain.ErrInputNonValido, nome)
	}
	if strings.ContainsAny(tenant, `/\.`) {
		return "", fmt.Errorf("%w: tenant non ammesso: %s", domain.ErrInputNonValido, tenant)
	}
	return filepath.Join(s.radice, tenant, nome), nil
}

// Scrivi salva il file nella directory del tenant, creandola se serve.
func (s *FileStore) Scrivi(tenant, nome string, dati []byte) error {
	p, err := s.percorso(tenant, nome)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creazione directory export: %w", err)
	}
	if err := os.WriteFile(p, dati, 0o644); err != nil {
		return fmt.Errorf("scrittura file export: %w", err)
	}
	return nil
}

// Leggi restituisce il contenuto del file del tenant.
func (s *FileStore) Leggi(tenant, nome string) ([]byte, error) {
	p, err := s.percorso(tenant, nome)
	if err != nil {
		return nil, err
	}
	dati, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: file %s", domain.ErrNonTrovato, nome)
		}
		return nil, fmt.Errorf("lettura file export: %w", err)
	}
	return dati, nil
}

// Elenca restituisce i nomi dei file XML del tenant, ordinati.
func (s *FileStore) Elenca(tenant string) ([]string, error) {
	if strings.ContainsAny(tenant, `/\.`) || tenant == "" {
		return nil, fmt.Errorf("%w: tenant non ammesso: %s", domain.ErrInputNonValido, tenant)
	}
	dir := filepath.Join(s.radice, tenant)
	voci, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("elenco file export: %w", err)
	}
	var nomi []string
	for _, v := range voci {
		if v.IsDir() || !strings.HasSuffix(v.Name(), ".xml") {
			continue
		}
		nomi = append(nomi, v.Name())
	}
	sort.Strings(nomi)
	return nomi, nil
}

// CopiaInviato copia il file in sent/ con suffisso di timestamp d'invio,
// a fini di audit. L'originale resta al suo posto.
func (s *FileStore) CopiaInviato(tenant, nome string, quando time.Time) error {
	p, err := s.percorso(tenant, nome)
	if err != nil {
		return err
	}
	dati, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: file %s", domain.ErrNonTrovato, nome)
		}
		return fmt.Errorf("lettura file export: %w", err)
	}
	dirSent := filepath.Join(filepath.Dir(p), dirInviati)
	if err := os.MkdirAll(dirSent, 0o755); err != nil {
		return fmt.Errorf("creazione directory sent: %w", err)
	}
	base := strings.TrimSuffix(nome, ".xml")
	copia := fmt.Sprintf("%s_inviato_%s.xml", base, quando.Format("20060102150405"))
	if err := os.WriteFile(filepath.Join(dirSent, copia), dati, 0o644); err != nil {
		return fmt.Errorf("copia di audit: %w", err)
	}
	return nil
}
