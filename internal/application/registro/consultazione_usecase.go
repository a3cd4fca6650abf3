package registro

import (
	"context"
	"fmt"

	"github.com/oleotech/frantoio-api/internal/domain"
	"github.com/oleotech/frantoio-api/internal/domain/entity"
	"github.com/oleotech/frantoio-api/internal/domain/repository"
)

// ConsultazioneUseCase letture del registro e delle cisterne, fuori transazione.
type ConsultazioneUseCase struct {
	repos Repos
}

// NewConsultazioneUseCase costruisce il caso d'uso.
func NewConsultazioneUseCase(repos Repos) *ConsultazioneUseCase {
	return &ConsultazioneUseCase{repos: repos}
}

// Movimenti ricerca nel registro del tenant con i filtri indicati.
func (uc *ConsultazioneUseCase) Movimenti(ctx context.Context, tenant string, f repository.FiltroMovimenti) ([]*entity.Movimento, error) {
	repo, err := uc.repos.Movimenti(tenant)
	if err != nil {
		return nil, err
	}
	return repo.Search(f)
}

// Movimento restituisce il movimento o ErrNonTrovato.
func (uc *ConsultazioneUseCase) Movimento(ctx context.Context, tenant string, id int64) (*entity.Movimento, error) {
	repo, err := uc.repos.Movimenti(tenant)
	if err != nil {
		return nil, err
	}
	m, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: movimento %d", domain.ErrNonTrovato, id)
	}
	return m, nil
}

// Cisterne elenca le cisterne del tenant con giacenza corrente.
func (uc *ConsultazioneUseCase) Cisterne(ctx context.Context, tenant string) ([]*entity.Cisterna, error) {
	repo, err := uc.repos.Cisterne(tenant)
	if err != nil {
		return nil, err
	}
	return repo.List()
}

// Cisterna restituisce la cisterna o ErrNonTrovato.
func (uc *ConsultazioneUseCase) Cisterna(ctx context.Context, tenant string, id int64) (*entity.Cisterna, error) {
	repo, err := uc.repos.Cisterne(tenant)
	if err != nil {
		return nil, err
	}
	cis, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cis == nil {
		return nil, fmt.Errorf("%w: cisterna %d", domain.ErrNonTrovato, id)
	}
	return cis, nil
}
