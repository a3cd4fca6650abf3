package repository

import (
	"github.com/shopspring/decimal"

	"github.com/oleotech/frantoio-api/internal/domain/entity"
)

// CisternaRepository inventario delle cisterne del tenant.
type CisternaRepository interface {
	GetByID(id int64) (*entity.Cisterna, error)
	List() ([]*entity.Cisterna, error)
	// Carica incrementa la giacenza di deltaKg e imposta l'articolo contenuto,
	// con un singolo statement atomico che rifiuta giacenza negativa o oltre
	// capacità (ErrGiacenzaInsufficiente / ErrCapacitaSuperata). Va eseguita
	// nella stessa transazione della molitura che la origina.
	Carica(id int64, deltaKg decimal.Decimal, idArticolo int64) error
}
