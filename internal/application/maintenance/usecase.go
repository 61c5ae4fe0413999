// Package maintenance calcula la lista de artículos de hardware con mantenimiento o
// reemplazo vencido. Solo lectura; el envío programado de avisos queda fuera de este core.
package maintenance

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase lista de mantenimiento pendiente.
type UseCase struct {
	articleRepo repository.ArticleRepository
	now         func() time.Time
}

// NewUseCase construye el caso de uso. El reloj es inyectable para tests.
func NewUseCase(articleRepo repository.ArticleRepository) *UseCase {
	return &UseCase{articleRepo: articleRepo, now: time.Now}
}

// DueList devuelve los artículos de hardware con mantenimiento o reemplazo vencido a hoy.
func (uc *UseCase) DueList(ctx context.Context) ([]dto.MaintenanceDueResponse, error) {
	articles, err := uc.articleRepo.ListHardware(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	var due []dto.MaintenanceDueResponse
	for _, a := range articles {
		serviceDue := a.ServiceDue(now)
		replacementDue := a.ReplacementDue(now)
		if !serviceDue && !replacementDue {
			continue
		}
		item := dto.MaintenanceDueResponse{
			ArticleID:      a.ID,
			SKU:            a.SKU,
			Name:           a.Name,
			ServiceDue:     serviceDue,
			ReplacementDue: replacementDue,
		}
		if a.Hardware != nil {
			item.ResponsibleContact = a.Hardware.ResponsibleContact
			item.LastServiceAt = a.Hardware.LastServiceAt
		}
		due = append(due, item)
	}
	return due, nil
}
