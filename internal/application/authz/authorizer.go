// Package authz resuelve la autorización por sede. El contexto de autenticación es un
// valor explícito que viaja en cada llamada de caso de uso, nunca estado ambiental:
// eso mantiene los casos de uso testeables sin montar middleware.
package authz

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// AuthContext identidad del usuario autenticado para una operación.
type AuthContext struct {
	UserID string
	Email  string
	Role   string // admin, responsable, default
}

// IsAdmin indica si el usuario tiene rol administrador (autorizado para toda sede).
func (a AuthContext) IsAdmin() bool { return a.Role == entity.RoleAdmin }

// Authorizer decide si un usuario puede mutar recursos de una sede.
type Authorizer struct {
	locationRepo repository.LocationRepository
}

// NewAuthorizer construye el autorizador.
func NewAuthorizer(locationRepo repository.LocationRepository) *Authorizer {
	return &Authorizer{locationRepo: locationRepo}
}

// ForLocation verifica que el usuario pueda operar sobre la sede: los admin siempre,
// los responsables solo si su email figura en la lista de la sede. El rol default es de
// solo lectura y nunca muta, aunque su email aparezca como contacto.
// Devuelve domain.ErrForbidden si no está autorizado, domain.ErrNotFound si la sede no existe.
func (z *Authorizer) ForLocation(ctx context.Context, auth AuthContext, locationID string) error {
	if auth.IsAdmin() {
		return nil
	}
	if auth.Role == entity.RoleDefault {
		return domain.ErrForbidden
	}
	loc, err := z.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return fmt.Errorf("cargar sede para autorización: %w", err)
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	if !loc.IsResponsible(auth.Email) {
		return domain.ErrForbidden
	}
	return nil
}
