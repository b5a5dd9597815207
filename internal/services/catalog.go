package services

import "gulf-float-booking/internal/models"

// CatalogService serves the static list of bookable services. The catalog is
// loaded once at startup and never mutated.
type CatalogService struct {
	services []models.Service
	byID     map[string]models.Service
}

// NewCatalogService creates a catalog service over the given service list.
func NewCatalogService(services []models.Service) *CatalogService {
	byID := make(map[string]models.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}
	return &CatalogService{services: services, byID: byID}
}

// Services returns all catalog entries in their configured order.
func (c *CatalogService) Services() []models.Service {
	out := make([]models.Service, len(c.services))
	copy(out, c.services)
	return out
}

// Lookup returns the service with the given id.
func (c *CatalogService) Lookup(serviceID string) (models.Service, error) {
	s, ok := c.byID[serviceID]
	if !ok {
		return models.Service{}, models.ErrUnknownService
	}
	return s, nil
}
