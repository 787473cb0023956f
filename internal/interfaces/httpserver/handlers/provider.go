package handlers

import (
	"github.com/rs/zerolog"

	domain "zoo-server/services/media-api/internal/domain/media"
)

// Provider wires HTTP handlers.
type Provider struct {
	Media        *MediaHandler
	Animals      *EntityImageHandler
	Exhibits     *EntityImageHandler
	Replacements *ReplacementHandler
	Files        *FileHandler
	Service      ImageService
}

func NewProvider(service *domain.Service, store domain.Storage, log zerolog.Logger) *Provider {
	return newProvider(service, store, log)
}

func newProvider(service ImageService, store domain.Storage, log zerolog.Logger) *Provider {
	return &Provider{
		Media:        NewMediaHandler(service, log),
		Animals:      NewEntityImageHandler(domain.EntityAnimal, service, log),
		Exhibits:     NewEntityImageHandler(domain.EntityExhibit, service, log),
		Replacements: NewReplacementHandler(service, log),
		Files:        NewFileHandler(store, log),
		Service:      service,
	}
}
