// Package handler is the HTTP layer: it binds and validates requests using
// the validation package, calls the service layer and writes responses.
package handler

import (
	"github.com/deppfellow/bank-service/internal/server"
	"github.com/deppfellow/bank-service/internal/service"
)

type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Bank    *BankHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Bank:    NewBankHandler(s, services.Bank),
	}
}
