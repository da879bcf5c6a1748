// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives validated
// data from the handler and calls the data sources on its behalf.
package service

import (
	"github.com/deppfellow/bank-service/internal/repository"
	"github.com/deppfellow/bank-service/internal/server"
)

type Services struct {
	Bank *BankService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Bank: NewBankService(repos.Bank),
	}, nil
}
