package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bank-service/internal/model"
	"github.com/deppfellow/bank-service/internal/server"
	"github.com/deppfellow/bank-service/internal/service"
	"github.com/deppfellow/bank-service/internal/validation"
)

type GetBanksRequest struct{}

func (r *GetBanksRequest) Validate() error {
	return nil
}

// GetBankRequest leaves blank account numbers to the data source, which
// reports them as not found.
type GetBankRequest struct {
	AccountNumber string `param:"accountNumber"`
}

func (r *GetBankRequest) Validate() error {
	return validation.Validator().Struct(r)
}

type DeleteBankRequest struct {
	AccountNumber string `param:"accountNumber"`
}

func (r *DeleteBankRequest) Validate() error {
	return validation.Validator().Struct(r)
}

// BankRequest is the JSON body of POST and PATCH /api/banks. Trust and
// transactionFee default to zero when omitted.
type BankRequest struct {
	AccountNumber  string  `json:"accountNumber" validate:"required,notblank"`
	Trust          float64 `json:"trust"`
	TransactionFee int     `json:"transactionFee"`
}

func (r *BankRequest) Validate() error {
	return validation.Validator().Struct(r)
}

func (r *BankRequest) toBank() model.Bank {
	return model.Bank{
		AccountNumber:  r.AccountNumber,
		Trust:          r.Trust,
		TransactionFee: r.TransactionFee,
	}
}

type CreateBankRequest struct {
	BankRequest
}

type UpdateBankRequest struct {
	BankRequest
}

// BankHandler serves /api/banks.
type BankHandler struct {
	Handler
	bankService *service.BankService
}

func NewBankHandler(s *server.Server, bankService *service.BankService) *BankHandler {
	return &BankHandler{
		Handler:     NewHandler(s),
		bankService: bankService,
	}
}

// RegisterRoutes mounts the bank endpoints on g.
func (h *BankHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/banks", Handle(h.Handler, h.GetBanks, http.StatusOK))
	g.GET("/banks/:accountNumber", Handle(h.Handler, h.GetBank, http.StatusOK))
	g.POST("/banks", Handle(h.Handler, h.AddBank, http.StatusCreated))
	g.PATCH("/banks", Handle(h.Handler, h.UpdateBank, http.StatusOK))
	g.DELETE("/banks/:accountNumber", HandleNoContent(h.Handler, h.DeleteBank, http.StatusNoContent))
}

func (h *BankHandler) GetBanks(c echo.Context, _ *GetBanksRequest) ([]model.Bank, error) {
	return h.bankService.GetBanks(c.Request().Context())
}

func (h *BankHandler) GetBank(c echo.Context, req *GetBankRequest) (*model.Bank, error) {
	return h.bankService.GetBank(c.Request().Context(), req.AccountNumber)
}

func (h *BankHandler) AddBank(c echo.Context, req *CreateBankRequest) (*model.Bank, error) {
	return h.bankService.AddBank(c.Request().Context(), req.toBank())
}

func (h *BankHandler) UpdateBank(c echo.Context, req *UpdateBankRequest) (*model.Bank, error) {
	return h.bankService.UpdateBank(c.Request().Context(), req.toBank())
}

func (h *BankHandler) DeleteBank(c echo.Context, req *DeleteBankRequest) error {
	return h.bankService.DeleteBank(c.Request().Context(), req.AccountNumber)
}
