package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/bank-service/internal/config"
	"github.com/deppfellow/bank-service/internal/errs"
	"github.com/deppfellow/bank-service/internal/handler"
	"github.com/deppfellow/bank-service/internal/metrics"
	"github.com/deppfellow/bank-service/internal/model"
	"github.com/deppfellow/bank-service/internal/repository"
	"github.com/deppfellow/bank-service/internal/router"
	"github.com/deppfellow/bank-service/internal/server"
	"github.com/deppfellow/bank-service/internal/service"
)

type MockBankDataSource struct {
	mock.Mock
}

func (m *MockBankDataSource) RetrieveBanks(ctx context.Context) ([]model.Bank, error) {
	args := m.Called(ctx)
	banks, _ := args.Get(0).([]model.Bank)
	return banks, args.Error(1)
}

func (m *MockBankDataSource) RetrieveBank(ctx context.Context, accountNumber string) (*model.Bank, error) {
	args := m.Called(ctx, accountNumber)
	bank, _ := args.Get(0).(*model.Bank)
	return bank, args.Error(1)
}

func (m *MockBankDataSource) CreateBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	args := m.Called(ctx, bank)
	created, _ := args.Get(0).(*model.Bank)
	return created, args.Error(1)
}

func (m *MockBankDataSource) UpdateBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	args := m.Called(ctx, bank)
	updated, _ := args.Get(0).(*model.Bank)
	return updated, args.Error(1)
}

func (m *MockBankDataSource) DeleteBank(ctx context.Context, accountNumber string) error {
	return m.Called(ctx, accountNumber).Error(0)
}

func newTestServer(kind string) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server: config.ServerConfig{
				Port:               "0",
				CORSAllowedOrigins: []string{"*"},
			},
			DataSource: config.DataSourceConfig{
				Kind:           kind,
				NetworkURL:     "http://127.0.0.1:9",
				NetworkTimeout: 1,
			},
		},
		Logger:  &logger,
		Metrics: metrics.New(),
	}
}

func newRouter(t *testing.T, s *server.Server, ds repository.BankDataSource) *echo.Echo {
	t.Helper()

	services := &service.Services{Bank: service.NewBankService(ds)}
	return router.NewRouter(s, handler.NewHandlers(s, services))
}

func newMockRouter(t *testing.T) *echo.Echo {
	t.Helper()

	s := newTestServer(config.DataSourceMock)
	repos, err := repository.NewRepositories(s)
	require.NoError(t, err)

	services, err := service.NewService(s, repos)
	require.NoError(t, err)

	return router.NewRouter(s, handler.NewHandlers(s, services))
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestBankRoutes_MockSource(t *testing.T) {
	r := newMockRouter(t)

	t.Run("list banks", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/banks", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[
			{"accountNumber":"1234","trust":3.14,"transactionFee":17},
			{"accountNumber":"1010","trust":17.0,"transactionFee":0},
			{"accountNumber":"5678","trust":0.0,"transactionFee":100}
		]`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("get bank", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/banks/1234", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"accountNumber":"1234","trust":3.14,"transactionFee":17}`, rec.Body.String())
	})

	t.Run("unknown account number", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/banks/9999", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "BANK_NOT_FOUND", body.Code)
		assert.Equal(t, "Could not find a bank with account number 9999", body.Message)
		assert.Equal(t, http.StatusNotFound, body.Status)
	})

	t.Run("blank account number is not found", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/banks/%20", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "BANK_NOT_FOUND", decodeError(t, rec).Code)
	})

	t.Run("create is not supported", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/banks", `{"accountNumber":"acct","trust":31.415,"transactionFee":1}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Code)
		assert.Equal(t, "Internal Server Error", body.Message)
	})

	t.Run("update and delete are not supported", func(t *testing.T) {
		rec := do(r, http.MethodPatch, "/api/banks", `{"accountNumber":"1234","trust":1,"transactionFee":1}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		rec = do(r, http.MethodDelete, "/api/banks/1234", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		rec = do(r, http.MethodGet, "/api/banks/1234", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/accounts", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Route not found", decodeError(t, rec).Message)
	})
}

func TestBankRoutes_InvalidBody(t *testing.T) {
	ds := new(MockBankDataSource)
	r := newRouter(t, newTestServer(config.DataSourcePostgres), ds)

	t.Run("malformed json", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/banks", `{"accountNumber":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "BAD_REQUEST", decodeError(t, rec).Code)
	})

	t.Run("wrong field type", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/banks", `{"accountNumber":"1","transactionFee":"lots"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("blank account number", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/banks", `{"accountNumber":"   ","trust":1,"transactionFee":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Validation failed", body.Message)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "accountNumber", body.Errors[0].Field)
		assert.Equal(t, "must not be blank", body.Errors[0].Error)
	})

	t.Run("missing account number on update", func(t *testing.T) {
		rec := do(r, http.MethodPatch, "/api/banks", `{"trust":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "is required", body.Errors[0].Error)
	})

	ds.AssertNotCalled(t, "CreateBank", mock.Anything, mock.Anything)
	ds.AssertNotCalled(t, "UpdateBank", mock.Anything, mock.Anything)
}

func TestBankRoutes_Writes(t *testing.T) {
	bank := model.Bank{AccountNumber: "4321", Trust: 2.5, TransactionFee: 3}

	ds := new(MockBankDataSource)
	ds.On("CreateBank", mock.Anything, bank).Return(&bank, nil).Once()
	ds.On("CreateBank", mock.Anything, bank).Return(nil, repository.ErrBankAlreadyExists("4321")).Once()
	ds.On("UpdateBank", mock.Anything, bank).Return(&bank, nil).Once()
	ds.On("DeleteBank", mock.Anything, "4321").Return(nil).Once()
	ds.On("DeleteBank", mock.Anything, "4321").Return(repository.ErrBankNotFound("4321")).Once()

	r := newRouter(t, newTestServer(config.DataSourcePostgres), ds)
	payload := `{"accountNumber":"4321","trust":2.5,"transactionFee":3}`

	rec := do(r, http.MethodPost, "/api/banks", payload)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, payload, rec.Body.String())

	rec = do(r, http.MethodPost, "/api/banks", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BANK_ALREADY_EXISTS", decodeError(t, rec).Code)

	rec = do(r, http.MethodPatch, "/api/banks", payload)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, payload, rec.Body.String())

	rec = do(r, http.MethodDelete, "/api/banks/4321", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(r, http.MethodDelete, "/api/banks/4321", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	ds.AssertExpectations(t)
}

func TestBankRoutes_BlankPathParamReachesDataSource(t *testing.T) {
	ds := new(MockBankDataSource)
	ds.On("RetrieveBank", mock.Anything, " ").Return(nil, repository.ErrBankNotFound(" ")).Once()
	ds.On("DeleteBank", mock.Anything, " ").Return(repository.ErrBankNotFound(" ")).Once()

	r := newRouter(t, newTestServer(config.DataSourcePostgres), ds)

	rec := do(r, http.MethodGet, "/api/banks/%20", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, http.MethodDelete, "/api/banks/%20", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "BANK_NOT_FOUND", decodeError(t, rec).Code)

	ds.AssertExpectations(t)
}

func TestBankRoutes_ForwardsEachCallOnce(t *testing.T) {
	ds := new(MockBankDataSource)
	ds.On("RetrieveBanks", mock.Anything).Return(repository.SeedBanks(), nil)

	r := newRouter(t, newTestServer(config.DataSourceMock), ds)

	rec := do(r, http.MethodGet, "/api/banks", "")
	require.Equal(t, http.StatusOK, rec.Code)

	ds.AssertNumberOfCalls(t, "RetrieveBanks", 1)
}

func TestBankRoutes_NetworkSource(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		_, _ = w.Write([]byte(`{"results":[{"accountNumber":"42","trust":1.5,"transactionFee":2}]}`))
	}))
	defer remote.Close()

	s := newTestServer(config.DataSourceNetwork)
	s.Config.DataSource.NetworkURL = remote.URL

	repos, err := repository.NewRepositories(s)
	require.NoError(t, err)
	r := newRouter(t, s, repos.Bank)

	rec := do(r, http.MethodGet, "/api/banks", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"accountNumber":"42","trust":1.5,"transactionFee":2}]`, rec.Body.String())

	rec = do(r, http.MethodGet, "/api/banks/42", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestBankRoutes_NetworkSourceUnreachable(t *testing.T) {
	remote := httptest.NewServer(http.NotFoundHandler())
	remote.Close()

	s := newTestServer(config.DataSourceNetwork)
	s.Config.DataSource.NetworkURL = remote.URL

	repos, err := repository.NewRepositories(s)
	require.NoError(t, err)

	rec := do(newRouter(t, s, repos.Bank), http.MethodGet, "/api/banks", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeError(t, rec).Message)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(config.DataSourceMock)
	s.Config.Server.RateLimit = 1
	r := newRouter(t, s, repository.NewMockBankDataSource())

	first := do(r, http.MethodGet, "/api/banks", "")
	assert.Equal(t, http.StatusOK, first.Code)

	second := do(r, http.MethodGet, "/api/banks", "")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decodeError(t, second).Code)
}
