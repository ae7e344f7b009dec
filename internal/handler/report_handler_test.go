package handler_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coop-reconciliation/internal/domain"
	"coop-reconciliation/internal/handler"
	"coop-reconciliation/internal/usecase"
	mock_usecase "coop-reconciliation/internal/usecase/mocks"
)

func newServer(t *testing.T, repo usecase.RecordRepository) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	uc := usecase.NewReportUseCase(repo, cache.New(time.Minute, time.Minute), nil, log).
		WithClock(func() time.Time { return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) })
	srv := httptest.NewServer(handler.NewReportHandler(uc, log).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func expectSnapshot(repo *mock_usecase.MockRecordRepository, tenant string, times int) {
	deposits := []domain.DepositEntry{{
		MemberID: "M1", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		DepositAmount: decimal.NewFromInt(500), TotalAmount: decimal.NewFromInt(500), PaymentMode: "cash",
	}}
	repo.EXPECT().GetDeposits(gomock.Any(), tenant).Return(deposits, nil).Times(times)
	repo.EXPECT().GetExpenses(gomock.Any(), tenant).Return(nil, nil).Times(times)
	repo.EXPECT().GetLoans(gomock.Any(), tenant).Return(nil, nil).Times(times)
	repo.EXPECT().GetMembers(gomock.Any(), tenant).Return([]domain.MemberRecord{{ID: "M1", Name: "Asha"}}, nil).Times(times)
}

func TestReportHandler_GetReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_usecase.NewMockRecordRepository(ctrl)
	expectSnapshot(repo, "society-1", 1)
	srv := newServer(t, repo)

	resp, err := http.Get(srv.URL + "/tenants/society-1/report?start=2024-01-01&end=2024-01-31")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body struct {
		TenantID    string `json:"tenant_id"`
		WindowStart string `json:"window_start"`
		DailyLedger []struct {
			Date           string `json:"date"`
			CashIn         string `json:"cash_in"`
			RunningBalance string `json:"running_balance"`
		} `json:"daily_ledger"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "society-1", body.TenantID)
	assert.Equal(t, "2024-01-01", body.WindowStart)
	require.Len(t, body.DailyLedger, 1)
	assert.Equal(t, "500", body.DailyLedger[0].CashIn)
	assert.Equal(t, "500", body.DailyLedger[0].RunningBalance)
}

func TestReportHandler_Workbook(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_usecase.NewMockRecordRepository(ctrl)
	expectSnapshot(repo, "society-1", 1)
	srv := newServer(t, repo)

	resp, err := http.Get(srv.URL + "/tenants/society-1/report?format=xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestReportHandler_BadRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv := newServer(t, mock_usecase.NewMockRecordRepository(ctrl))

	for _, path := range []string{
		"/tenants/society-1/report?start=01-01-2024",
		"/tenants/society-1/report?end=tomorrow",
		"/tenants/society-1/report?start=2024-02-01&end=2024-01-01",
	} {
		t.Run(path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestReportHandler_RepositoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_usecase.NewMockRecordRepository(ctrl)
	repo.EXPECT().GetDeposits(gomock.Any(), "society-1").Return(nil, errors.New("db down"))
	srv := newServer(t, repo)

	resp, err := http.Get(srv.URL + "/tenants/society-1/report")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestReportHandler_InvalidateForcesRecompute(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_usecase.NewMockRecordRepository(ctrl)
	expectSnapshot(repo, "society-1", 2)
	srv := newServer(t, repo)

	get := func() {
		resp, err := http.Get(srv.URL + "/tenants/society-1/report")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	get()
	get() // cached

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/tenants/society-1/report/cache", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	get()
}

func TestReportHandler_Healthz(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv := newServer(t, mock_usecase.NewMockRecordRepository(ctrl))

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

type brokenWriter struct {
	header http.Header
	status int
}

func (w *brokenWriter) Header() http.Header       { return w.header }
func (w *brokenWriter) WriteHeader(status int)    { w.status = status }
func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestReportHandler_LogsResponseWriteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	log, hook := logtest.NewNullLogger()
	uc := usecase.NewReportUseCase(mock_usecase.NewMockRecordRepository(ctrl), nil, nil, log)

	w := &brokenWriter{header: http.Header{}}
	handler.NewReportHandler(uc, log).Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.status)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "failed to write response", hook.LastEntry().Message)
}
