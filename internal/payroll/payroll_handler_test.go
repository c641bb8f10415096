package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"peopleflow-hr/internal/payroll"
	payrollerrors "peopleflow-hr/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *apiMeta        `json:"meta"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

type fakePayrollService struct {
	previewFn      func(ctx context.Context, req payroll.PreviewRequest) (payroll.PreviewResponse, error)
	createFn       func(ctx context.Context, companyID, actorID string, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error)
	runFn          func(ctx context.Context, companyID, actorID string, req payroll.RunPayrollRequest) (payroll.RunPayrollResponse, error)
	requestRunFn   func(ctx context.Context, companyID, actorID string, req payroll.RunPayrollRequest) (payroll.RunRequestedResponse, error)
	getAllFn       func(ctx context.Context, companyID string, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollResponse, error)
	getByIDFn      func(ctx context.Context, companyID, id string) (payroll.PayrollResponse, error)
	getBreakdownFn func(ctx context.Context, companyID, id string) (payroll.PayrollBreakdownResponse, error)
	approveFn      func(ctx context.Context, companyID, actorID, id string) (payroll.PayrollResponse, error)
	markPaidFn     func(ctx context.Context, companyID, actorID, id string) (payroll.PayrollResponse, error)
	cancelFn       func(ctx context.Context, companyID, actorID, id string) (payroll.PayrollResponse, error)
	deleteFn       func(ctx context.Context, companyID, id string) error
}

func (f *fakePayrollService) Preview(ctx context.Context, req payroll.PreviewRequest) (payroll.PreviewResponse, error) {
	return f.previewFn(ctx, req)
}

func (f *fakePayrollService) Create(ctx context.Context, companyID, actorID string, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
	return f.createFn(ctx, companyID, actorID, req)
}

func (f *fakePayrollService) Run(ctx context.Context, companyID, actorID string, req payroll.RunPayrollRequest) (payroll.RunPayrollResponse, error) {
	return f.runFn(ctx, companyID, actorID, req)
}

func (f *fakePayrollService) RequestRun(ctx context.Context, companyID, actorID string, req payroll.RunPayrollRequest) (payroll.RunRequestedResponse, error) {
	return f.requestRunFn(ctx, companyID, actorID, req)
}

func (f *fakePayrollService) GetAll(ctx context.Context, companyID string, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollResponse, error) {
	return f.getAllFn(ctx, companyID, filter)
}

func (f *fakePayrollService) GetByID(ctx context.Context, companyID, id string) (payroll.PayrollResponse, error) {
	return f.getByIDFn(ctx, companyID, id)
}

func (f *fakePayrollService) GetBreakdown(ctx context.Context, companyID, id string) (payroll.PayrollBreakdownResponse, error) {
	return f.getBreakdownFn(ctx, companyID, id)
}

func (f *fakePayrollService) Approve(ctx context.Context, companyID, actorID, id string) (payroll.PayrollResponse, error) {
	return f.approveFn(ctx, companyID, actorID, id)
}

func (f *fakePayrollService) MarkAsPaid(ctx context.Context, companyID, actorID, id string) (payroll.PayrollResponse, error) {
	return f.markPaidFn(ctx, companyID, actorID, id)
}

func (f *fakePayrollService) Cancel(ctx context.Context, companyID, actorID, id string) (payroll.PayrollResponse, error) {
	return f.cancelFn(ctx, companyID, actorID, id)
}

func (f *fakePayrollService) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}

func newJSONContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func TestPayrollHandler_Create(t *testing.T) {
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	svc := &fakePayrollService{
		createFn: func(ctx context.Context, cid, aid string, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, actorID, aid)
			assert.Equal(t, employeeID, req.EmployeeID)
			require.Len(t, req.AdditionalEarnings, 1)
			assert.Equal(t, "overtime", req.AdditionalEarnings[0].Name)
			return payroll.PayrollResponse{ID: uuid.New().String(), Status: payroll.StatusDraft, NetPay: "241820.00"}, nil
		},
	}

	body := `{"employee_id":"` + employeeID + `","period_start":"2024-03-01","period_end":"2024-03-31","additional_earnings":[{"name":"overtime","amount":"30000.00"}]}`
	c, w := newJSONContext(http.MethodPost, "/payrolls", body)
	c.Set("company_id", companyID)
	c.Set("employee_id", actorID)

	payroll.NewHandler(svc).Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var got payroll.PayrollResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "241820.00", got.NetPay)
}

func TestPayrollHandler_Create_ValidationError(t *testing.T) {
	svc := &fakePayrollService{}

	c, w := newJSONContext(http.MethodPost, "/payrolls", `{"period_start":"2024-03-01","period_end":"2024-03-31"}`)
	c.Set("company_id", uuid.New().String())

	payroll.NewHandler(svc).Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestPayrollHandler_Create_FallsBackToUserID(t *testing.T) {
	actorID := uuid.New().String()
	svc := &fakePayrollService{
		createFn: func(ctx context.Context, cid, aid string, req payroll.CreatePayrollRequest) (payroll.PayrollResponse, error) {
			assert.Equal(t, actorID, aid)
			return payroll.PayrollResponse{}, nil
		},
	}

	body := `{"employee_id":"` + uuid.New().String() + `","period_start":"2024-03-01","period_end":"2024-03-31"}`
	c, w := newJSONContext(http.MethodPost, "/payrolls", body)
	c.Set("company_id", uuid.New().String())
	c.Set("user_id_validated", actorID)

	payroll.NewHandler(svc).Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestPayrollHandler_Preview(t *testing.T) {
	svc := &fakePayrollService{
		previewFn: func(ctx context.Context, req payroll.PreviewRequest) (payroll.PreviewResponse, error) {
			assert.Equal(t, "GY", req.JurisdictionCode)
			assert.Equal(t, "300000", req.GrossPay)
			return payroll.PreviewResponse{
				AsOf: "2024-05-15",
				TaxBreakdownResponse: payroll.TaxBreakdownResponse{
					JurisdictionCode: "GY",
					IncomeTax:        "42500.00",
					NetPay:           "241820.00",
				},
			}, nil
		},
	}

	c, w := newJSONContext(http.MethodPost, "/payroll-tax/preview", `{"jurisdiction_code":"GY","gross_pay":"300000","pay_frequency":"monthly","as_of":"2024-05-15"}`)

	payroll.NewHandler(svc).Preview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "2024-05-15", data["as_of"])
	assert.Equal(t, "42500.00", data["income_tax"])
}

func TestPayrollHandler_Preview_UnsupportedFrequency(t *testing.T) {
	c, w := newJSONContext(http.MethodPost, "/payroll-tax/preview", `{"jurisdiction_code":"GY","gross_pay":"300000","pay_frequency":"daily"}`)

	payroll.NewHandler(&fakePayrollService{}).Preview(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	assert.Contains(t, env.Error.Message, "monthly")
}

func TestPayrollHandler_Run(t *testing.T) {
	companyID := uuid.New().String()
	svc := &fakePayrollService{
		runFn: func(ctx context.Context, cid, aid string, req payroll.RunPayrollRequest) (payroll.RunPayrollResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, "2024-03-01", req.PeriodStart)
			assert.Empty(t, req.RunID)
			return payroll.RunPayrollResponse{
				RunID:     uuid.New().String(),
				Employees: 2,
				Created:   1,
				Failed:    1,
				Failures:  []payroll.RunFailure{{EmployeeID: "e-2", Stage: "rules", Code: "NOT_FOUND"}},
			}, nil
		},
	}

	c, w := newJSONContext(http.MethodPost, "/payrolls/run", `{"period_start":"2024-03-01","period_end":"2024-03-31","run_id":"ignored"}`)
	c.Set("company_id", companyID)
	c.Set("employee_id", uuid.New().String())

	payroll.NewHandler(svc).Run(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var got payroll.RunPayrollResponse
	require.NoError(t, json.Unmarshal(mustDecodeEnvelope(t, w.Body.Bytes()).Data, &got))
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, "rules", got.Failures[0].Stage)
}

func TestPayrollHandler_RequestRun(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		svc := &fakePayrollService{
			requestRunFn: func(ctx context.Context, cid, aid string, req payroll.RunPayrollRequest) (payroll.RunRequestedResponse, error) {
				return payroll.RunRequestedResponse{RunID: "r-1", PeriodStart: req.PeriodStart, PeriodEnd: req.PeriodEnd}, nil
			},
		}

		c, w := newJSONContext(http.MethodPost, "/payrolls/run/async", `{"period_start":"2024-03-01","period_end":"2024-03-31"}`)

		payroll.NewHandler(svc).RequestRun(c)

		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("queue unavailable", func(t *testing.T) {
		svc := &fakePayrollService{
			requestRunFn: func(ctx context.Context, cid, aid string, req payroll.RunPayrollRequest) (payroll.RunRequestedResponse, error) {
				return payroll.RunRequestedResponse{}, payrollerrors.ErrRunQueueUnavailable
			},
		}

		c, w := newJSONContext(http.MethodPost, "/payrolls/run/async", `{"period_start":"2024-03-01","period_end":"2024-03-31"}`)

		payroll.NewHandler(svc).RequestRun(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestPayrollHandler_GetAll_Paginates(t *testing.T) {
	svc := &fakePayrollService{
		getAllFn: func(ctx context.Context, cid string, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollResponse, error) {
			assert.Equal(t, "2024-03", filter.Period)
			assert.Equal(t, "draft", filter.Status)
			out := make([]payroll.PayrollResponse, 5)
			for i := range out {
				out[i] = payroll.PayrollResponse{ID: uuid.New().String()}
			}
			return out, nil
		},
	}

	c, w := newJSONContext(http.MethodGet, "/payrolls?period=2024-03&status=draft&page=3&page_size=2", "")
	c.Set("company_id", uuid.New().String())

	payroll.NewHandler(svc).GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(5), env.Meta.Total)
	assert.Equal(t, 3, env.Meta.TotalPages)

	var got []payroll.PayrollResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got, 1)
}

func TestPayrollHandler_GetBreakdown(t *testing.T) {
	companyID := uuid.New().String()
	payrollID := uuid.New().String()
	svc := &fakePayrollService{
		getBreakdownFn: func(ctx context.Context, cid, id string) (payroll.PayrollBreakdownResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, payrollID, id)
			return payroll.PayrollBreakdownResponse{
				PayrollID: payrollID,
				Status:    payroll.StatusDraft,
				Tax:       payroll.TaxBreakdownResponse{NetPay: "241820.00"},
			}, nil
		},
	}

	c, w := newJSONContext(http.MethodGet, "/payrolls/"+payrollID+"/breakdown", "")
	c.Params = []gin.Param{{Key: "id", Value: payrollID}}
	c.Set("company_id", companyID)

	payroll.NewHandler(svc).GetBreakdown(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mustDecodeEnvelope(t, w.Body.Bytes()).Ok)
}

func TestPayrollHandler_GetById_NotFound(t *testing.T) {
	svc := &fakePayrollService{
		getByIDFn: func(ctx context.Context, cid, id string) (payroll.PayrollResponse, error) {
			return payroll.PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		},
	}

	c, w := newJSONContext(http.MethodGet, "/payrolls/x", "")
	c.Params = []gin.Param{{Key: "id", Value: "x"}}

	payroll.NewHandler(svc).GetById(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPayrollHandler_Workflow(t *testing.T) {
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	id := uuid.New().String()

	svc := &fakePayrollService{
		approveFn: func(ctx context.Context, cid, aid, pid string) (payroll.PayrollResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, actorID, aid)
			assert.Equal(t, id, pid)
			return payroll.PayrollResponse{ID: id, Status: payroll.StatusApproved}, nil
		},
		markPaidFn: func(ctx context.Context, cid, aid, pid string) (payroll.PayrollResponse, error) {
			return payroll.PayrollResponse{ID: id, Status: payroll.StatusPaid}, nil
		},
		cancelFn: func(ctx context.Context, cid, aid, pid string) (payroll.PayrollResponse, error) {
			return payroll.PayrollResponse{}, payrollerrors.ErrInvalidStatusTransition
		},
	}
	h := payroll.NewHandler(svc)

	call := func(action string, fn gin.HandlerFunc) *httptest.ResponseRecorder {
		c, w := newJSONContext(http.MethodPost, "/payrolls/"+id+"/"+action, "")
		c.Params = []gin.Param{{Key: "id", Value: id}}
		c.Set("company_id", companyID)
		c.Set("employee_id", actorID)
		fn(c)
		return w
	}

	assert.Equal(t, http.StatusOK, call("approve", h.Approve).Code)
	assert.Equal(t, http.StatusOK, call("mark-paid", h.MarkAsPaid).Code)

	w := call("cancel", h.Cancel)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STATE", mustDecodeEnvelope(t, w.Body.Bytes()).Error.Code)
}

func TestPayrollHandler_Delete(t *testing.T) {
	companyID := uuid.New().String()
	id := uuid.New().String()
	svc := &fakePayrollService{
		deleteFn: func(ctx context.Context, cid, pid string) error {
			assert.Equal(t, companyID, cid)
			if pid != id {
				return payrollerrors.ErrDeleteOnlyDraft
			}
			return nil
		},
	}
	h := payroll.NewHandler(svc)

	c, w := newJSONContext(http.MethodDelete, "/payrolls/"+id, "")
	c.Params = []gin.Param{{Key: "id", Value: id}}
	c.Set("company_id", companyID)
	h.Delete(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newJSONContext(http.MethodDelete, "/payrolls/other", "")
	c.Params = []gin.Param{{Key: "id", Value: "other"}}
	c.Set("company_id", companyID)
	h.Delete(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
