package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"staybook/internal/bookings/service"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/middleware"
	"staybook/pkg/model"
	"staybook/pkg/money"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBookingService struct {
	service.BookingService

	createFunc  func(ctx context.Context, actor model.Actor, req *model.CreateBookingRequest) (*model.Booking, error)
	listFunc    func(ctx context.Context, actor model.Actor, status *model.BookingStatus, limit int, offset int64) ([]*model.Booking, int64, error)
	approveFunc func(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, actor model.Actor, req *model.CreateBookingRequest) (*model.Booking, error) {
	return m.createFunc(ctx, actor, req)
}

func (m *mockBookingService) List(ctx context.Context, actor model.Actor, status *model.BookingStatus, limit int, offset int64) ([]*model.Booking, int64, error) {
	return m.listFunc(ctx, actor, status, limit, offset)
}

func (m *mockBookingService) Approve(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	return m.approveFunc(ctx, actor, id)
}

func (m *mockBookingService) Reject(context.Context, model.Actor, string) (*model.Booking, error) {
	return nil, apperrors.InvalidTransition("canceled", "reject")
}

func newRouter(svc service.BookingService) http.Handler {
	router := httprouter.New()
	NewBookingHandler(svc, logger.Discard()).RegisterRoutes(router)
	return middleware.Actor()(router)
}

func do(h http.Handler, method, path, body string, actor model.Actor) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderActorID, actor.ID)
	req.Header.Set(middleware.HeaderActorRole, string(actor.Role))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreate_DecodesScheduleVariant(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(_ context.Context, actor model.Actor, req *model.CreateBookingRequest) (*model.Booking, error) {
			require.NotNil(t, req.Schedule.Home)
			assert.Equal(t, "2024-06-01", req.Schedule.Home.CheckIn.String())
			assert.Equal(t, 2, req.Schedule.Home.Guests)
			assert.Equal(t, "SAVE10", req.CouponCode)
			return &model.Booking{
				ID:       "b1",
				GuestID:  actor.ID,
				Status:   model.StatusPending,
				Schedule: req.Schedule,
				Pricing:  model.Pricing{BasePrice: money.New(6000), DiscountAmount: money.New(600), TotalAmount: money.New(5400)},
			}, nil
		},
	}

	rec := do(newRouter(svc), http.MethodPost, "/api/v1/bookings",
		`{"listing_id":"665f1f77bcf86cd799439011","schedule":{"home":{"check_in":"2024-06-01","check_out":"2024-06-04","guests":2}},"coupon_code":"SAVE10"}`,
		model.Actor{ID: "guest-1", Role: model.RoleGuest})

	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		Data model.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "b1", body.Data.ID)
	assert.True(t, money.New(5400).Equal(body.Data.Pricing.TotalAmount))
}

func TestCreate_MalformedDate(t *testing.T) {
	rec := do(newRouter(&mockBookingService{}), http.MethodPost, "/api/v1/bookings",
		`{"listing_id":"x","schedule":{"home":{"check_in":"June 1st","check_out":"2024-06-04","guests":2}}}`,
		model.Actor{ID: "guest-1", Role: model.RoleGuest})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_PassesStatusAndPagination(t *testing.T) {
	svc := &mockBookingService{
		listFunc: func(_ context.Context, actor model.Actor, status *model.BookingStatus, limit int, offset int64) ([]*model.Booking, int64, error) {
			require.NotNil(t, status)
			assert.Equal(t, model.StatusPending, *status)
			assert.Equal(t, 5, limit)
			assert.Equal(t, int64(10), offset)
			assert.Equal(t, model.RoleHost, actor.Role)
			return []*model.Booking{{ID: "b1"}}, 11, nil
		},
	}

	rec := do(newRouter(svc), http.MethodGet, "/api/v1/bookings?status=pending&limit=5&offset=10", "",
		model.Actor{ID: "host-1", Role: model.RoleHost})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_count":11`)
}

func TestTransitions_RouteToService(t *testing.T) {
	var gotID string
	svc := &mockBookingService{
		approveFunc: func(_ context.Context, _ model.Actor, id string) (*model.Booking, error) {
			gotID = id
			return &model.Booking{ID: id, Status: model.StatusActive, PaymentStatus: model.PaymentPaid}, nil
		},
	}
	router := newRouter(svc)
	hostActor := model.Actor{ID: "host-1", Role: model.RoleHost}

	rec := do(router, http.MethodPost, "/api/v1/bookings/id/b1/approve", "", hostActor)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "b1", gotID)
	assert.Contains(t, rec.Body.String(), `"payment_status":"paid"`)

	rec = do(router, http.MethodPost, "/api/v1/bookings/id/b1/reject", "", hostActor)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), apperrors.CodeInvalidTransition)
}

func TestLedgerFailureIsBadGateway(t *testing.T) {
	svc := &mockBookingService{
		approveFunc: func(context.Context, model.Actor, string) (*model.Booking, error) {
			return nil, apperrors.LedgerFailure("capture", context.DeadlineExceeded)
		},
	}

	rec := do(newRouter(svc), http.MethodPost, "/api/v1/bookings/id/b1/approve", "", model.Actor{ID: "host-1", Role: model.RoleHost})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "deadline", "causes stay server-side")
}
