package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	intelapp "github.com/splitfin/backend/internal/application/intelligence"
	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/domain/shared"
	"github.com/splitfin/backend/internal/interfaces/http/dto"
	"github.com/splitfin/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPopularityLister struct{ mock.Mock }

func (m *mockPopularityLister) List(ctx context.Context, q intelapp.PopularityQuery) (*intelapp.ListResult[intelligence.PopularityRecord], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*intelapp.ListResult[intelligence.PopularityRecord]), args.Error(1)
}

type mockReorderLister struct{ mock.Mock }

func (m *mockReorderLister) List(ctx context.Context, q intelapp.ReorderQuery) (*intelapp.ListResult[intelligence.ReorderAlert], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*intelapp.ListResult[intelligence.ReorderAlert]), args.Error(1)
}

type mockBrandLister struct{ mock.Mock }

func (m *mockBrandLister) List(ctx context.Context) ([]intelligence.BrandCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]intelligence.BrandCount), args.Error(1)
}

type mockPriceChecker struct{ mock.Mock }

func (m *mockPriceChecker) Check(ctx context.Context, req intelapp.PriceCheckRequest) ([]intelligence.PriceCheckResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]intelligence.PriceCheckResult), args.Error(1)
}

type intelligenceFixture struct {
	popularity *mockPopularityLister
	reorder    *mockReorderLister
	brands     *mockBrandLister
	prices     *mockPriceChecker
	router     *gin.Engine
}

func newIntelligenceFixture() *intelligenceFixture {
	middleware.SetupValidator()

	f := &intelligenceFixture{
		popularity: new(mockPopularityLister),
		reorder:    new(mockReorderLister),
		brands:     new(mockBrandLister),
		prices:     new(mockPriceChecker),
	}
	h := NewIntelligenceHandler(f.popularity, f.reorder, f.brands, f.prices)

	f.router = gin.New()
	f.router.Use(middleware.RequestID())
	f.router.GET("/popularity", h.ListPopularity)
	f.router.GET("/reorder-alerts", h.ListReorderAlerts)
	f.router.GET("/brands", h.ListBrands)
	f.router.POST("/price-check", h.PriceCheck)
	return f
}

func (f *intelligenceFixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestIntelligenceHandler_ListPopularity_Defaults(t *testing.T) {
	f := newIntelligenceFixture()

	want := intelapp.PopularityQuery{
		DateRange: intelligence.Range90Days,
		Brands:    []string{},
		MinOrders: intelligence.DefaultMinOrders,
		SortBy:    intelligence.SortUniqueCustomers,
		SortOrder: intelligence.SortDesc,
		Limit:     intelligence.DefaultLimit,
	}
	result := &intelapp.ListResult[intelligence.PopularityRecord]{
		Items: []intelligence.PopularityRecord{
			{Product: intelligence.Product{ID: 7, SKU: "RAD-001", Name: "Bowl"}, UniqueCustomers: 5, TotalOrders: 6},
		},
		Page: shared.Page{Total: 120, Limit: 50, Offset: 0},
	}
	f.popularity.On("List", mock.Anything, want).Return(result, nil)

	w := f.do(http.MethodGet, "/popularity", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Count)
	assert.Equal(t, 1, *resp.Count)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(120), resp.Meta.Total)
	assert.True(t, resp.Meta.HasMore)
	f.popularity.AssertExpectations(t)
}

func TestIntelligenceHandler_ListPopularity_CoercesParameters(t *testing.T) {
	f := newIntelligenceFixture()

	f.popularity.On("List", mock.Anything, mock.MatchedBy(func(q intelapp.PopularityQuery) bool {
		return q.DateRange == intelligence.Range30Days &&
			assert.ObjectsAreEqual([]string{"rader", "remember", "blomus"}, q.Brands) &&
			q.MinOrders == intelligence.DefaultMinOrders &&
			q.SortBy == intelligence.SortUniqueCustomers &&
			q.SortOrder == intelligence.SortAsc &&
			q.Limit == intelligence.MaxLimit &&
			q.Offset == 3 &&
			q.WebsiteOnly && !q.WebsiteNotLive
	})).Return(&intelapp.ListResult[intelligence.PopularityRecord]{
		Page: shared.Page{Limit: 200, Offset: 3},
	}, nil)

	target := "/popularity?date_range=30D&brand=Rader,%20Remember&brand=blomus&brand=rader" +
		"&min_orders=abc&sort_by=price&sort_order=ASC&limit=9999&offset=3.7&website_only=yes"
	w := f.do(http.MethodGet, target, "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, []any{}, resp.Data)
	f.popularity.AssertExpectations(t)
}

func TestIntelligenceHandler_ListPopularity_ConflictingWebsiteFlags(t *testing.T) {
	f := newIntelligenceFixture()
	f.popularity.On("List", mock.Anything, mock.Anything).
		Return(nil, shared.NewValidationError("website_only and website_not_live cannot both be set"))

	w := f.do(http.MethodGet, "/popularity?website_only=1&website_not_live=1", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
}

func TestIntelligenceHandler_ListPopularity_StoreFailure(t *testing.T) {
	f := newIntelligenceFixture()
	f.popularity.On("List", mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp 10.0.0.3:5432: connection refused"))

	w := f.do(http.MethodGet, "/popularity", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
}

func TestIntelligenceHandler_ListReorderAlerts(t *testing.T) {
	f := newIntelligenceFixture()

	days := decimal.RequireFromString("2.5")
	f.reorder.On("List", mock.Anything, intelapp.ReorderQuery{Threshold: 0, Limit: 20, Offset: 40}).
		Return(&intelapp.ListResult[intelligence.ReorderAlert]{
			Items: []intelligence.ReorderAlert{{
				Product:        intelligence.Product{ID: 3, SKU: "BLO-9", StockOnHand: 0},
				SoldLast30Days: 12,
				DailyVelocity:  decimal.RequireFromString("0.4"),
				DaysRemaining:  &days,
				Priority:       intelligence.PriorityCritical,
			}},
			Page: shared.Page{Total: 41, Limit: 20, Offset: 40},
		}, nil)

	w := f.do(http.MethodGet, "/reorder-alerts?threshold=0&limit=20&offset=40", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.False(t, resp.Meta.HasMore)
	rows, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "critical", rows[0].(map[string]any)["priority"])
	f.reorder.AssertExpectations(t)
}

func TestIntelligenceHandler_ListMetaMirrorsPage(t *testing.T) {
	pages := []shared.Page{
		{Total: 120, Limit: 50, Offset: 0},
		{Total: 100, Limit: 50, Offset: 50},
		{Total: 51, Limit: 50, Offset: 0},
		{Total: 0, Limit: 50, Offset: 0},
	}
	for _, page := range pages {
		f := newIntelligenceFixture()
		f.popularity.On("List", mock.Anything, mock.Anything).
			Return(&intelapp.ListResult[intelligence.PopularityRecord]{Page: page}, nil)
		f.reorder.On("List", mock.Anything, mock.Anything).
			Return(&intelapp.ListResult[intelligence.ReorderAlert]{Page: page}, nil)

		for _, target := range []string{"/popularity", "/reorder-alerts"} {
			w := f.do(http.MethodGet, target, "")
			require.Equal(t, http.StatusOK, w.Code, target)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Meta, target)
			assert.Equal(t, dto.Meta{
				Total:   page.Total,
				Limit:   page.Limit,
				Offset:  page.Offset,
				HasMore: page.HasMore(),
			}, *resp.Meta, "%s %+v", target, page)
		}
	}
}

func TestIntelligenceHandler_ListReorderAlerts_NegativeThresholdFallsBack(t *testing.T) {
	f := newIntelligenceFixture()
	f.reorder.On("List", mock.Anything, intelapp.ReorderQuery{
		Threshold: intelligence.DefaultReorderThreshold,
		Limit:     intelligence.DefaultLimit,
	}).Return(&intelapp.ListResult[intelligence.ReorderAlert]{}, nil)

	w := f.do(http.MethodGet, "/reorder-alerts?threshold=-5&limit=0&offset=-1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	f.reorder.AssertExpectations(t)
}

func TestIntelligenceHandler_ListBrands(t *testing.T) {
	t.Run("returns counts", func(t *testing.T) {
		f := newIntelligenceFixture()
		f.brands.On("List", mock.Anything).Return([]intelligence.BrandCount{
			{Brand: "Rader", ProductCount: 40},
			{Brand: "Relaxound", ProductCount: 3},
		}, nil)

		w := f.do(http.MethodGet, "/brands", "")

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Success bool                      `json:"success"`
			Data    []intelligence.BrandCount `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		require.Len(t, body.Data, 2)
		assert.Equal(t, "Rader", body.Data[0].Brand)
		assert.Equal(t, int64(40), body.Data[0].ProductCount)
	})

	t.Run("empty catalogue is an empty array", func(t *testing.T) {
		f := newIntelligenceFixture()
		f.brands.On("List", mock.Anything).Return(nil, nil)

		w := f.do(http.MethodGet, "/brands", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
	})
}

func TestIntelligenceHandler_PriceCheck(t *testing.T) {
	t.Run("analyze defaults to true", func(t *testing.T) {
		f := newIntelligenceFixture()
		f.prices.On("Check", mock.Anything, intelapp.PriceCheckRequest{ProductIDs: []int64{101, 102}, Analyze: true}).
			Return([]intelligence.PriceCheckResult{
				{ProductID: 101, SKU: "RAD-101", WholesalePrice: decimal.RequireFromString("4.50"), Quotes: []intelligence.PriceQuote{}},
			}, nil)

		w := f.do(http.MethodPost, "/price-check", `{"product_ids":[101,102]}`)

		require.Equal(t, http.StatusOK, w.Code)
		var body dto.PriceCheckResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		require.Len(t, body.Results, 1)
		assert.Equal(t, int64(101), body.Results[0].ProductID)
		f.prices.AssertExpectations(t)
	})

	t.Run("analyze false is passed through", func(t *testing.T) {
		f := newIntelligenceFixture()
		f.prices.On("Check", mock.Anything, intelapp.PriceCheckRequest{ProductIDs: []int64{5}, Analyze: false}).
			Return(nil, nil)

		w := f.do(http.MethodPost, "/price-check", `{"product_ids":[5],"analyze":false}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"results":[]}`, w.Body.String())
		f.prices.AssertExpectations(t)
	})

	t.Run("invalid body never reaches the service", func(t *testing.T) {
		f := newIntelligenceFixture()

		w := f.do(http.MethodPost, "/price-check", `{"product_ids":[]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		f.prices.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	})

	t.Run("batch limit from the service", func(t *testing.T) {
		f := newIntelligenceFixture()
		f.prices.On("Check", mock.Anything, mock.Anything).
			Return(nil, shared.NewValidationError("at most 10 products can be checked at once"))

		w := f.do(http.MethodPost, "/price-check", `{"product_ids":[1,2,3,4,5,6,7,8,9,10,11]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "at most 10 products can be checked at once", resp.Error.Message)
	})
}
