package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	intelapp "github.com/splitfin/backend/internal/application/intelligence"
	"github.com/splitfin/backend/internal/domain/intelligence"
	"github.com/splitfin/backend/internal/interfaces/http/dto"
	"github.com/splitfin/backend/internal/interfaces/http/middleware"
)

// PopularityLister lists ranked products
type PopularityLister interface {
	List(ctx context.Context, q intelapp.PopularityQuery) (*intelapp.ListResult[intelligence.PopularityRecord], error)
}

// ReorderLister lists low-stock products
type ReorderLister interface {
	List(ctx context.Context, q intelapp.ReorderQuery) (*intelapp.ListResult[intelligence.ReorderAlert], error)
}

// BrandLister lists catalogue brands
type BrandLister interface {
	List(ctx context.Context) ([]intelligence.BrandCount, error)
}

// PriceChecker prices products against the market
type PriceChecker interface {
	Check(ctx context.Context, req intelapp.PriceCheckRequest) ([]intelligence.PriceCheckResult, error)
}

// Query parameter ranges shared by listings and exports
var (
	minOrdersRange = dto.IntRange{Default: intelligence.DefaultMinOrders, Min: 1}
	offsetRange    = dto.IntRange{Default: 0, Min: 0}
	thresholdRange = dto.IntRange{Default: intelligence.DefaultReorderThreshold, Min: 0}
	listLimitRange = dto.IntRange{Default: intelligence.DefaultLimit, Min: 1, Max: intelligence.MaxLimit}
)

// IntelligenceHandler serves the product intelligence endpoints
type IntelligenceHandler struct {
	BaseHandler
	popularity PopularityLister
	reorder    ReorderLister
	brands     BrandLister
	prices     PriceChecker
}

// NewIntelligenceHandler creates a new IntelligenceHandler
func NewIntelligenceHandler(popularity PopularityLister, reorder ReorderLister, brands BrandLister, prices PriceChecker) *IntelligenceHandler {
	return &IntelligenceHandler{
		popularity: popularity,
		reorder:    reorder,
		brands:     brands,
		prices:     prices,
	}
}

// ListPopularity godoc
// @ID           listPopularity
// @Summary      Rank products by customer breadth
// @Description  Aggregates non-cancelled order lines per product over the date range. Products with fewer than min_orders orders are excluded. Unparseable numbers fall back to their defaults.
// @Tags         intelligence
// @Produce      json
// @Param        date_range        query  string  false  "Lookback window"  Enums(7d, 30d, 90d, 6m, 12m, all)  default(90d)
// @Param        brand             query  string  false  "Brand, or comma separated brands (case-insensitive)"
// @Param        min_orders        query  int     false  "Minimum distinct orders"  default(2)
// @Param        sort_by           query  string  false  "Sort column"  Enums(unique_customers, total_orders, total_quantity, total_revenue, trend, stock_on_hand, name)  default(unique_customers)
// @Param        sort_order        query  string  false  "Sort direction"  Enums(asc, desc)  default(desc)
// @Param        limit             query  int     false  "Page size (max 200)"  default(50)
// @Param        offset            query  int     false  "Rows to skip"  default(0)
// @Param        website_only      query  bool    false  "Only products live on the website"
// @Param        website_not_live  query  bool    false  "Only products not live on the website"
// @Success      200  {object}  dto.PopularityListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /popularity [get]
func (h *IntelligenceHandler) ListPopularity(c *gin.Context) {
	result, err := h.popularity.List(c.Request.Context(), parsePopularityQuery(c, listLimitRange))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	items := result.Items
	if items == nil {
		items = []intelligence.PopularityRecord{}
	}
	h.SuccessList(c, items, len(items), dto.NewMeta(result.Page))
}

// ListReorderAlerts godoc
// @ID           listReorderAlerts
// @Summary      List products at or below the stock threshold
// @Description  Velocity is units sold over the trailing 30 days divided by 30. Ordered by days remaining (unknown last), then stock on hand.
// @Tags         intelligence
// @Produce      json
// @Param        threshold  query  int  false  "Stock threshold (inclusive)"  default(10)
// @Param        limit      query  int  false  "Page size (max 200)"  default(50)
// @Param        offset     query  int  false  "Rows to skip"  default(0)
// @Success      200  {object}  dto.ReorderListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /reorder-alerts [get]
func (h *IntelligenceHandler) ListReorderAlerts(c *gin.Context) {
	result, err := h.reorder.List(c.Request.Context(), parseReorderQuery(c, listLimitRange))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	items := result.Items
	if items == nil {
		items = []intelligence.ReorderAlert{}
	}
	h.SuccessList(c, items, len(items), dto.NewMeta(result.Page))
}

// ListBrands godoc
// @ID           listBrands
// @Summary      List brands with product counts
// @Tags         intelligence
// @Produce      json
// @Success      200  {object}  dto.BrandListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /brands [get]
func (h *IntelligenceHandler) ListBrands(c *gin.Context) {
	brands, err := h.brands.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if brands == nil {
		brands = []intelligence.BrandCount{}
	}
	h.Success(c, brands)
}

// PriceCheck godoc
// @ID           priceCheck
// @Summary      Discover market prices for products
// @Description  Searches the provider chain for each product and, unless analyze is false, asks the completion provider for a market verdict. Provider failures never fail the request; unknown ids are omitted.
// @Tags         intelligence
// @Accept       json
// @Produce      json
// @Param        request  body      dto.PriceCheckRequest  true  "Products to price"
// @Success      200      {object}  dto.PriceCheckResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /price-check [post]
func (h *IntelligenceHandler) PriceCheck(c *gin.Context) {
	var req dto.PriceCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	results, err := h.prices.Check(c.Request.Context(), intelapp.PriceCheckRequest{
		ProductIDs: req.ProductIDs,
		Analyze:    req.AnalyzeOrDefault(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if results == nil {
		results = []intelligence.PriceCheckResult{}
	}
	c.JSON(http.StatusOK, dto.PriceCheckResponse{Success: true, Results: results})
}

// parsePopularityQuery coerces the popularity query string; it never fails
func parsePopularityQuery(c *gin.Context, limit dto.IntRange) intelapp.PopularityQuery {
	var brands []string
	for _, raw := range c.QueryArray("brand") {
		brands = append(brands, intelligence.SplitBrands(raw)...)
	}
	return intelapp.PopularityQuery{
		DateRange:      intelligence.ParseDateRange(c.Query("date_range")),
		Brands:         intelligence.NormalizeBrands(brands),
		MinOrders:      dto.ParseIntOrDefault(c.Query("min_orders"), minOrdersRange),
		SortBy:         intelligence.ParseSortField(strings.ToLower(strings.TrimSpace(c.Query("sort_by")))),
		SortOrder:      intelligence.ParseSortOrder(c.Query("sort_order")),
		Limit:          dto.ParseIntOrDefault(c.Query("limit"), limit),
		Offset:         dto.ParseIntOrDefault(c.Query("offset"), offsetRange),
		WebsiteOnly:    dto.ParseBool(c.Query("website_only")),
		WebsiteNotLive: dto.ParseBool(c.Query("website_not_live")),
	}
}

// parseReorderQuery coerces the reorder query string; it never fails
func parseReorderQuery(c *gin.Context, limit dto.IntRange) intelapp.ReorderQuery {
	return intelapp.ReorderQuery{
		Threshold: dto.ParseIntOrDefault(c.Query("threshold"), thresholdRange),
		Limit:     dto.ParseIntOrDefault(c.Query("limit"), limit),
		Offset:    dto.ParseIntOrDefault(c.Query("offset"), offsetRange),
	}
}
