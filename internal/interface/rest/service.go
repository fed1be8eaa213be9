// Package rest exposes the swap lifecycle over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/TeleportDAO/teleswapd/internal/core/application"
	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

type service struct {
	*gin.Engine

	svc    *application.Service
	server *http.Server
}

func NewService(port uint32, appSvc *application.Service) *service {
	router := gin.New()
	router.Use(gin.Recovery())

	svc := &service{Engine: router, svc: appSvc}
	svc.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	svc.POST("/api/quote", svc.getQuote)
	svc.POST("/api/fees/send", svc.estimateSendFees)
	svc.GET("/api/swaps/min", svc.minimumAmount)
	svc.POST("/api/swaps", svc.newSwap)
	svc.GET("/api/swaps", svc.listSwaps)
	svc.GET("/api/swaps/:id", svc.getSwap)
	svc.POST("/api/swaps/:id/fail", svc.markFailed)
	svc.GET("/api/statuses", svc.statusTable)

	return svc
}

func (s *service) Start() {
	go func() {
		log.Infof("http server listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server exited")
		}
	}()
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// nolint:all
	s.server.Shutdown(ctx)
	log.Info("stopped http server")
}

type quoteRequest struct {
	From   string          `json:"from" binding:"required"`
	To     string          `json:"to" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (r quoteRequest) toApplication() application.QuoteRequest {
	return application.QuoteRequest{
		From:   domain.Asset(r.From),
		To:     domain.Asset(r.To),
		Amount: r.Amount,
	}
}

func (s *service) getQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := s.svc.GetQuote(c.Request.Context(), req.toApplication())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

type estimateSendFeesRequest struct {
	Amount   decimal.Decimal   `json:"amount"`
	FeeRates map[string]uint64 `json:"feeRates" binding:"required"`
	MaxSpend bool              `json:"maxSpend"`
}

func (s *service) estimateSendFees(c *gin.Context) {
	var req estimateSendFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fees, err := s.svc.EstimateSendFees(c.Request.Context(), application.EstimateFeeRequest{
		Amount:   req.Amount,
		FeeRates: req.FeeRates,
		MaxSpend: req.MaxSpend,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fees": fees})
}

func (s *service) minimumAmount(c *gin.Context) {
	from := domain.Asset(c.DefaultQuery("from", string(domain.AssetBTC)))

	min, err := s.svc.MinimumAmount(c.Request.Context(), from)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"min": min})
}

type newSwapRequest struct {
	quoteRequest
	Recipient string `json:"recipient" binding:"required"`
	FeeRate   uint64 `json:"feeRate"`
}

func (s *service) newSwap(c *gin.Context) {
	var req newSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	swap, err := s.svc.NewSwap(c.Request.Context(), application.NewSwapRequest{
		QuoteRequest: req.toApplication(),
		Recipient:    req.Recipient,
		FeeRate:      req.FeeRate,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, swap)
}

func (s *service) listSwaps(c *gin.Context) {
	swaps, err := s.svc.ListSwaps(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"swaps": swaps})
}

func (s *service) getSwap(c *gin.Context) {
	swap, err := s.svc.GetSwap(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, swap)
}

func (s *service) markFailed(c *gin.Context) {
	if err := s.svc.MarkFailed(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (s *service) statusTable(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.StatusTable())
}

func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSwapNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnsupportedRoute),
		errors.Is(err, domain.ErrNoRouteFound),
		errors.Is(err, domain.ErrAmountTooLow),
		errors.Is(err, domain.ErrEncoding):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoLockerAvailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
