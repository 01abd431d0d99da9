package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domcart "example.com/storefront/internal/domain/cart"
	domorder "example.com/storefront/internal/domain/order"
	"example.com/storefront/internal/infra/metrics"
)

const (
	DefaultCashDismissDelay   = 3 * time.Second
	DefaultOnlineDismissDelay = 2 * time.Second
)

type Config struct {
	CashDismissDelay   time.Duration
	OnlineDismissDelay time.Duration
	// MaxConcurrentPurchases caps in-flight purchase calls; 0 means no cap.
	MaxConcurrentPurchases int
}

type checkoutForm struct {
	PaymentMode domorder.PaymentMode
	PickupTime  string `validate:"required_if=PaymentMode cash"`
}

type Service struct {
	purchaser domorder.Purchaser
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *metrics.CheckoutMetrics
	cfg       Config

	purchasing atomic.Bool
}

func NewService(purchaser domorder.Purchaser, logger *zap.Logger, m *metrics.CheckoutMetrics, cfg Config) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CashDismissDelay <= 0 {
		cfg.CashDismissDelay = DefaultCashDismissDelay
	}
	if cfg.OnlineDismissDelay <= 0 {
		cfg.OnlineDismissDelay = DefaultOnlineDismissDelay
	}
	return &Service{
		purchaser: purchaser,
		validator: validator.New(),
		logger:    logger,
		metrics:   m,
		cfg:       cfg,
	}
}

// Purchasing reports whether a checkout is outstanding.
func (s *Service) Purchasing() bool {
	return s.purchasing.Load()
}

// Checkout purchases every line of the snapshot independently and reduces the
// per-line results into one outcome. Validation problems are returned as
// errors before any purchase call is made; every other path ends in an
// Outcome.
func (s *Service) Checkout(ctx context.Context, lines []domcart.Line, mode domorder.PaymentMode, pickupTime string) (domorder.Outcome, error) {
	if !s.purchasing.CompareAndSwap(false, true) {
		return domorder.Outcome{}, domorder.ErrCheckoutInProgress
	}
	defer s.purchasing.Store(false)

	pickupTime = strings.TrimSpace(pickupTime)
	if err := s.validate(lines, mode, pickupTime); err != nil {
		s.logger.Info("checkout rejected", zap.String("payment_mode", string(mode)), zap.Error(err))
		return domorder.Outcome{}, err
	}

	checkoutID := uuid.NewString()
	ctx = domorder.ContextWithCheckoutID(ctx, checkoutID)
	requests := buildRequests(lines, mode, pickupTime)

	logger := s.logger.With(
		zap.String("checkout_id", checkoutID),
		zap.String("payment_mode", string(mode)),
		zap.Int("lines", len(requests)),
	)
	logger.Info("checkout started")

	start := time.Now()
	results := s.purchaseAll(ctx, requests)
	elapsed := time.Since(start)

	outcome := s.reduce(results, mode, pickupTime)
	outcome.CheckoutID = checkoutID

	s.record(outcome, elapsed)
	logger.Info("checkout settled",
		zap.Stringer("outcome", outcome.Kind),
		zap.Strings("failures", outcome.FailureReasons),
		zap.Duration("elapsed", elapsed))

	return outcome, nil
}

func (s *Service) validate(lines []domcart.Line, mode domorder.PaymentMode, pickupTime string) error {
	if len(lines) == 0 {
		return domorder.ErrEmptyCart
	}
	if !mode.IsValid() {
		return domorder.ErrInvalidPayment
	}
	err := s.validator.Struct(checkoutForm{PaymentMode: mode, PickupTime: pickupTime})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "PickupTime" {
				return domorder.ErrPickupTimeRequired
			}
		}
	}
	return fmt.Errorf("%w: %v", domorder.ErrInvalidPayment, err)
}

func buildRequests(lines []domcart.Line, mode domorder.PaymentMode, pickupTime string) []domorder.CheckoutRequest {
	requests := make([]domorder.CheckoutRequest, 0, len(lines))
	for _, l := range lines {
		req := domorder.CheckoutRequest{
			ItemID:      l.Item.ID,
			Quantity:    l.Quantity,
			PaymentMode: mode,
		}
		if mode == domorder.PaymentCash {
			req.PickupTime = pickupTime
		}
		requests = append(requests, req)
	}
	return requests
}

// purchaseAll issues every request concurrently and waits until all of them
// settled. Goroutines never return an error, so one failing call does not
// cancel the others.
func (s *Service) purchaseAll(ctx context.Context, requests []domorder.CheckoutRequest) []domorder.LineResult {
	results := make([]domorder.LineResult, len(requests))

	var g errgroup.Group
	if s.cfg.MaxConcurrentPurchases > 0 {
		g.SetLimit(s.cfg.MaxConcurrentPurchases)
	}

	for i, req := range requests {
		g.Go(func() error {
			results[i] = s.purchaseOne(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Service) purchaseOne(ctx context.Context, req domorder.CheckoutRequest) (lr domorder.LineResult) {
	lr.Request = req
	defer func() {
		if r := recover(); r != nil {
			lr.Result = nil
			lr.Err = fmt.Errorf("%w: %v", domorder.ErrTransport, r)
		}
	}()

	res, err := s.purchaser.Purchase(ctx, req)
	switch {
	case err != nil:
		lr.Err = err
	case res == nil:
		lr.Err = fmt.Errorf("%w: empty response for item %s", domorder.ErrTransport, req.ItemID)
	default:
		lr.Result = res
	}
	return lr
}

func (s *Service) reduce(results []domorder.LineResult, mode domorder.PaymentMode, pickupTime string) domorder.Outcome {
	outcome := domorder.Outcome{
		PaymentMode: mode,
		PickupTime:  pickupTime,
		Results:     results,
	}

	var (
		obtained int
		firstErr error
		failures []string
	)
	for _, r := range results {
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			failures = append(failures, r.Err.Error())
			continue
		}
		obtained++
		if r.Result.Success {
			continue
		}
		msg := strings.TrimSpace(r.Result.Message)
		if msg == "" {
			msg = fmt.Sprintf("item %s could not be purchased", r.Request.ItemID)
		}
		failures = append(failures, msg)
	}

	switch {
	case obtained == 0:
		outcome.Kind = domorder.TransportError
		outcome.Reason = firstErr.Error()
	case len(failures) == 0:
		outcome.Kind = domorder.AllSucceeded
		outcome.ClearCart = true
		outcome.RefreshCatalog = true
		outcome.DismissAfter = s.cfg.OnlineDismissDelay
		if mode == domorder.PaymentCash {
			outcome.DismissAfter = s.cfg.CashDismissDelay
		}
	default:
		outcome.Kind = domorder.PartiallyFailed
		outcome.FailureReasons = failures
		outcome.RefreshCatalog = true
	}
	return outcome
}

func (s *Service) record(outcome domorder.Outcome, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.Outcomes.WithLabelValues(outcome.Kind.String()).Inc()
	s.metrics.DurationMS.Observe(float64(elapsed.Milliseconds()))
	for _, r := range outcome.Results {
		label := "success"
		switch {
		case r.Err != nil:
			label = "transport_error"
		case !r.Result.Success:
			label = "rejected"
		}
		s.metrics.PurchaseCalls.WithLabelValues(label).Inc()
	}
}
