package application

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	"github.com/TeleportDAO/teleswapd/internal/core/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// SwapProvider is the capability surface every swap protocol variant
// implements. New providers add variants instead of overriding shared
// behavior.
type SwapProvider interface {
	GetQuote(ctx context.Context, req QuoteRequest) (*Quote, error)
	NewSwap(ctx context.Context, req NewSwapRequest) (*domain.SwapRecord, error)
	PerformNextAction(ctx context.Context, swapId string) error
	StatusTable() map[domain.SwapStatus]StatusInfo
}

// ContractSet holds the destination-chain contract addresses the
// lifecycle talks to.
type ContractSet struct {
	TransferRouter string
	ExchangeRouter string
	BurnRouter     string
	TeleBTC        string
}

// Config is the lifecycle configuration, validated at construction.
type Config struct {
	Network               domain.Network
	DestinationChainId    uint32
	PollInterval          time.Duration
	FinalizationThreshold uint64
	// SlippagePercent widens the tolerance between the quoted and the
	// on-chain executed output amount.
	SlippagePercent int64
	// DeadlineWindow is added to the latest destination block timestamp
	// to form the exchange deadline.
	DeadlineWindow time.Duration
	// OperatorAlertAfter is the dwell time in WAITING_FOR_RECEIVE after
	// which the poller starts warning operators. No automatic FAILED
	// transition exists; on-chain finality has no upper bound.
	OperatorAlertAfter time.Duration
	Contracts          ContractSet
	Tokens             map[domain.Asset]string
}

func (c Config) validate() error {
	if !c.Network.Valid() {
		return fmt.Errorf("invalid network %q", c.Network)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.FinalizationThreshold == 0 {
		return fmt.Errorf("finalization threshold must be at least 1")
	}
	if c.SlippagePercent < 0 || c.SlippagePercent >= 100 {
		return fmt.Errorf("slippage percent out of range: %d", c.SlippagePercent)
	}
	for name, addr := range map[string]string{
		"transfer router": c.Contracts.TransferRouter,
		"exchange router": c.Contracts.ExchangeRouter,
		"burn router":     c.Contracts.BurnRouter,
		"telebtc token":   c.Contracts.TeleBTC,
	} {
		if addr == "" {
			return fmt.Errorf("missing %s address", name)
		}
	}
	for _, asset := range []domain.Asset{domain.AssetTeleBTC, domain.AssetWrappedNative} {
		if _, ok := c.Tokens[asset]; !ok {
			return fmt.Errorf("missing token address for %s", asset)
		}
	}
	return nil
}

// QuoteRequest is the immutable input of a quote.
type QuoteRequest struct {
	From   domain.Asset
	To     domain.Asset
	Amount decimal.Decimal // display units of From
}

// Quote is derived, never persisted on its own; base-unit strings.
type Quote struct {
	FromAmount string `json:"fromAmount"`
	ToAmount   string `json:"toAmount"`
}

// NewSwapRequest creates and funds a swap.
type NewSwapRequest struct {
	QuoteRequest
	Recipient string
	FeeRate   uint64
}

// EstimateFeeRequest asks for the funding tx fee per fee level.
type EstimateFeeRequest struct {
	Amount   decimal.Decimal
	FeeRates map[string]uint64
	MaxSpend bool
}

// Service orchestrates the swap lifecycle: quoting, locker selection,
// payload construction, funding submission and confirmation polling.
type Service struct {
	cfg     Config
	catalog *SwapCatalog
	fees    *FeeEstimator
	routes  *RouteQuoter

	repoManager ports.RepoManager
	scheduler   ports.SchedulerService
	btcReader   ports.BitcoinReader
	btcWallet   ports.BitcoinWallet
	evm         ports.EvmClient
	lockers     ports.LockerRegistry
	addrCodec   ports.AddressCodec
	notifier    ports.Notifier

	// sendLocks serializes funding-relevant submissions per swap, so a
	// scheduler tick firing while the previous submission is still in
	// flight cannot double-spend.
	sendLocks sync.Map
}

var _ SwapProvider = (*Service)(nil)

func NewService(
	cfg Config,
	repoManager ports.RepoManager,
	schedulerSvc ports.SchedulerService,
	oracle ports.FeeOracle,
	btcReader ports.BitcoinReader,
	btcWallet ports.BitcoinWallet,
	evmClient ports.EvmClient,
	lockerRegistry ports.LockerRegistry,
	addrCodec ports.AddressCodec,
	notifier ports.Notifier,
) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid lifecycle config: %w", err)
	}
	return &Service{
		cfg:         cfg,
		catalog:     NewSwapCatalog(),
		fees:        NewFeeEstimator(oracle),
		routes:      NewRouteQuoter(evmClient, cfg.Tokens),
		repoManager: repoManager,
		scheduler:   schedulerSvc,
		btcReader:   btcReader,
		btcWallet:   btcWallet,
		evm:         evmClient,
		lockers:     lockerRegistry,
		addrCodec:   addrCodec,
		notifier:    notifier,
	}, nil
}

// GetQuote prices a swap request: catalog check, fee estimate, then
// either a 1:1 wrap amount or an AMM-routed output.
func (s *Service) GetQuote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if !s.catalog.IsSupported(req.From, req.To, s.cfg.Network) {
		return nil, domain.ErrUnsupportedRoute
	}

	fees, err := s.fees.Estimate(ctx, req.Amount, req.From, s.cfg.Network)
	if err != nil {
		return nil, err
	}

	net := netAfterFee(req.Amount, req.From, fees)
	if !net.IsPositive() {
		return nil, fmt.Errorf(
			"%w: %s %s does not cover the swap fees", domain.ErrAmountTooLow, req.Amount, req.From,
		)
	}

	toAmount, err := s.routes.Quote(ctx, req.From.BaseDecimal(net), req.From, req.To)
	if err != nil {
		return nil, err
	}

	return &Quote{
		FromAmount: req.From.BaseAmount(req.Amount).String(),
		ToAmount:   toAmount.String(),
	}, nil
}

// MinimumAmount returns the smallest amount worth swapping: the fixed
// teleporter fee, in BTC display units.
func (s *Service) MinimumAmount(ctx context.Context, from domain.Asset) (decimal.Decimal, error) {
	return s.fees.Minimum(ctx, from, s.cfg.Network)
}

// EstimateSendFees estimates the Bitcoin funding transaction fee for
// each requested fee level, in BTC display units. Protocol fees are not
// included; see GetQuote for those.
func (s *Service) EstimateSendFees(
	ctx context.Context, req EstimateFeeRequest,
) (map[string]decimal.Decimal, error) {
	var valueSat uint64
	if !req.MaxSpend {
		valueSat = domain.AssetBTC.BaseAmount(req.Amount).Uint64()
	}

	// the payload size is what matters for vsize, not its content
	dummy := make([]byte, 81)
	txs := make([]ports.CandidateTx, 0, len(req.FeeRates))
	for level, rate := range req.FeeRates {
		txs = append(txs, ports.CandidateTx{
			Level:    level,
			ValueSat: valueSat,
			Data:     dummy,
			FeeRate:  rate,
		})
	}

	totals, err := s.btcWallet.GetTotalFees(ctx, txs, req.MaxSpend)
	if err != nil {
		return nil, fmt.Errorf("get total fees: %w", err)
	}

	fees := make(map[string]decimal.Decimal, len(totals))
	for level, sat := range totals {
		fees[level] = domain.AssetBTC.DisplayAmount(new(big.Int).SetUint64(sat))
	}
	return fees, nil
}

// NewSwap re-validates support, persists the record, performs the first
// funding action under the per-swap lock and schedules polling. When the
// funding action fails the error is surfaced to the caller and the NEW
// record is kept for audit only; it is never picked up again, so a
// caller retrying with a fresh swap cannot double-spend.
func (s *Service) NewSwap(ctx context.Context, req NewSwapRequest) (*domain.SwapRecord, error) {
	if !s.catalog.IsSupported(req.From, req.To, s.cfg.Network) {
		return nil, domain.ErrUnsupportedRoute
	}

	quote, err := s.GetQuote(ctx, req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	rec := domain.SwapRecord{
		Id:         uuid.NewString(),
		From:       req.From,
		To:         req.To,
		Network:    s.cfg.Network,
		FromAmount: quote.FromAmount,
		ToAmount:   quote.ToAmount,
		FeeRate:    req.FeeRate,
		Recipient:  req.Recipient,
		Status:     domain.StatusNew,
		CreatedAt:  time.Now().Unix(),
	}
	if err := s.repoManager.Swaps().Add(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist swap: %w", err)
	}

	lock := s.lockFor(rec.Id)
	lock.Lock()
	err = s.performSend(ctx, &rec)
	lock.Unlock()
	if err != nil {
		s.sendLocks.Delete(rec.Id)
		return nil, err
	}

	s.schedule(rec.Id)
	return &rec, nil
}

// PerformNextAction runs the single polling or funding action attached
// to the swap's current status. The switch is exhaustive over the
// status enum; adding a status without a branch is a compile-time
// nudge, not a silent fallthrough.
func (s *Service) PerformNextAction(ctx context.Context, swapId string) error {
	rec, err := s.repoManager.Swaps().Get(ctx, swapId)
	if err != nil {
		return err
	}

	switch rec.Status {
	case domain.StatusNew:
		// the initial send happens synchronously in NewSwap and its
		// failure was already surfaced to the caller; resubmitting here
		// could double-spend against the caller's own retry
		s.finalize(rec.Id)
		return nil
	case domain.StatusWaitingForSendConfirmations:
		return s.waitForBitcoinConfirmations(ctx, rec)
	case domain.StatusWaitingForReceive:
		return s.waitForReceive(ctx, rec)
	case domain.StatusWaitingForApproveConfirmation:
		return s.waitForApproveConfirmations(ctx, rec)
	case domain.StatusApproveConfirmed:
		return s.withSendLock(rec.Id, func() error { return s.sendBurn(ctx, rec) })
	case domain.StatusWaitingForBurnConfirmations:
		return s.waitForBurnConfirmations(ctx, rec)
	case domain.StatusSuccess, domain.StatusFailed:
		s.finalize(rec.Id)
		return nil
	default:
		return fmt.Errorf("unknown swap status %q", rec.Status)
	}
}

// MarkFailed is the external FAILED trigger, e.g. operator intervention
// after observed teleporter non-delivery.
func (s *Service) MarkFailed(ctx context.Context, swapId string) error {
	rec, err := s.repoManager.Swaps().Get(ctx, swapId)
	if err != nil {
		return err
	}
	if rec.Status.Terminal() {
		return fmt.Errorf("swap %s already terminal (%s)", swapId, rec.Status)
	}
	rec.Status = domain.StatusFailed
	rec.EndTime = time.Now().Unix()
	if err := s.repoManager.Swaps().Update(ctx, *rec); err != nil {
		return err
	}
	s.finalize(rec.Id)
	s.notify(*rec)
	return nil
}

// ResumePolling re-schedules every in-flight swap found in the
// repository, to be called once at startup. NEW records are skipped:
// their funding was never submitted and the failure was already
// reported, so reviving them after a restart could send funds for a
// swap the caller has since replaced.
func (s *Service) ResumePolling(ctx context.Context) error {
	swaps, err := s.repoManager.Swaps().GetAll(ctx)
	if err != nil {
		return err
	}
	for _, rec := range swaps {
		if rec.Status.Terminal() || rec.Status == domain.StatusNew {
			continue
		}
		s.schedule(rec.Id)
	}
	return nil
}

func (s *Service) GetSwap(ctx context.Context, swapId string) (*domain.SwapRecord, error) {
	return s.repoManager.Swaps().Get(ctx, swapId)
}

func (s *Service) ListSwaps(ctx context.Context) ([]domain.SwapRecord, error) {
	return s.repoManager.Swaps().GetAll(ctx)
}

func (s *Service) schedule(swapId string) {
	err := s.scheduler.SchedulePolling(swapId, s.cfg.PollInterval, func() {
		if err := s.PerformNextAction(context.Background(), swapId); err != nil {
			log.WithError(err).WithField("swap", swapId).Warn("next action failed, will retry")
		}
	})
	if err != nil {
		log.WithError(err).WithField("swap", swapId).Error("failed to schedule polling")
	}
}

func (s *Service) lockFor(swapId string) *sync.Mutex {
	mu, _ := s.sendLocks.LoadOrStore(swapId, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// finalize stops the polling job and releases the per-swap lock once no
// further funding submission can happen for the swap.
func (s *Service) finalize(swapId string) {
	s.scheduler.CancelPolling(swapId)
	s.sendLocks.Delete(swapId)
}

// withSendLock skips the tick entirely when the previous funding
// submission for the same swap is still in flight.
func (s *Service) withSendLock(swapId string, fn func() error) error {
	mu := s.lockFor(swapId)
	if !mu.TryLock() {
		return nil
	}
	defer mu.Unlock()
	return fn()
}

// performSend runs the first funding action of a NEW swap.
func (s *Service) performSend(ctx context.Context, rec *domain.SwapRecord) error {
	switch {
	case rec.From == domain.AssetBTC:
		return s.sendBitcoinSwap(ctx, rec)
	case rec.From == domain.AssetTeleBTC && rec.To == domain.AssetBTC:
		return s.approveForBurn(ctx, rec)
	default:
		return domain.ErrUnsupportedRoute
	}
}

// sendBitcoinSwap selects a locker, builds the OP_RETURN payload and
// submits the funding transaction on the source chain.
func (s *Service) sendBitcoinSwap(ctx context.Context, rec *domain.SwapRecord) error {
	amount, err := baseAmount(rec.FromAmount)
	if err != nil {
		return err
	}

	// locker capacity is time-varying, the selection is never reused
	// from quote time
	locker, err := s.chooseLocker(ctx, ports.FeeModelTransfer, amount)
	if err != nil {
		return err
	}

	opReturn, err := s.buildOpReturn(ctx, rec)
	if err != nil {
		return err
	}

	txHash, err := s.btcWallet.SendTransaction(ctx, ports.FundingRequest{
		To:        locker.BitcoinAddress,
		AmountSat: amount.Uint64(),
		OpReturn:  opReturn,
		FeeRate:   rec.FeeRate,
	})
	if err != nil {
		return fmt.Errorf("send funding tx: %w", err)
	}

	rec.Status = domain.StatusWaitingForSendConfirmations
	rec.BitcoinTxHash = txHash
	rec.BitcoinConfirmations = 0
	return s.update(ctx, rec)
}

// approveForBurn grants the burn router spending rights over the
// wrapped amount on the destination chain.
func (s *Service) approveForBurn(ctx context.Context, rec *domain.SwapRecord) error {
	amount, err := baseAmount(rec.FromAmount)
	if err != nil {
		return err
	}

	data, err := s.evm.EncodeApprove(s.cfg.Contracts.BurnRouter, amount)
	if err != nil {
		return fmt.Errorf("%w: approve: %s", domain.ErrEncoding, err)
	}

	txHash, err := s.evm.SendTransaction(ctx, s.cfg.Contracts.TeleBTC, new(big.Int), data)
	if err != nil {
		return fmt.Errorf("send approve tx: %w", err)
	}

	rec.Status = domain.StatusWaitingForApproveConfirmation
	rec.ApproveTxHash = txHash
	return s.update(ctx, rec)
}

// sendBurn submits the burn request once the approval is confirmed.
func (s *Service) sendBurn(ctx context.Context, rec *domain.SwapRecord) error {
	amount, err := baseAmount(rec.FromAmount)
	if err != nil {
		return err
	}

	locker, err := s.chooseLocker(ctx, ports.FeeModelBurn, amount)
	if err != nil {
		return err
	}

	parsed, err := s.addrCodec.ParseAddress(rec.Recipient, s.cfg.Network != domain.Mainnet)
	if err != nil {
		return fmt.Errorf("%w: recipient address: %s", domain.ErrEncoding, err)
	}

	data, err := s.evm.EncodeBurn(amount, parsed.ScriptHash, uint8(parsed.Type), locker.LockerLockingScript)
	if err != nil {
		return fmt.Errorf("%w: ccBurn: %s", domain.ErrEncoding, err)
	}

	txHash, err := s.evm.SendTransaction(ctx, s.cfg.Contracts.BurnRouter, new(big.Int), data)
	if err != nil {
		return fmt.Errorf("send burn tx: %w", err)
	}

	rec.Status = domain.StatusWaitingForBurnConfirmations
	rec.BurnTxHash = txHash
	return s.update(ctx, rec)
}

// waitForBitcoinConfirmations advances the swap once the funding tx has
// at least one confirmation on the source chain.
func (s *Service) waitForBitcoinConfirmations(ctx context.Context, rec *domain.SwapRecord) error {
	tx, err := s.btcReader.GetTransaction(ctx, rec.BitcoinTxHash)
	if errors.Is(err, domain.ErrTxNotFound) {
		log.WithField("tx", rec.BitcoinTxHash).Warn("funding tx not indexed yet")
		return nil
	}
	if err != nil {
		return err
	}

	if tx.Confirmations > 0 {
		rec.Status = domain.StatusWaitingForReceive
		rec.BitcoinConfirmations = max(rec.BitcoinConfirmations, tx.Confirmations)
		rec.EndTime = time.Now().Unix()
		return s.update(ctx, rec)
	}
	return nil
}

// waitForReceive waits for the funding tx to pass the finalization
// threshold and for the teleporter to submit the proof on the
// destination router. Both must hold before SUCCESS.
func (s *Service) waitForReceive(ctx context.Context, rec *domain.SwapRecord) error {
	tx, err := s.btcReader.GetTransaction(ctx, rec.BitcoinTxHash)
	if errors.Is(err, domain.ErrTxNotFound) {
		log.WithField("tx", rec.BitcoinTxHash).Warn("funding tx not indexed yet")
		return nil
	}
	if err != nil {
		return err
	}

	conf := max(rec.BitcoinConfirmations, tx.Confirmations)
	if conf != rec.BitcoinConfirmations {
		rec.BitcoinConfirmations = conf
		if err := s.repoManager.Swaps().Update(ctx, *rec); err != nil {
			return err
		}
	}
	if conf < s.cfg.FinalizationThreshold {
		return nil
	}

	router := s.cfg.Contracts.ExchangeRouter
	if rec.RequestType() == domain.RequestWrap {
		router = s.cfg.Contracts.TransferRouter
	}
	used, err := s.evm.IsRequestUsed(ctx, router, rec.BitcoinTxHash)
	if err != nil {
		return err
	}
	if !used {
		if dwell := time.Since(time.Unix(rec.EndTime, 0)); s.cfg.OperatorAlertAfter > 0 && dwell > s.cfg.OperatorAlertAfter {
			log.WithFields(log.Fields{
				"swap":  rec.Id,
				"tx":    rec.BitcoinTxHash,
				"dwell": dwell.Round(time.Minute),
			}).Warn("funding tx finalized but teleporter has not submitted the proof")
		}
		return nil
	}

	rec.Status = domain.StatusSuccess
	rec.BitcoinConfirmations = conf
	rec.EndTime = time.Now().Unix()
	if err := s.update(ctx, rec); err != nil {
		return err
	}
	s.finalize(rec.Id)
	return nil
}

func (s *Service) waitForApproveConfirmations(ctx context.Context, rec *domain.SwapRecord) error {
	tx, err := s.evm.GetTransaction(ctx, rec.ApproveTxHash)
	if errors.Is(err, domain.ErrTxNotFound) {
		log.WithField("tx", rec.ApproveTxHash).Warn("approve tx not indexed yet")
		return nil
	}
	if err != nil {
		return err
	}

	if tx.Confirmations > 0 {
		rec.Status = domain.StatusApproveConfirmed
		rec.EndTime = time.Now().Unix()
		return s.update(ctx, rec)
	}
	return nil
}

func (s *Service) waitForBurnConfirmations(ctx context.Context, rec *domain.SwapRecord) error {
	tx, err := s.evm.GetTransaction(ctx, rec.BurnTxHash)
	if errors.Is(err, domain.ErrTxNotFound) {
		log.WithField("tx", rec.BurnTxHash).Warn("burn tx not indexed yet")
		return nil
	}
	if err != nil {
		return err
	}

	if tx.Confirmations > 0 {
		rec.Status = domain.StatusSuccess
		rec.EndTime = time.Now().Unix()
		if err := s.update(ctx, rec); err != nil {
			return err
		}
		s.finalize(rec.Id)
	}
	return nil
}

// chooseLocker queries the registry for the preferred locker. The
// registry speaks BTC display units, not satoshis.
func (s *Service) chooseLocker(
	ctx context.Context, op ports.FeeModel, amountSat *big.Int,
) (*domain.Locker, error) {
	list, err := s.lockers.GetLockers(ctx, ports.LockerQuery{
		Amount:  domain.AssetBTC.DisplayAmount(amountSat),
		Type:    op,
		Testnet: s.cfg.Network != domain.Mainnet,
	})
	if err != nil {
		return nil, fmt.Errorf("locker registry: %w", err)
	}
	if list.Preferred == nil {
		return nil, domain.ErrNoLockerAvailable
	}
	return list.Preferred, nil
}

func (s *Service) update(ctx context.Context, rec *domain.SwapRecord) error {
	if err := s.repoManager.Swaps().Update(ctx, *rec); err != nil {
		return fmt.Errorf("update swap %s: %w", rec.Id, err)
	}
	s.notify(*rec)
	return nil
}

// netAfterFee subtracts the total fee from the gross amount. A swap
// funded on the source chain pays its own transaction fee on top, so
// that component is added back before the deduction.
func netAfterFee(amount decimal.Decimal, from domain.Asset, fees *domain.FeeBreakdown) decimal.Decimal {
	if from == domain.AssetBTC {
		return amount.Add(fees.TransactionFeeInBTC).Sub(fees.TotalFeeInBTC)
	}
	return amount.Sub(fees.TotalFeeInBTC)
}

func baseAmount(units string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(units, 10)
	if !ok {
		return nil, fmt.Errorf("invalid base-unit amount %q", units)
	}
	return n, nil
}
