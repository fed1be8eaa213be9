package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"
)

const (
	swapDir = "swaps"
)

type swapRepository struct {
	store *badgerhold.Store
}

func NewSwapRepository(baseDir string, logger badger.Logger) (domain.SwapRepository, error) {
	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, swapDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open swap store: %s", err)
	}
	return &swapRepository{store}, nil
}

func (r *swapRepository) GetAll(ctx context.Context) ([]domain.SwapRecord, error) {
	var swapDataList []swapData
	err := r.store.Find(&swapDataList, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get all swaps: %w", err)
	}

	swaps := make([]domain.SwapRecord, 0, len(swapDataList))
	for _, s := range swapDataList {
		swaps = append(swaps, s.toRecord())
	}
	return swaps, nil
}

func (r *swapRepository) Get(ctx context.Context, swapId string) (*domain.SwapRecord, error) {
	var data swapData
	err := r.store.Get(swapId, &data)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSwapNotFound, swapId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get swap: %w", err)
	}

	swap := data.toRecord()
	return &swap, nil
}

// Add stores a new swap; the id must be unused.
func (r *swapRepository) Add(ctx context.Context, swap domain.SwapRecord) error {
	if err := r.store.Insert(swap.Id, toSwapData(swap)); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return fmt.Errorf("swap %s already exists", swap.Id)
		}
		return err
	}
	return nil
}

// Update replaces the stored record. Records are append/update-only,
// there is no delete.
func (r *swapRepository) Update(ctx context.Context, swap domain.SwapRecord) error {
	err := r.store.Update(swap.Id, toSwapData(swap))
	if errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrSwapNotFound, swap.Id)
	}
	return err
}

func (r *swapRepository) Close() {
	// nolint:all
	r.store.Close()
}

type swapData struct {
	Id                   string
	From                 string
	To                   string
	Network              string
	FromAmount           string
	ToAmount             string
	FeeRate              uint64
	Recipient            string
	Status               string
	BitcoinTxHash        string
	ApproveTxHash        string
	BurnTxHash           string
	BitcoinConfirmations uint64
	CreatedAt            int64
	EndTime              int64
}

func toSwapData(swap domain.SwapRecord) swapData {
	return swapData{
		Id:                   swap.Id,
		From:                 string(swap.From),
		To:                   string(swap.To),
		Network:              string(swap.Network),
		FromAmount:           swap.FromAmount,
		ToAmount:             swap.ToAmount,
		FeeRate:              swap.FeeRate,
		Recipient:            swap.Recipient,
		Status:               string(swap.Status),
		BitcoinTxHash:        swap.BitcoinTxHash,
		ApproveTxHash:        swap.ApproveTxHash,
		BurnTxHash:           swap.BurnTxHash,
		BitcoinConfirmations: swap.BitcoinConfirmations,
		CreatedAt:            swap.CreatedAt,
		EndTime:              swap.EndTime,
	}
}

func (s swapData) toRecord() domain.SwapRecord {
	return domain.SwapRecord{
		Id:                   s.Id,
		From:                 domain.Asset(s.From),
		To:                   domain.Asset(s.To),
		Network:              domain.Network(s.Network),
		FromAmount:           s.FromAmount,
		ToAmount:             s.ToAmount,
		FeeRate:              s.FeeRate,
		Recipient:            s.Recipient,
		Status:               domain.SwapStatus(s.Status),
		BitcoinTxHash:        s.BitcoinTxHash,
		ApproveTxHash:        s.ApproveTxHash,
		BurnTxHash:           s.BurnTxHash,
		BitcoinConfirmations: s.BitcoinConfirmations,
		CreatedAt:            s.CreatedAt,
		EndTime:              s.EndTime,
	}
}
