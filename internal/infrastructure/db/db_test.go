package db_test

import (
	"context"
	"testing"

	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	badgerdb "github.com/TeleportDAO/teleswapd/internal/infrastructure/db/badger"
	"github.com/stretchr/testify/require"
)

var (
	dbs = map[string]func() (domain.SwapRepository, error){
		"badger": func() (domain.SwapRepository, error) {
			return badgerdb.NewSwapRepository("", nil)
		},
	}
	testSwap = domain.SwapRecord{
		Id:         "1a30c661-4fe3-4a45-bc29-1b64f567e6ba",
		From:       domain.AssetBTC,
		To:         domain.AssetTeleBTC,
		Network:    domain.Testnet,
		FromAmount: "1000000",
		ToAmount:   "990000",
		FeeRate:    12,
		Recipient:  "0x1111111111111111111111111111111111111111",
		Status:     domain.StatusNew,
		CreatedAt:  1700000000,
	}
)

func TestSwapRepo(t *testing.T) {
	repos, err := getSwapRepos()
	require.NoError(t, err)

	for _, v := range repos {
		t.Parallel()

		t.Run(v.name, func(t *testing.T) {
			testAddSwap(t, v.repo)

			testUpdateSwap(t, v.repo)
		})
	}
}

func testAddSwap(t *testing.T, repo domain.SwapRepository) {
	t.Run("add swap", func(t *testing.T) {
		ctx := context.Background()

		swap, err := repo.Get(ctx, testSwap.Id)
		require.ErrorIs(t, err, domain.ErrSwapNotFound)
		require.Nil(t, swap)

		err = repo.Update(ctx, testSwap)
		require.ErrorIs(t, err, domain.ErrSwapNotFound)

		err = repo.Add(ctx, testSwap)
		require.NoError(t, err)

		err = repo.Add(ctx, testSwap)
		require.Error(t, err)

		swap, err = repo.Get(ctx, testSwap.Id)
		require.NoError(t, err)
		require.Equal(t, testSwap, *swap)

		swaps, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, swaps, 1)
		require.Equal(t, testSwap, swaps[0])
	})
}

func testUpdateSwap(t *testing.T, repo domain.SwapRepository) {
	t.Run("update swap", func(t *testing.T) {
		ctx := context.Background()

		updated := testSwap
		updated.Status = domain.StatusWaitingForSendConfirmations
		updated.BitcoinTxHash = "btctx"
		updated.BitcoinConfirmations = 2

		err := repo.Update(ctx, updated)
		require.NoError(t, err)

		swap, err := repo.Get(ctx, testSwap.Id)
		require.NoError(t, err)
		require.Equal(t, updated, *swap)
	})
}

type swapDb struct {
	name string
	repo domain.SwapRepository
}

func getSwapRepos() ([]swapDb, error) {
	var repos []swapDb
	for dbName, factory := range dbs {
		repo, err := factory()
		if err != nil {
			return nil, err
		}
		repos = append(repos, swapDb{dbName, repo})
	}
	return repos, nil
}
