package ports

import "github.com/TeleportDAO/teleswapd/internal/core/domain"

type RepoManager interface {
	Swaps() domain.SwapRepository
	Close()
}
