package application

import (
	"github.com/TeleportDAO/teleswapd/internal/core/domain"
)

type catalogRoute struct {
	from    domain.Chain
	to      domain.Chain
	network domain.Network
}

// SwapCatalog is the static allow-list of supported (fromChain, toChain,
// network) triples. It is consulted both at quote time and again at
// swap-creation time.
type SwapCatalog struct {
	routes map[catalogRoute]struct{}
}

func NewSwapCatalog() *SwapCatalog {
	supported := []catalogRoute{
		{domain.ChainBitcoin, domain.ChainPolygon, domain.Testnet},
		{domain.ChainPolygon, domain.ChainBitcoin, domain.Testnet},
		{domain.ChainBitcoin, domain.ChainPolygon, domain.Mainnet},
		{domain.ChainPolygon, domain.ChainBitcoin, domain.Mainnet},
	}
	routes := make(map[catalogRoute]struct{}, len(supported))
	for _, r := range supported {
		routes[r] = struct{}{}
	}
	return &SwapCatalog{routes: routes}
}

// IsSupported never errors; unknown permutations are simply false.
func (c *SwapCatalog) IsSupported(from, to domain.Asset, network domain.Network) bool {
	_, ok := c.routes[catalogRoute{from.Chain(), to.Chain(), network}]
	return ok
}
