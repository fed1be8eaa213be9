package application

import (
	"fmt"

	"github.com/TeleportDAO/teleswapd/internal/core/domain"
)

// StatusInfo is the presentation metadata of one lifecycle status,
// consumed by the notifier and the API layer.
type StatusInfo struct {
	Step         int    `json:"step"`
	Label        string `json:"label"`
	FilterStatus string `json:"filterStatus"`
	Message      string `json:"message"`
}

var statusTable = map[domain.SwapStatus]StatusInfo{
	domain.StatusNew: {
		Step: 0, Label: "Creating swap", FilterStatus: "PENDING",
		Message: "swap created",
	},
	domain.StatusWaitingForSendConfirmations: {
		Step: 0, Label: "Swapping {from}", FilterStatus: "PENDING",
		Message: "swap initiated",
	},
	domain.StatusWaitingForReceive: {
		Step: 1, Label: "Receiving {to}", FilterStatus: "PENDING",
		Message: "waiting for confirmations",
	},
	domain.StatusWaitingForApproveConfirmation: {
		Step: 0, Label: "Approve {from}", FilterStatus: "PENDING",
		Message: "swap initiated",
	},
	domain.StatusApproveConfirmed: {
		Step: 0, Label: "Swapping {from}", FilterStatus: "PENDING",
		Message: "approval confirmed",
	},
	domain.StatusWaitingForBurnConfirmations: {
		Step: 1, Label: "Burning {from}", FilterStatus: "PENDING",
		Message: "burn submitted",
	},
	domain.StatusSuccess: {
		Step: 2, Label: "Completed", FilterStatus: "COMPLETED",
		Message: "swap completed",
	},
	domain.StatusFailed: {
		Step: 2, Label: "Swap Failed", FilterStatus: "REFUNDED",
		Message: "swap failed",
	},
}

func (s *Service) StatusTable() map[domain.SwapStatus]StatusInfo {
	return statusTable
}

func (s *Service) notify(rec domain.SwapRecord) {
	info, ok := statusTable[rec.Status]
	if !ok {
		return
	}
	msg := info.Message
	if rec.Status == domain.StatusWaitingForReceive {
		msg = fmt.Sprintf(
			"waiting for confirmations: %d / %d",
			rec.BitcoinConfirmations, s.cfg.FinalizationThreshold,
		)
	}
	s.notifier.Notify(rec, msg)
}
