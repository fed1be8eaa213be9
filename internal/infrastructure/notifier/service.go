// Package notifier publishes swap status transitions. The log-backed
// implementation is the default; operators can tail it or ship it to
// their alerting pipeline.
package notifier

import (
	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	"github.com/TeleportDAO/teleswapd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

type logNotifier struct{}

func NewService() ports.Notifier {
	return &logNotifier{}
}

func (n *logNotifier) Notify(swap domain.SwapRecord, message string) {
	log.WithFields(log.Fields{
		"swap":   swap.Id,
		"from":   swap.From,
		"to":     swap.To,
		"status": swap.Status,
	}).Info(message)
}
