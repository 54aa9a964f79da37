// Package metrics содержит счётчики Prometheus для биллинга и чата.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ITNOutcomes считает исходы обработки ITN-уведомлений по токену ответа
	// (OK, IGNORED, INVALID_SIGNATURE, INVALID, MISSING_USER, DB_ERROR, SERVER_MISCONFIG).
	ITNOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mineai_itn_outcomes_total",
		Help: "Processed PayFast ITN notifications by outcome token.",
	}, []string{"outcome"})

	// UpgradesApplied считает успешные апгрейды аккаунтов.
	UpgradesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mineai_upgrades_applied_total",
		Help: "Accounts upgraded to premium after a confirmed payment.",
	})

	// QuotaDecisions считает решения дневного лимита сообщений.
	QuotaDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mineai_quota_decisions_total",
		Help: "Daily message quota decisions for free accounts.",
	}, []string{"decision"}) // allowed | denied

	// ChatMessages считает обработанные сообщения чата.
	ChatMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mineai_chat_messages_total",
		Help: "Chat messages processed by the completion pipeline.",
	})
)
