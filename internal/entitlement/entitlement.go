// Package entitlement содержит единственную точку принятия решения о том,
// считать ли аккаунт премиальным. Все обработчики, ограничивающие доступ
// к платным функциям, обязаны вызывать IsPremiumLike и не дублировать
// проверку у себя.
package entitlement

import (
	"time"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/models"
)

// IsPremiumLike сообщает, действует ли для аккаунта премиум-доступ:
// админ, оплаченный тариф либо активный триал. Чистая функция без I/O,
// результат не кешируется между запросами.
//
// Триал активен только при trial_until строго больше now: истёкший ровно
// сейчас триал уже не действует.
func IsPremiumLike(acc *models.Account, now time.Time) bool {
	if acc == nil {
		return false
	}
	if acc.IsAdmin {
		return true
	}
	if acc.Plan == models.PlanPremium {
		return true
	}
	return TrialActive(acc.TrialUntil, now)
}

// TrialActive проверяет активность триального окна. Отсутствующий
// срок означает «триала нет».
func TrialActive(trialUntil *time.Time, now time.Time) bool {
	if trialUntil == nil {
		return false
	}
	return trialUntil.After(now)
}
