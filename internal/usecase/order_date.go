package usecase

import "time"

// DefaultOrderDateWindow — насколько старой может быть дата заказа от клиента.
const DefaultOrderDateWindow = 7 * 24 * time.Hour

// NormalizeOrderDate — дата из будущего или не свежее now-window заменяется на now.
// Граница включительная со стороны устаревания; иначе дата сохраняется как есть (вместе с долями секунды).
func NormalizeOrderDate(requested, now time.Time, window time.Duration) time.Time {
	if requested.After(now) || !requested.After(now.Add(-window)) {
		return now
	}
	return requested
}
