package kafka

import (
	"context"
	"math/rand"
	"time"
)

// backoff — экспоненциальная пауза с equal-jitter: половина интервала фиксирована,
// вторая половина случайна. Не потокобезопасен, живёт в одной горутине цикла.
type backoff struct {
	initial time.Duration
	max     time.Duration
	cur     time.Duration
	rnd     *rand.Rand
}

func newBackoff(initial, maxDelay time.Duration, rnd *rand.Rand) *backoff {
	if maxDelay < initial {
		maxDelay = initial
	}
	return &backoff{initial: initial, max: maxDelay, cur: initial, rnd: rnd}
}

// Next — пауза перед следующей попыткой; базовый интервал удваивается до max.
func (b *backoff) Next() time.Duration {
	d := b.cur
	b.cur *= 2
	if b.cur > b.max {
		b.cur = b.max
	}
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(b.rnd.Int63n(int64(d-half)+1))
}

// Reset — вернуться к начальному интервалу.
func (b *backoff) Reset() { b.cur = b.initial }

// sleepCtx — ждать d; false, если контекст отменён раньше.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
