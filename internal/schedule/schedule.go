// Package schedule — периодические задачи с явной остановкой.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Task — запущенная периодическая задача.
type Task struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Every запускает fn каждые interval до отмены ctx или Stop().
// Первый вызов — сразу после старта. interval <= 0 — fn вызывается один раз.
// Следующий тик не начинается, пока не закончился предыдущий вызов (пропущенные тики отбрасываются).
func Every(ctx context.Context, name string, interval time.Duration, fn func(ctx context.Context)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{name: name, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		fn(ctx)
		if interval <= 0 {
			return
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if ctx.Err() != nil {
				return
			}
			fn(ctx)
		}
	}()
	return t
}

// Name — имя задачи для логов.
func (t *Task) Name() string { return t.name }

// Stop останавливает задачу и ждёт завершения текущего вызова. Повторный вызов безопасен.
func (t *Task) Stop() {
	t.once.Do(t.cancel)
	<-t.done
}

// Done закрывается, когда задача завершилась.
func (t *Task) Done() <-chan struct{} { return t.done }
