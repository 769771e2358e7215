// Package report — периодическая выдача текущего фикса: в лог и/или в MQTT.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shiwa/timecard-mini/gnss-link/internal/logger"
	"github.com/shiwa/timecard-mini/gnss-link/internal/position"
)

// Report — снимок состояния на момент выдачи.
type Report struct {
	Fix     position.Fix `json:"fix"`
	Updated time.Time    `json:"updated,omitempty"`
	Fixes   uint64       `json:"fixes"`
	Time    time.Time    `json:"time"`
}

// Valid — фикс хотя бы раз обновлялся.
func (r Report) Valid() bool { return r.Fixes > 0 }

// Sink принимает отчёты.
type Sink interface {
	Publish(ctx context.Context, r Report) error
	Close() error
}

// Snapshot собирает отчёт из хранилища.
func Snapshot(store *position.Store, now time.Time) Report {
	fix, updated, n := store.Snapshot()
	return Report{Fix: fix, Updated: updated, Fixes: n, Time: now}
}

// LogSink печатает фикс в лог.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, r Report) error {
	logger.Info("%s", r.Fix)
	return nil
}

func (LogSink) Close() error { return nil }

// Multi рассылает отчёт по всем приёмникам; ошибки собираются, рассылка не прерывается.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, r Report) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Encode — JSON представление отчёта для внешних потребителей.
func Encode(r Report) ([]byte, error) {
	return json.Marshal(r)
}
