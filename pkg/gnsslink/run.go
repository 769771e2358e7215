// Package gnsslink предоставляет запуск сессии с приёмником: цикл чтения NMEA,
// периодическая отправка конфигурации UBX и выдача фикса.
package gnsslink

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/shiwa/timecard-mini/gnss-link/internal/config"
	"github.com/shiwa/timecard-mini/gnss-link/internal/logger"
	"github.com/shiwa/timecard-mini/gnss-link/internal/report"
	"github.com/shiwa/timecard-mini/gnss-link/internal/schedule"
	"github.com/shiwa/timecard-mini/gnss-link/internal/session"
	"github.com/shiwa/timecard-mini/gnss-link/internal/transport"
)

// ErrLinkClosed — поток с приёмника закончился (EOF) до отмены контекста.
var ErrLinkClosed = errors.New("gnsslink: link closed")

// RunDaemon открывает канал из cfg.Device и работает до отмены ctx.
func RunDaemon(ctx context.Context, cfg *config.Config, quiet bool) error {
	if cfg == nil {
		cfg = config.Default()
	}
	logger.Quiet = quiet

	sink, err := NewSink(cfg.Report)
	if err != nil {
		return err
	}
	defer sink.Close()

	link, err := transport.Open(cfg.Device)
	if err != nil {
		return err
	}
	logger.Info("opened %s", transport.Describe(cfg.Device))
	return Serve(ctx, cfg.Session, link, sink)
}

// Serve ведёт сессию на уже открытом канале. Канал закрывается при выходе:
// это единственный способ прервать висящее чтение.
// Возвращает ctx.Err() при отмене, ErrLinkClosed при EOF или ошибку чтения.
func Serve(ctx context.Context, sc config.SessionConfig, link io.ReadWriteCloser, sink report.Sink) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := session.New(link, nil)

	readErr := make(chan error, 1)
	go func() {
		readErr <- sess.ReadLoop(ctx, sc.ReadIntervalDuration())
	}()

	var tasks []*schedule.Task
	if sc.HighPrecision || sc.PollHighPrecision {
		tasks = append(tasks, schedule.Every(ctx, "configure", sc.ConfigureIntervalDuration(), func(context.Context) {
			if err := Configure(sess, sc.HighPrecision, sc.PollHighPrecision); err != nil {
				logger.Error("configure: %v", err)
			}
		}))
	}
	if sink != nil {
		tasks = append(tasks, schedule.Every(ctx, "report", sc.ReportIntervalDuration(), func(ctx context.Context) {
			if err := sink.Publish(ctx, report.Snapshot(sess.Store(), time.Now())); err != nil && ctx.Err() == nil {
				logger.Warn("report: %v", err)
			}
		}))
	}

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-readErr:
		if err == nil {
			err = ErrLinkClosed
		}
	}
	cancel()
	for _, t := range tasks {
		t.Stop()
	}
	if cerr := link.Close(); cerr != nil {
		logger.Debug("close link: %v", cerr)
	}
	st := sess.Stats()
	logger.Info("session done: lines=%d fixes=%d mismatches=%d anomalies=%d malformed=%d decode_failures=%d frames_sent=%d",
		st.Lines, st.Fixes, st.Mismatches, st.Anomalies, st.Malformed, st.DecodeFailures, st.FramesSent)
	return err
}

// Configure отправляет кадры конфигурации: включение high precision и/или запрос его значения.
func Configure(sess *session.Session, highPrecision, poll bool) error {
	if highPrecision {
		if err := sess.ActivateHighPrecision(); err != nil {
			return err
		}
	}
	if poll {
		if err := sess.PollHighPrecision(); err != nil {
			return err
		}
	}
	return nil
}

// ConfigureOnce открывает канал, отправляет конфигурацию один раз и закрывает канал.
func ConfigureOnce(cfg *config.Config, highPrecision, poll bool) error {
	link, err := transport.Open(cfg.Device)
	if err != nil {
		return err
	}
	defer link.Close()
	return Configure(session.New(link, nil), highPrecision, poll)
}

// NewSink собирает приёмники отчётов из конфига. Пустой Multi, если выдача отключена.
func NewSink(c config.ReportConfig) (report.Sink, error) {
	var sinks report.Multi
	if c.Log {
		sinks = append(sinks, report.LogSink{})
	}
	if c.MQTT.Broker != "" {
		m, err := report.DialMQTT(c.MQTT)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, m)
	}
	return sinks, nil
}
