// Package session — сессия с приёмником: общий фикс, цикл чтения NMEA и отправка кадров UBX.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/shiwa/timecard-mini/gnss-link/internal/logger"
	"github.com/shiwa/timecard-mini/gnss-link/internal/nmea"
	"github.com/shiwa/timecard-mini/gnss-link/internal/position"
	"github.com/shiwa/timecard-mini/gnss-link/internal/ubx"
)

// DecodeFailureError — во входном потоке байты, которые не являются текстом (обычно ответ UBX).
type DecodeFailureError struct {
	Len int
	// Packet — найденный в строке UBX кадр, если есть
	Packet []byte
}

func (e *DecodeFailureError) Error() string {
	if h, ok := ubx.ParseHeader(e.Packet); ok {
		return fmt.Sprintf("session: %d non-text bytes, ubx class=0x%02X id=0x%02X", e.Len, h.Class, h.ID)
	}
	return fmt.Sprintf("session: %d non-text bytes", e.Len)
}

// Stats — счётчики событий сессии.
type Stats struct {
	Lines          uint64
	Fixes          uint64
	Mismatches     uint64
	Anomalies      uint64
	Malformed      uint64
	DecodeFailures uint64
	FramesSent     uint64
}

// Session владеет каналом и фиксом. Чтение идёт в одной горутине (ReadLoop),
// запись кадров сериализована (Send), чтение и запись друг друга не ждут.
type Session struct {
	rw    io.ReadWriter
	store *position.Store

	wmu sync.Mutex

	lines, fixes, mismatches, anomalies, malformed, decodeFailures, framesSent atomic.Uint64
}

// New создаёт сессию поверх открытого канала; store nil — новое хранилище.
func New(rw io.ReadWriter, store *position.Store) *Session {
	if store == nil {
		store = position.NewStore()
	}
	return &Session{rw: rw, store: store}
}

// Store возвращает хранилище фикса.
func (s *Session) Store() *position.Store { return s.store }

// Fix возвращает текущий фикс.
func (s *Session) Fix() position.Fix { return s.store.Get() }

// Stats возвращает снимок счётчиков.
func (s *Session) Stats() Stats {
	return Stats{
		Lines:          s.lines.Load(),
		Fixes:          s.fixes.Load(),
		Mismatches:     s.mismatches.Load(),
		Anomalies:      s.anomalies.Load(),
		Malformed:      s.malformed.Load(),
		DecodeFailures: s.decodeFailures.Load(),
		FramesSent:     s.framesSent.Load(),
	}
}

// HandleLine разбирает одну принятую строку (с терминатором). При успехе заменяет фикс целиком.
// Возвращает nil при обновлении фикса, nmea.ErrIgnored для тихо пропущенных строк
// и ошибку разбора (*nmea.ChecksumMismatchError, *nmea.AnomalyError, *nmea.MalformedError,
// *DecodeFailureError) в остальных случаях; фикс при ошибке не меняется.
func (s *Session) HandleLine(raw []byte) error {
	s.lines.Add(1)
	if !utf8.Valid(raw) {
		s.decodeFailures.Add(1)
		pkt, _, _ := ubx.FindPacket(raw)
		return &DecodeFailureError{Len: len(raw), Packet: pkt}
	}
	p, err := nmea.Decode(string(raw))
	if err != nil {
		var (
			mm *nmea.ChecksumMismatchError
			an *nmea.AnomalyError
			me *nmea.MalformedError
		)
		switch {
		case errors.As(err, &mm):
			s.mismatches.Add(1)
		case errors.As(err, &an):
			s.anomalies.Add(1)
		case errors.As(err, &me):
			s.malformed.Add(1)
		}
		return err
	}
	s.store.Set(position.Fix{Latitude: p.Latitude, Longitude: p.Longitude})
	s.fixes.Add(1)
	return nil
}

// ReadLoop читает строки, пока не закончится поток или не отменён ctx.
// Ошибки разбора логируются и цикл продолжается. Таймаутов нет: если устройство молчит,
// цикл висит в Read до закрытия канала; отмена ctx проверяется между строками.
// interval > 0 — пауза после каждой строки.
func (s *Session) ReadLoop(ctx context.Context, interval time.Duration) error {
	rd := bufio.NewReader(s.rw)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := rd.ReadBytes('\n')
		if len(line) > 0 {
			s.logOutcome(line, s.HandleLine(line))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		if interval > 0 {
			t := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
	}
}

func (s *Session) logOutcome(line []byte, err error) {
	var (
		mm *nmea.ChecksumMismatchError
		an *nmea.AnomalyError
		df *DecodeFailureError
	)
	switch {
	case err == nil:
		logger.Debug("%q", line)
	case errors.Is(err, nmea.ErrIgnored):
	case errors.As(err, &mm):
		logger.Warn("`%s` did not match `%s`", mm.Computed, mm.Transmitted)
	case errors.As(err, &an):
		logger.Warn("got weird message: %q of len %d", an.Line, an.Fields)
	case errors.As(err, &df):
		if ack, ok := ubx.ParseAck(df.Packet); ok {
			logger.Info("ubx response: %s", ack)
			return
		}
		logger.Info("decode error, probably a ubx message: %v", err)
	default:
		logger.Warn("%v", err)
	}
}

// Send пишет готовый кадр. Одновременные Send не перемешивают байты кадров.
// Подтверждения не ждём, повторов нет.
func (s *Session) Send(frame []byte) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if _, err := s.rw.Write(frame); err != nil {
		return fmt.Errorf("write ubx: %w", err)
	}
	s.framesSent.Add(1)
	logger.Debug("sent % X", frame)
	return nil
}

// SendMessage собирает и отправляет UBX сообщение.
func (s *Session) SendMessage(m ubx.Message) error {
	frame, err := m.Encode()
	if err != nil {
		return err
	}
	return s.Send(frame)
}

// ActivateHighPrecision включает CFG-NMEA-HIGHPREC в RAM приёмника.
func (s *Session) ActivateHighPrecision() error {
	return s.Send(ubx.HighPrecisionFrame())
}

// PollHighPrecision запрашивает текущее значение CFG-NMEA-HIGHPREC (ответ только логируется).
func (s *Session) PollHighPrecision() error {
	return s.Send(ubx.PollHighPrecisionFrame())
}
