package transport

import (
	"errors"
	"sync"
	"time"
)

// Регистры DDC (I2C) u-blox: число доступных байт (старший, младший) и поток данных.
const (
	ddcRegAvailHigh = 0xFD
	ddcRegStream    = 0xFF
	ddcIdle         = 0xFF // байт-заполнитель, когда данных нет
	ddcMaxChunk     = 255
)

// ddcPollInterval — пауза между опросами счётчика, пока у приёмника нет данных.
const ddcPollInterval = 20 * time.Millisecond

// i2cDevice — одно устройство на шине: транзакции write, combined write+read.
type i2cDevice interface {
	Write(p []byte) error
	WriteRead(w, r []byte) error
	Close() error
}

// DDC — поток байт приёмника u-blox по I2C, как io.ReadWriteCloser.
// Read опрашивает счётчик доступных байт и блокируется, пока данных нет.
type DDC struct {
	mu     sync.Mutex // транзакции на шине не перекрываются
	dev    i2cDevice
	poll   time.Duration
	closed bool
}

var (
	// ErrClosed — канал закрыт.
	ErrClosed = errors.New("transport: closed")
	// ErrShortFrame — запись короче 2 байт приёмник по DDC не принимает.
	ErrShortFrame = errors.New("transport: ddc write shorter than 2 bytes")
)

func newDDC(dev i2cDevice) *DDC {
	return &DDC{dev: dev, poll: ddcPollInterval}
}

// available читает 16-битный счётчик 0xFD (старший) / 0xFE (младший).
func (d *DDC) available() (int, error) {
	var b [2]byte
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}
	if err := d.dev.WriteRead([]byte{ddcRegAvailHigh}, b[:]); err != nil {
		return 0, err
	}
	return int(b[0])<<8 | int(b[1]), nil
}

func (d *DDC) readStream(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}
	if err := d.dev.WriteRead([]byte{ddcRegStream}, p); err != nil {
		return 0, err
	}
	// 0xFF — заполнитель, в NMEA его не бывает
	n := 0
	for _, b := range p {
		if b != ddcIdle {
			p[n] = b
			n++
		}
	}
	return n, nil
}

// Read блокируется, пока приёмник не отдаст хотя бы один байт.
func (d *DDC) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		avail, err := d.available()
		if err != nil {
			return 0, err
		}
		if avail > 0 {
			k := avail
			if k > len(p) {
				k = len(p)
			}
			if k > ddcMaxChunk {
				k = ddcMaxChunk
			}
			n, err := d.readStream(p[:k])
			if err != nil {
				return 0, err
			}
			if n > 0 {
				return n, nil
			}
		}
		time.Sleep(d.poll)
	}
}

// Write отправляет кадр одной транзакцией (u-blox требует не меньше 2 байт).
func (d *DDC) Write(p []byte) (int, error) {
	if len(p) < 2 {
		return 0, ErrShortFrame
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}
	if err := d.dev.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close закрывает шину; ожидающий Read вернёт ErrClosed на следующем опросе.
func (d *DDC) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.dev.Close()
}
