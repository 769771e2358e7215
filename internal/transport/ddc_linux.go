//go:build linux

package transport

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// I2C_RDWR: write адреса регистра и read одной транзакцией (repeated start).
const (
	i2cMrd  = 0x0001
	i2cRdwr = 0x0707
)

type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type i2cRdwrData struct {
	msgs  uintptr
	nmsgs uint32
}

// linuxI2C — устройство на /dev/i2c-N.
type linuxI2C struct {
	f    *os.File
	addr uint16
}

// OpenDDC открывает приёмник u-blox на /dev/i2c-<bus> по адресу addr (обычно 0x42).
func OpenDDC(bus int, addr uint16) (*DDC, error) {
	if addr == 0 || addr > 0x7F {
		return nil, fmt.Errorf("invalid i2c addr 0x%X", addr)
	}
	path := fmt.Sprintf("/dev/i2c-%d", bus)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("i2c open %s: %w", path, err)
	}
	return newDDC(&linuxI2C{f: f, addr: addr}), nil
}

func (d *linuxI2C) Write(p []byte) error {
	return d.tx(p, nil)
}

func (d *linuxI2C) WriteRead(w, r []byte) error {
	return d.tx(w, r)
}

func (d *linuxI2C) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

func (d *linuxI2C) tx(w, r []byte) error {
	if d.f == nil {
		return errors.New("i2c device closed")
	}
	msgs := make([]i2cMsg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, i2cMsg{addr: d.addr, len: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))})
	}
	if len(r) > 0 {
		msgs = append(msgs, i2cMsg{addr: d.addr, flags: i2cMrd, len: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))})
	}
	if len(msgs) == 0 {
		return nil
	}
	data := i2cRdwrData{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: uint32(len(msgs))}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), uintptr(i2cRdwr), uintptr(unsafe.Pointer(&data)))
	if errno != 0 {
		return fmt.Errorf("i2c ioctl: %w", errno)
	}
	return nil
}
