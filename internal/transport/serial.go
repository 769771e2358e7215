package transport

import (
	"fmt"

	bugst "go.bug.st/serial"

	"github.com/tarm/serial"
)

// openTarm открывает последовательный порт через tarm/serial (ReadTimeout 0 — блокирующее чтение).
func openTarm(device string, baud int) (*serial.Port, error) {
	c := &serial.Config{
		Name: device,
		Baud: baud,
	}
	p, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", device, err)
	}
	return p, nil
}

// openBugst открывает порт через go.bug.st/serial, 8N1.
func openBugst(device string, baud int) (bugst.Port, error) {
	mode := &bugst.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}
	p, err := bugst.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", device, err)
	}
	return p, nil
}
