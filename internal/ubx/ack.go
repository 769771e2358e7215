package ubx

import "fmt"

// Ack — ответ приёмника UBX-ACK-ACK / UBX-ACK-NAK на сообщение класса CFG.
type Ack struct {
	OK    bool
	Class uint8 // класс подтверждённого сообщения
	ID    uint8
}

func (a Ack) String() string {
	kind := "NAK"
	if a.OK {
		kind = "ACK"
	}
	return fmt.Sprintf("%s class=0x%02X id=0x%02X", kind, a.Class, a.ID)
}

// ParseAck разбирает ACK-ACK/ACK-NAK (payload 2 байта: clsID, msgID).
func ParseAck(packet []byte) (Ack, bool) {
	h, ok := ParseHeader(packet)
	if !ok || h.Class != ClassACK || (h.ID != IDACK && h.ID != IDNAK) {
		return Ack{}, false
	}
	p := Payload(packet)
	if len(p) < 2 {
		return Ack{}, false
	}
	return Ack{OK: h.ID == IDACK, Class: p[0], ID: p[1]}, true
}
