package ubx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"
)

func TestEncodePacket_ReferenceVectors(t *testing.T) {
	tests := []struct {
		name    string
		class   uint8
		id      uint8
		payload []byte
		want    []byte
	}{
		{
			name:    "valset key bytes 10 93 00 06",
			class:   ClassCFG,
			id:      IDVALSET,
			payload: []byte{0x00, 0x01, 0x00, 0x00, 0x10, 0x93, 0x00, 0x06, 0x01},
			want:    []byte{0xB5, 0x62, 0x06, 0x8A, 0x09, 0x00, 0x00, 0x01, 0x00, 0x00, 0x10, 0x93, 0x00, 0x06, 0x01, 0x44, 0xDA},
		},
		{
			// кадр, снятый с рабочей конфигурации приёмника (слой flash)
			name:    "valset flash msgout",
			class:   ClassCFG,
			id:      IDVALSET,
			payload: []byte{0x01, 0x04, 0x00, 0x00, 0x68, 0x00, 0x91, 0x20, 0x00},
			want:    []byte{0xB5, 0x62, 0x06, 0x8A, 0x09, 0x00, 0x01, 0x04, 0x00, 0x00, 0x68, 0x00, 0x91, 0x20, 0x00, 0xB7, 0x4D},
		},
		{
			name:  "empty payload",
			class: ClassCFG,
			id:    IDVALSET,
			want:  []byte{0xB5, 0x62, 0x06, 0x8A, 0x00, 0x00, 0x90, 0xB6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodePacket(tt.class, tt.id, tt.payload)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got  % X\nwant % X", got, tt.want)
			}
		})
	}
}

func TestValSet_RawKeyBytes(t *testing.T) {
	// ключ, который в кадре ложится байтами 10 93 00 06
	got, err := ValSet(LayerRAM, KeyID(0x06009310), []byte{0x01}).Encode()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 17 {
		t.Fatalf("len = %d, want 17", len(got))
	}
	if got[4] != 0x09 || got[5] != 0x00 {
		t.Errorf("length field % X, want 09 00", got[4:6])
	}
	if !bytes.Equal(got[10:14], []byte{0x10, 0x93, 0x00, 0x06}) {
		t.Errorf("key bytes % X", got[10:14])
	}
	if got[15] != 0x44 || got[16] != 0xDA {
		t.Errorf("checksum % X, want 44 DA", got[15:])
	}
}

func TestHighPrecisionFrame(t *testing.T) {
	want := []byte{0xB5, 0x62, 0x06, 0x8A, 0x09, 0x00, 0x00, 0x01, 0x00, 0x00, 0x06, 0x00, 0x93, 0x10, 0x01, 0x44, 0x29}
	if got := HighPrecisionFrame(); !bytes.Equal(got, want) {
		t.Errorf("got  % X\nwant % X", got, want)
	}
}

func TestPollHighPrecisionFrame(t *testing.T) {
	want := []byte{0xB5, 0x62, 0x06, 0x8B, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x00, 0x93, 0x10, 0x42, 0xDF}
	got := PollHighPrecisionFrame()
	if !bytes.Equal(got, want) {
		t.Errorf("got  % X\nwant % X", got, want)
	}
	if !VerifyChecksum(got) {
		t.Error("poll frame fails own checksum")
	}
}

func TestChecksum_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{0, 1, 2, 7, 9, 255, 256, 1024, MaxPayload} {
		payload := make([]byte, n)
		rng.Read(payload)
		class, id := uint8(rng.Intn(256)), uint8(rng.Intn(256))
		pkt, err := EncodePacket(class, id, payload)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if len(pkt) != n+8 {
			t.Fatalf("n=%d: len %d", n, len(pkt))
		}
		if l := binary.LittleEndian.Uint16(pkt[4:6]); int(l) != n {
			t.Errorf("n=%d: length field %d", n, l)
		}
		ckA, ckB := Checksum(pkt[2 : 6+n])
		if pkt[6+n] != ckA || pkt[7+n] != ckB {
			t.Errorf("n=%d: trailer % X, recomputed %02X %02X", n, pkt[6+n:], ckA, ckB)
		}
		if !VerifyChecksum(pkt) {
			t.Errorf("n=%d: VerifyChecksum false", n)
		}
		if !bytes.Equal(Payload(pkt), payload) {
			t.Errorf("n=%d: Payload mismatch", n)
		}
	}
}

func TestChecksum_WrapsTo8Bits(t *testing.T) {
	data := bytes.Repeat([]byte{0xFF}, 300)
	var a, b int
	for _, x := range data {
		a = (a + int(x)) & 0xFF
		b = (b + a) & 0xFF
	}
	ckA, ckB := Checksum(data)
	if int(ckA) != a || int(ckB) != b {
		t.Errorf("got %02X %02X, want %02X %02X", ckA, ckB, a, b)
	}
}

func TestEncodePacket_TooLarge(t *testing.T) {
	_, err := EncodePacket(ClassCFG, IDVALSET, make([]byte, MaxPayload+1))
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestVerifyChecksum_Corrupted(t *testing.T) {
	pkt := HighPrecisionFrame()
	pkt[8] ^= 0x01
	if VerifyChecksum(pkt) {
		t.Error("corrupted packet passed checksum")
	}
	if VerifyChecksum(pkt[:5]) {
		t.Error("short packet passed checksum")
	}
}

func TestParseHeader(t *testing.T) {
	h, ok := ParseHeader(HighPrecisionFrame())
	if !ok {
		t.Fatal("expected ok")
	}
	if h.Class != ClassCFG || h.ID != IDVALSET || h.Length != 9 {
		t.Errorf("got %+v", h)
	}
	if _, ok := ParseHeader([]byte{0x00, 0x62, 0x06, 0x8A, 0, 0}); ok {
		t.Error("wrong sync accepted")
	}
}

func TestFindPacket(t *testing.T) {
	ack := []byte{0xB5, 0x62, 0x05, 0x01, 0x02, 0x00, 0x06, 0x8A, 0x98, 0xC1}
	t.Run("embedded in noise", func(t *testing.T) {
		buf := append([]byte("$GNTXT*\r\n\xB5"), ack...)
		buf = append(buf, 'x', 'y')
		pkt, rest, ok := FindPacket(buf)
		if !ok {
			t.Fatal("expected packet")
		}
		if !bytes.Equal(pkt, ack) {
			t.Errorf("packet % X", pkt)
		}
		if string(rest) != "xy" {
			t.Errorf("rest %q", rest)
		}
	})
	t.Run("truncated", func(t *testing.T) {
		if _, _, ok := FindPacket(ack[:9]); ok {
			t.Error("truncated packet found")
		}
	})
	t.Run("bad checksum then good", func(t *testing.T) {
		bad := append([]byte(nil), ack...)
		bad[9] ^= 0xFF
		pkt, _, ok := FindPacket(append(bad, ack...))
		if !ok || !bytes.Equal(pkt, ack) {
			t.Errorf("ok=%v pkt=% X", ok, pkt)
		}
	})
}

func TestParseAck(t *testing.T) {
	tests := []struct {
		name string
		pkt  []byte
		want Ack
		ok   bool
	}{
		{"ack", []byte{0xB5, 0x62, 0x05, 0x01, 0x02, 0x00, 0x06, 0x8A, 0x98, 0xC1}, Ack{OK: true, Class: 0x06, ID: 0x8A}, true},
		{"nak", []byte{0xB5, 0x62, 0x05, 0x00, 0x02, 0x00, 0x06, 0x8A, 0x97, 0xBC}, Ack{OK: false, Class: 0x06, ID: 0x8A}, true},
		{"not ack", HighPrecisionFrame(), Ack{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAck(tt.pkt)
			if ok != tt.ok || got != tt.want {
				t.Errorf("got %+v ok=%v, want %+v ok=%v", got, ok, tt.want, tt.ok)
			}
		})
	}
	if s := (Ack{OK: true, Class: 0x06, ID: 0x8A}).String(); s != "ACK class=0x06 id=0x8A" {
		t.Errorf("String() = %q", s)
	}
}
