package nmea

import (
	"errors"
	"math"
	"testing"

	gonmea "github.com/adrianmo/go-nmea"
)

const refGLL = "$GNGLL,3511.93307,N,09721.15557,W,011244.00,A,D*64"

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDecode_Reference(t *testing.T) {
	for _, line := range []string{refGLL, refGLL + "\r\n", refGLL + "\n"} {
		p, err := Decode(line)
		if err != nil {
			t.Fatalf("Decode(%q): %v", line, err)
		}
		if !near(p.Latitude, 35+11.93307/60) {
			t.Errorf("lat = %v, want %v", p.Latitude, 35+11.93307/60)
		}
		if !near(p.Longitude, -(97 + 21.15557/60)) {
			t.Errorf("lon = %v, want %v", p.Longitude, -(97 + 21.15557/60))
		}
		if math.Abs(p.Latitude-35.198885) > 1e-6 || math.Abs(p.Longitude+97.352593) > 1e-6 {
			t.Errorf("got %+v", p)
		}
	}
}

func TestDecode_MatchesGoNMEA(t *testing.T) {
	lines := []string{
		refGLL,
		"$GNGLL,4807.038,N,01131.000,E,123519.00,A,A*78",
		"$GPGLL,3351.0000,S,15112.0000,E,000000.00,A,A*76",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			got, err := Decode(line)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			s, err := gonmea.Parse(line)
			if err != nil {
				t.Fatalf("go-nmea: %v", err)
			}
			gll, ok := s.(gonmea.GLL)
			if !ok {
				t.Fatalf("go-nmea type %T", s)
			}
			if !near(got.Latitude, gll.Latitude) || !near(got.Longitude, gll.Longitude) {
				t.Errorf("got %+v, go-nmea lat=%v lon=%v", got, gll.Latitude, gll.Longitude)
			}
		})
	}
}

func TestDecode_Hemispheres(t *testing.T) {
	p, err := Decode("$GPGLL,3351.0000,S,15112.0000,E,000000.00,A,A*76")
	if err != nil {
		t.Fatal(err)
	}
	if p.Latitude >= 0 || p.Longitude <= 0 {
		t.Errorf("S/E: got %+v", p)
	}
	p, err = Decode("$GNGLL,4807.038,N,01131.000,E,123519.00,A,A*78")
	if err != nil {
		t.Fatal(err)
	}
	if p.Latitude <= 0 || p.Longitude <= 0 {
		t.Errorf("N/E: got %+v", p)
	}
}

func TestDecode_ChecksumMismatch(t *testing.T) {
	line := "$GNGLL,3511.93307,N,09721.15557,W,011244.00,A,D*65\r\n"
	_, err := Decode(line)
	var mm *ChecksumMismatchError
	if !errors.As(err, &mm) {
		t.Fatalf("expected ChecksumMismatchError, got %v", err)
	}
	if mm.Computed != "64" || mm.Transmitted != "65" {
		t.Errorf("got computed=%q transmitted=%q", mm.Computed, mm.Transmitted)
	}
}

func TestDecode_LowercaseChecksumRejected(t *testing.T) {
	_, err := Decode("$GNGLL,4807.038,N,01131.000,W,123519.00,A,A*6a")
	var mm *ChecksumMismatchError
	if !errors.As(err, &mm) {
		t.Fatalf("expected mismatch for lowercase hex, got %v", err)
	}
}

func TestDecode_UnpaddedChecksum(t *testing.T) {
	// XOR этого предложения = 0x0E, рендерится как "E"
	const body = "$GPGLL,3511.93307,N,09721.15557,W,011244.000,A,"
	if _, err := Decode(body + "*E\r\n"); err != nil {
		t.Errorf("single-digit checksum: %v", err)
	}
	_, err := Decode(body + "*0E\r\n")
	var mm *ChecksumMismatchError
	if !errors.As(err, &mm) {
		t.Fatalf("zero-padded checksum must not match, got %v", err)
	}
	if mm.Computed != "E" {
		t.Errorf("computed = %q, want E", mm.Computed)
	}
}

func TestDecode_Anomaly(t *testing.T) {
	for _, line := range []string{"garbage\r\n", "GNGLL,3511.93307,N*64", "x", ",,,"} {
		_, err := Decode(line)
		var an *AnomalyError
		if !errors.As(err, &an) {
			t.Errorf("Decode(%q): expected anomaly, got %v", line, err)
			continue
		}
		if an.Line != line {
			t.Errorf("anomaly line = %q", an.Line)
		}
	}
}

func TestDecode_Ignored(t *testing.T) {
	lines := []string{
		"",
		"\n",
		"\r\n",
		"$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A\r\n",
		"$GNGGA,011244.00,3511.93307,N,09721.15557,W,1,12,0.9,300.0,M,-25.0,M,,*47",
		"$",
	}
	for _, line := range lines {
		if _, err := Decode(line); !errors.Is(err, ErrIgnored) {
			t.Errorf("Decode(%q): expected ErrIgnored, got %v", line, err)
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"too few fields", "$GNGLL,3511.93307,N"},
		{"no fix", "$GNGLL,,,,,011244.00,V,N"},
		{"short latitude", "$GNGLL,35,N,09721.15557,W,011244.00,A,D"},
		{"bad longitude", "$GNGLL,3511.93307,N,09721.1x557,W,011244.00,A,D"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := tt.body + "*" + Checksum(tt.body) + "\r\n"
			_, err := Decode(line)
			var me *MalformedError
			if !errors.As(err, &me) {
				t.Fatalf("expected MalformedError, got %v", err)
			}
		})
	}
}

func TestIsGLL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{refGLL, true},
		{"$GPGLL,", true},
		{"$XXGLL", true},
		{"$GLL,1", true},
		{"GNGLL,1", false},
		{"$GNRMC,1", false},
		{"$GNGLLX,1", false},
	}
	for _, tt := range tests {
		if got := IsGLL(tt.in); got != tt.want {
			t.Errorf("IsGLL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
