package assistant

import (
	"testing"
)

func TestExtractSpecsCanonicalUnits(t *testing.T) {
	specs := ExtractSpecs("need equipment rated 2.4GHz, 800W")
	if len(specs) != 2 {
		t.Fatalf("specs = %+v", specs)
	}
	if specs[0].Param != "frequency" || specs[0].Unit != "Hz" || specs[0].Value != 2.4e9 {
		t.Errorf("frequency spec = %+v", specs[0])
	}
	if specs[1].Param != "power" || specs[1].Unit != "W" || specs[1].Value != 800 {
		t.Errorf("power spec = %+v", specs[1])
	}
}

func TestExtractSpecsVariants(t *testing.T) {
	cases := []struct {
		text  string
		param string
		value float64
	}{
		{"signal generator up to 6 GHz", "frequency", 6e9},
		{"oscillator at 440 kHz", "frequency", 440e3},
		{"100 MHz scope", "frequency", 100e6},
		{"supply delivering 1.5kW", "power", 1500},
		{"chamber to 85 °C", "temperature", 85},
		{"down to -40°C", "temperature", -40},
		{"output 3,3 V", "voltage", 3.3},
		{"high voltage 10 kV source", "voltage", 10e3},
		{"load up to 20 A", "current", 20},
		{"precision 500 mA range", "current", 0.5},
	}
	for _, c := range cases {
		specs := ExtractSpecs(c.text)
		if len(specs) == 0 {
			t.Errorf("%q: no spec extracted", c.text)
			continue
		}
		s := specs[0]
		if s.Param != c.param || s.Value != c.value {
			t.Errorf("%q: got %+v, want %s=%v", c.text, s, c.param, c.value)
		}
	}
}

func TestExtractSpecsNoMatchIsEmpty(t *testing.T) {
	if specs := ExtractSpecs("I just need something for tomorrow"); len(specs) != 0 {
		t.Fatalf("specs = %+v", specs)
	}
}

func TestExtractSpecsDeterministic(t *testing.T) {
	a := ExtractSpecs("2.4GHz 800W 5V")
	b := ExtractSpecs("2.4GHz 800W 5V")
	if len(a) != len(b) {
		t.Fatal("extraction must be deterministic")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("run 1 %+v != run 2 %+v", a[i], b[i])
		}
	}
}
