package assistant

import (
	"testing"

	"github.com/cogitex/rfbooking/models"
)

func eq(id, name, desc string) models.Equipment {
	return models.Equipment{ID: id, Name: name, Description: desc, IsActive: true}
}

func TestFilterEmptySpecsReturnsCatalogInOrder(t *testing.T) {
	catalog := []models.Equipment{eq("1", "A", ""), eq("2", "B", ""), eq("3", "C", "")}
	got := FilterBySpecs(catalog, nil)
	if len(got) != 3 {
		t.Fatalf("got %d items", len(got))
	}
	for i := range catalog {
		if got[i].ID != catalog[i].ID {
			t.Fatal("order must be preserved")
		}
	}
}

func TestFilterKeepsWithinTolerance(t *testing.T) {
	catalog := []models.Equipment{
		eq("1", "SigGen", "RF signal generator, 2.45 GHz output, 900 W max"),
	}
	specs := []Spec{{Param: "frequency", Value: 2.4e9, Unit: "Hz"}}
	if got := FilterBySpecs(catalog, specs); len(got) != 1 {
		t.Fatal("2.45 GHz is within ±10% of 2.4 GHz")
	}
}

func TestFilterDropsExplicitMismatch(t *testing.T) {
	catalog := []models.Equipment{
		eq("1", "AudioGen", "audio generator, 20 kHz maximum"),
		eq("2", "SigGen", "microwave source, 2.4 GHz"),
	}
	specs := []Spec{{Param: "frequency", Value: 2.4e9, Unit: "Hz"}}
	got := FilterBySpecs(catalog, specs)
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("got %+v", got)
	}
}

func TestFilterUnknownParameterDoesNotDisqualify(t *testing.T) {
	catalog := []models.Equipment{
		eq("1", "Mystery", "general purpose bench instrument"),
	}
	specs := []Spec{{Param: "power", Value: 800, Unit: "W"}}
	if got := FilterBySpecs(catalog, specs); len(got) != 1 {
		t.Fatal("absence of a parameter must not exclude the item")
	}
}

func TestFilterAllSpecsMustHold(t *testing.T) {
	catalog := []models.Equipment{
		eq("1", "Amp", "amplifier, 2.4 GHz, 100 W"), // power mismatch
		eq("2", "BigAmp", "amplifier, 2.4 GHz, 820 W"),
	}
	specs := []Spec{
		{Param: "frequency", Value: 2.4e9, Unit: "Hz"},
		{Param: "power", Value: 800, Unit: "W"},
	}
	got := FilterBySpecs(catalog, specs)
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("got %+v", got)
	}
}

func TestFilterMultipleValuesOneMatchSuffices(t *testing.T) {
	catalog := []models.Equipment{
		eq("1", "Dual", "dual band: 900 MHz and 2.4 GHz"),
	}
	specs := []Spec{{Param: "frequency", Value: 2.4e9, Unit: "Hz"}}
	if got := FilterBySpecs(catalog, specs); len(got) != 1 {
		t.Fatal("any in-tolerance value should satisfy the constraint")
	}
}
