package market

import "testing"

func TestTierStepsMoveOneAndSaturate(t *testing.T) {
	if got := stepDown(int(SupplyNormal)); got != int(SupplySlightlyLow) {
		t.Fatalf("stepDown(Normal) = %d, want %d", got, int(SupplySlightlyLow))
	}
	if got := stepUp(int(SupplyNormal)); got != int(SupplySurplus) {
		t.Fatalf("stepUp(Normal) = %d, want %d", got, int(SupplySurplus))
	}
	if got := stepDown(tierMinOrd); got != tierMinOrd {
		t.Fatalf("stepDown at floor = %d, want %d", got, tierMinOrd)
	}
	if got := stepUp(tierMaxOrd); got != tierMaxOrd {
		t.Fatalf("stepUp at ceiling = %d, want %d", got, tierMaxOrd)
	}
}

func TestStepToward(t *testing.T) {
	cases := []struct {
		ord, target, want int
	}{
		{0, NormalTier, 1},
		{6, NormalTier, 5},
		{NormalTier, NormalTier, NormalTier},
		{3, 3, 3},
		{5, 0, 4},
	}
	for _, c := range cases {
		if got := stepToward(c.ord, c.target); got != c.want {
			t.Fatalf("stepToward(%d, %d) = %d, want %d", c.ord, c.target, got, c.want)
		}
	}
}

func TestClampTier(t *testing.T) {
	if got := clampTier(-3); got != tierMinOrd {
		t.Fatalf("clampTier(-3) = %d, want %d", got, tierMinOrd)
	}
	if got := clampTier(9); got != tierMaxOrd {
		t.Fatalf("clampTier(9) = %d, want %d", got, tierMaxOrd)
	}
	if got := clampTier(4); got != 4 {
		t.Fatalf("clampTier(4) = %d, want 4", got)
	}
}

func TestTierLevels(t *testing.T) {
	if got := SupplyNormal.Level(); got != 1.0 {
		t.Fatalf("SupplyNormal.Level() = %v, want 1.0", got)
	}
	if got := SupplySevereShortage.Level(); got != 0.0 {
		t.Fatalf("SupplySevereShortage.Level() = %v, want 0.0", got)
	}
	if got := SupplyMajorSurplus.Level(); got != 1.5 {
		t.Fatalf("SupplyMajorSurplus.Level() = %v, want 1.5", got)
	}
	if got := DemandVeryHigh.Level(); got != 1.5 {
		t.Fatalf("DemandVeryHigh.Level() = %v, want 1.5", got)
	}
}

func TestTierNames(t *testing.T) {
	if got := SupplyShortage.String(); got != "Shortage" {
		t.Fatalf("SupplyShortage.String() = %q", got)
	}
	if got := DemandVeryHigh.String(); got != "Very High" {
		t.Fatalf("DemandVeryHigh.String() = %q", got)
	}
	if got := SupplyTier(42).String(); got != "Unknown" {
		t.Fatalf("out-of-range supply tier = %q, want Unknown", got)
	}
	if got := DemandTier(42).String(); got != "Unknown" {
		t.Fatalf("out-of-range demand tier = %q, want Unknown", got)
	}
}
