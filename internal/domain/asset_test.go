package domain

import "testing"

func TestAssetLabel(t *testing.T) {
	tests := []struct {
		name  string
		asset Asset
		want  string
	}{
		{"named", Asset{ID: "a1", Name: "Paris flat"}, "Paris flat"},
		{"falls back to id", Asset{ID: "a1"}, "a1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.asset.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssetCountry(t *testing.T) {
	tests := []struct {
		name  string
		asset Asset
		want  string
	}{
		{"default jurisdiction", Asset{ID: "a"}, DefaultCountry},
		{"abroad", Asset{ID: "a", LocationCountry: "ES"}, "ES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.asset.Country(); got != tt.want {
				t.Errorf("Country() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssetIsLifeInsurance(t *testing.T) {
	if (Asset{ID: "a"}).IsLifeInsurance() {
		t.Error("plain asset reported as life insurance")
	}
	if !(Asset{ID: "a", LifeInsurance: &LifeInsuranceContract{}}).IsLifeInsurance() {
		t.Error("contract not reported as life insurance")
	}
}

func TestDismembermentTemporary(t *testing.T) {
	if !(Dismemberment{Kind: UsufructTemporary, DurationYears: 10}).Temporary() {
		t.Error("temporary usufruct not detected")
	}
	if (Dismemberment{Kind: UsufructLifetime}).Temporary() {
		t.Error("lifetime usufruct reported as temporary")
	}
}
