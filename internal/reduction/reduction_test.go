package reduction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/domain"
)

func eur(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestBequestsAreReducedBeforeDonations(t *testing.T) {
	liberalities := []Liberality{
		{ID: "don", Kind: domain.LiberalityDonation, Date: domain.NewDate(2020, time.January, 1), Value: eur(100_000)},
		{ID: "beq", Kind: domain.LiberalityBequest, Date: domain.NewDate(2023, time.January, 1), Value: eur(100_000)},
	}

	tests := []struct {
		name         string
		quota        int64
		wantBequest  int64
		wantDonation int64
	}{
		{"excess absorbed by the bequest", 150_000, 50_000, 100_000},
		{"bequest exhausted then donation", 50_000, 0, 50_000},
		{"nothing to reduce", 250_000, 100_000, 100_000},
		{"everything reduced", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reduce(liberalities, eur(tt.quota))
			beq, _ := r.Effective("beq", domain.LiberalityBequest)
			don, _ := r.Effective("don", domain.LiberalityDonation)
			if !beq.Equal(eur(tt.wantBequest)) {
				t.Errorf("bequest kept %s, want %d", beq, tt.wantBequest)
			}
			if !don.Equal(eur(tt.wantDonation)) {
				t.Errorf("donation kept %s, want %d", don, tt.wantDonation)
			}
			if r.Records[0].ID != "beq" {
				t.Errorf("first record = %s, want the bequest", r.Records[0].ID)
			}
		})
	}
}

func TestDonationsNewestFirst(t *testing.T) {
	r := Reduce([]Liberality{
		{ID: "old", Kind: domain.LiberalityDonation, Date: domain.NewDate(2010, time.May, 1), Value: eur(30_000)},
		{ID: "new", Kind: domain.LiberalityDonation, Date: domain.NewDate(2022, time.May, 1), Value: eur(30_000)},
		{ID: "mid", Kind: domain.LiberalityDonation, Date: domain.NewDate(2016, time.May, 1), Value: eur(30_000)},
	}, eur(40_000))

	got := []string{r.Records[0].ID, r.Records[1].ID, r.Records[2].ID}
	want := []string{"new", "mid", "old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if !r.Restored.Equal(eur(50_000)) {
		t.Errorf("restored = %s, want 50000", r.Restored)
	}
	old, _ := r.Effective("old", domain.LiberalityDonation)
	if !old.Equal(eur(30_000)) {
		t.Errorf("oldest donation kept %s, want 30000", old)
	}
}

func TestFromDonationsSkipsCustomaryPresents(t *testing.T) {
	got := FromDonations([]domain.Donation{
		{ID: "a", Kind: domain.DonationManual, OriginalValue: eur(10)},
		{ID: "b", Kind: domain.DonationCustomary, OriginalValue: eur(10)},
		{ID: "c", Kind: domain.DonationSharedPartition, OriginalValue: eur(10)},
	})
	if len(got) != 2 {
		t.Errorf("liberalities = %d, want 2", len(got))
	}
}
