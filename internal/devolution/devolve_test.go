package devolution

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/succession/internal/diagnostics"
	"github.com/mtlprog/succession/internal/domain"
	"github.com/mtlprog/succession/internal/legislation"
)

var valuation = domain.NewDate(2024, time.June, 1)

func member(id string, rel domain.Relationship) domain.FamilyMember {
	return domain.FamilyMember{ID: id, Relationship: rel, BirthDate: domain.NewDate(1970, time.January, 1)}
}

func spouseAged(age int) domain.FamilyMember {
	m := member("spouse", domain.RelSpouse)
	m.BirthDate = domain.NewDate(2024-age, time.January, 1)
	return m
}

func devolve(t *testing.T, in domain.SimulationInput) (Result, *diagnostics.Alerts) {
	t.Helper()
	if in.ValuationDate.IsZero() {
		in.ValuationDate = valuation
	}
	alerts := diagnostics.NewAlerts()
	return Devolve(in, legislation.Builtin(2024), diagnostics.NewTracer(), alerts), alerts
}

func assertShare(t *testing.T, r Result, id string, want domain.Fraction) {
	t.Helper()
	if got := r.ShareOf(id); got.Cmp(want) != 0 {
		t.Errorf("share of %s = %s, want %s", id, got, want)
	}
}

func TestChildrenSharesSumToOne(t *testing.T) {
	tests := []struct {
		children    int
		wantReserve domain.Fraction
	}{
		{1, domain.NewFraction(1, 2)},
		{2, domain.NewFraction(2, 3)},
		{3, domain.NewFraction(3, 4)},
		{4, domain.NewFraction(3, 4)},
		{7, domain.NewFraction(3, 4)},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d children", tt.children), func(t *testing.T) {
			var members []domain.FamilyMember
			for i := range tt.children {
				members = append(members, member(fmt.Sprintf("c%d", i), domain.RelChild))
			}
			r, _ := devolve(t, domain.SimulationInput{Members: members})

			total := domain.FractionZero
			for _, s := range r.Shares {
				total = total.Add(s.Fraction)
			}
			if total.Cmp(domain.FractionOne) != 0 {
				t.Errorf("shares sum to %s, want 1", total)
			}
			if r.ReserveFraction.Cmp(tt.wantReserve) != 0 {
				t.Errorf("reserve = %s, want %s", r.ReserveFraction, tt.wantReserve)
			}
		})
	}
}

func TestAscendantReserve(t *testing.T) {
	tests := []struct {
		name    string
		members []domain.FamilyMember
		want    domain.Fraction
	}{
		{"two parents", []domain.FamilyMember{member("f", domain.RelParent), member("m", domain.RelParent)}, domain.NewFraction(1, 2)},
		{"one parent", []domain.FamilyMember{member("f", domain.RelParent)}, domain.NewFraction(1, 4)},
		{"siblings only", []domain.FamilyMember{member("s", domain.RelSibling)}, domain.FractionZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReserveFraction(tt.members); got.Cmp(tt.want) != 0 {
				t.Errorf("ReserveFraction() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSpouseWithoutDescendants(t *testing.T) {
	tests := []struct {
		name    string
		members []domain.FamilyMember
		want    map[string]domain.Fraction
	}{
		{
			name:    "spouse alone",
			members: []domain.FamilyMember{spouseAged(70)},
			want:    map[string]domain.Fraction{"spouse": domain.FractionOne},
		},
		{
			name:    "spouse and one parent",
			members: []domain.FamilyMember{spouseAged(70), member("father", domain.RelParent)},
			want:    map[string]domain.Fraction{"spouse": domain.NewFraction(3, 4), "father": domain.NewFraction(1, 4)},
		},
		{
			name:    "spouse and two parents",
			members: []domain.FamilyMember{spouseAged(70), member("father", domain.RelParent), member("mother", domain.RelParent)},
			want: map[string]domain.Fraction{
				"spouse": domain.NewFraction(1, 2), "father": domain.NewFraction(1, 4), "mother": domain.NewFraction(1, 4),
			},
		},
		{
			name:    "spouse and siblings",
			members: []domain.FamilyMember{spouseAged(70), member("s1", domain.RelSibling), member("s2", domain.RelSibling)},
			want: map[string]domain.Fraction{
				"spouse": domain.NewFraction(1, 2), "s1": domain.NewFraction(1, 4), "s2": domain.NewFraction(1, 4),
			},
		},
		{
			name:    "parents exclude siblings next to a spouse",
			members: []domain.FamilyMember{spouseAged(70), member("father", domain.RelParent), member("s1", domain.RelSibling)},
			want: map[string]domain.Fraction{
				"spouse": domain.NewFraction(3, 4), "father": domain.NewFraction(1, 4), "s1": domain.FractionZero,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := devolve(t, domain.SimulationInput{Members: tt.members})
			for id, want := range tt.want {
				assertShare(t, r, id, want)
			}
			if r.Spouse == nil || r.Spouse.Usufruct {
				t.Errorf("spouse should hold full ownership, got %+v", r.Spouse)
			}
		})
	}
}

func TestRepresentationSplitsByStirps(t *testing.T) {
	gc1 := member("gc1", domain.RelGrandchild)
	gc1.RepresentsID = "dead-child"
	gc2 := member("gc2", domain.RelGrandchild)
	gc2.RepresentsID = "dead-child"

	r, _ := devolve(t, domain.SimulationInput{Members: []domain.FamilyMember{member("alive", domain.RelChild), gc1, gc2}})

	mass := decimal.NewFromInt(600_000)
	want := map[string]int64{"alive": 300_000, "gc1": 150_000, "gc2": 150_000}
	for id, v := range want {
		if got := r.ShareOf(id).Of(mass); !got.Equal(decimal.NewFromInt(v)) {
			t.Errorf("%s receives %s, want %d", id, got, v)
		}
	}
	if r.Family.StirpsCount != 2 || r.Family.RepresentingHeirs != 2 {
		t.Errorf("stirps = %d, representing = %d; want 2, 2", r.Family.StirpsCount, r.Family.RepresentingHeirs)
	}
	if r.ReserveFraction.Cmp(domain.NewFraction(2, 3)) != 0 {
		t.Errorf("reserve = %s, want 2/3", r.ReserveFraction)
	}
}

func TestRenouncingChildStirps(t *testing.T) {
	renouncing := member("c2", domain.RelChild)
	renouncing.Acceptance = domain.AcceptanceRenunciation

	t.Run("unrepresented renunciation drops the stirps", func(t *testing.T) {
		r, _ := devolve(t, domain.SimulationInput{Members: []domain.FamilyMember{member("c1", domain.RelChild), renouncing}})
		assertShare(t, r, "c1", domain.FractionOne)
		if r.ReserveFraction.Cmp(domain.NewFraction(1, 2)) != 0 {
			t.Errorf("reserve = %s, want 1/2", r.ReserveFraction)
		}
	})

	t.Run("represented renunciation keeps the stirps", func(t *testing.T) {
		gc := member("gc", domain.RelGrandchild)
		gc.RepresentsID = "c2"
		r, _ := devolve(t, domain.SimulationInput{Members: []domain.FamilyMember{member("c1", domain.RelChild), renouncing, gc}})
		assertShare(t, r, "c1", domain.NewFraction(1, 2))
		assertShare(t, r, "gc", domain.NewFraction(1, 2))
		assertShare(t, r, "c2", domain.FractionZero)
	})
}

func TestLooseGrandchildren(t *testing.T) {
	t.Run("excluded when children exist", func(t *testing.T) {
		r, alerts := devolve(t, domain.SimulationInput{Members: []domain.FamilyMember{
			member("c1", domain.RelChild), member("gc", domain.RelGrandchild),
		}})
		assertShare(t, r, "gc", domain.FractionZero)
		if alerts.Len() == 0 {
			t.Error("expected a data alert for the unattached grandchild")
		}
	})

	t.Run("inherit in their own right otherwise", func(t *testing.T) {
		r, _ := devolve(t, domain.SimulationInput{Members: []domain.FamilyMember{
			member("gc1", domain.RelGrandchild), member("gc2", domain.RelGrandchild),
		}})
		assertShare(t, r, "gc1", domain.NewFraction(1, 2))
		assertShare(t, r, "gc2", domain.NewFraction(1, 2))
	})
}

func TestSpouseWithDescendants(t *testing.T) {
	stepChild := member("step", domain.RelChild)
	stepChild.FromCurrentUnion = lo.ToPtr(false)
	renouncingStep := stepChild
	renouncingStep.Acceptance = domain.AcceptanceRenunciation

	tests := []struct {
		name         string
		members      []domain.FamilyMember
		election     *domain.SpouseElection
		wantElection domain.SpouseElection
		wantImposed  bool
		wantSpouse   domain.Fraction
		wantChild    domain.Fraction
	}{
		{
			name:         "default usufruct",
			members:      []domain.FamilyMember{spouseAged(65), member("c1", domain.RelChild)},
			wantElection: domain.ElectionUsufruct,
			wantImposed:  true,
			wantSpouse:   domain.FractionZero,
			wantChild:    domain.FractionOne,
		},
		{
			name:         "quarter forced by step-children",
			members:      []domain.FamilyMember{spouseAged(65), member("c1", domain.RelChild), stepChild},
			wantElection: domain.ElectionQuarter,
			wantImposed:  true,
			wantSpouse:   domain.NewFraction(1, 4),
			wantChild:    domain.NewFraction(3, 8),
		},
		{
			name:         "renouncing step-child does not force the quarter",
			members:      []domain.FamilyMember{spouseAged(65), member("c1", domain.RelChild), renouncingStep},
			wantElection: domain.ElectionUsufruct,
			wantImposed:  true,
			wantSpouse:   domain.FractionZero,
			wantChild:    domain.FractionOne,
		},
		{
			name:         "usufruct election downgraded",
			members:      []domain.FamilyMember{spouseAged(65), member("c1", domain.RelChild), stepChild},
			election:     lo.ToPtr(domain.ElectionUsufruct),
			wantElection: domain.ElectionQuarter,
			wantImposed:  true,
			wantSpouse:   domain.NewFraction(1, 4),
			wantChild:    domain.NewFraction(3, 8),
		},
		{
			name:         "quarter election",
			members:      []domain.FamilyMember{spouseAged(65), member("c1", domain.RelChild), member("c2", domain.RelChild)},
			election:     lo.ToPtr(domain.ElectionQuarter),
			wantElection: domain.ElectionQuarter,
			wantSpouse:   domain.NewFraction(1, 4),
			wantChild:    domain.NewFraction(3, 8),
		},
		{
			name:         "disposable quota with two children",
			members:      []domain.FamilyMember{spouseAged(65), member("c1", domain.RelChild), member("c2", domain.RelChild)},
			election:     lo.ToPtr(domain.ElectionDisposableQuota),
			wantElection: domain.ElectionDisposableQuota,
			wantSpouse:   domain.NewFraction(1, 3),
			wantChild:    domain.NewFraction(1, 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := domain.SimulationInput{
				Members: tt.members,
				Wishes:  domain.Wishes{SpouseElection: tt.election, HasSpouseDonation: true},
			}
			r, _ := devolve(t, in)
			if r.Spouse == nil {
				t.Fatal("expected spouse outcome")
			}
			if r.Spouse.Election != tt.wantElection || r.Spouse.Imposed != tt.wantImposed {
				t.Errorf("election = %s (imposed %v), want %s (imposed %v)",
					r.Spouse.Election, r.Spouse.Imposed, tt.wantElection, tt.wantImposed)
			}
			assertShare(t, r, "spouse", tt.wantSpouse)
			assertShare(t, r, "c1", tt.wantChild)
		})
	}
}

func TestUsufructRateFollowsSpouseAge(t *testing.T) {
	r, _ := devolve(t, domain.SimulationInput{Members: []domain.FamilyMember{spouseAged(65), member("c1", domain.RelChild)}})
	if !r.Spouse.Usufruct {
		t.Fatal("expected usufruct")
	}
	if !r.Spouse.Rate.Equal(decimal.RequireFromString("0.4")) {
		t.Errorf("rate = %s, want 0.4", r.Spouse.Rate)
	}
}

func TestParentsAndSiblings(t *testing.T) {
	nephew := member("n1", domain.RelNephewNiece)
	nephew.RepresentsID = "dead-sibling"

	r, _ := devolve(t, domain.SimulationInput{Members: []domain.FamilyMember{
		member("father", domain.RelParent), member("mother", domain.RelParent), member("s1", domain.RelSibling), nephew,
	}})
	assertShare(t, r, "father", domain.NewFraction(1, 4))
	assertShare(t, r, "mother", domain.NewFraction(1, 4))
	assertShare(t, r, "s1", domain.NewFraction(1, 4))
	assertShare(t, r, "n1", domain.NewFraction(1, 4))
}

func TestSplitLines(t *testing.T) {
	tagged := func(id string, rel domain.Relationship, line domain.Line) domain.FamilyMember {
		m := member(id, rel)
		m.Line = line
		return m
	}

	t.Run("closest degree per line, half each", func(t *testing.T) {
		r, _ := devolve(t, domain.SimulationInput{Members: []domain.FamilyMember{
			tagged("gp-p", domain.RelGrandparent, domain.LinePaternal),
			tagged("uncle-p", domain.RelAuntUncle, domain.LinePaternal),
			tagged("cousin-m1", domain.RelCousin, domain.LineMaternal),
			tagged("cousin-m2", domain.RelCousin, domain.LineMaternal),
		}})
		assertShare(t, r, "gp-p", domain.NewFraction(1, 2))
		assertShare(t, r, "uncle-p", domain.FractionZero)
		assertShare(t, r, "cousin-m1", domain.NewFraction(1, 4))
		assertShare(t, r, "cousin-m2", domain.NewFraction(1, 4))
		if !r.Family.SplitLineApplied {
			t.Error("expected split line to be applied")
		}
	})

	t.Run("single line takes everything", func(t *testing.T) {
		r, _ := devolve(t, domain.SimulationInput{Members: []domain.FamilyMember{
			tagged("uncle", domain.RelAuntUncle, domain.LineMaternal),
		}})
		assertShare(t, r, "uncle", domain.FractionOne)
	})

	t.Run("untagged relatives are excluded when lines are declared", func(t *testing.T) {
		r, alerts := devolve(t, domain.SimulationInput{Members: []domain.FamilyMember{
			tagged("uncle", domain.RelAuntUncle, domain.LineMaternal),
			member("cousin", domain.RelCousin),
		}})
		assertShare(t, r, "cousin", domain.FractionZero)
		if alerts.Len() == 0 {
			t.Error("expected an alert for the untagged cousin")
		}
	})

	t.Run("no line declared keeps a single pool", func(t *testing.T) {
		r, _ := devolve(t, domain.SimulationInput{Members: []domain.FamilyMember{
			member("u1", domain.RelAuntUncle), member("u2", domain.RelAuntUncle), member("cousin", domain.RelCousin),
		}})
		assertShare(t, r, "u1", domain.NewFraction(1, 2))
		assertShare(t, r, "cousin", domain.FractionZero)
		if r.Family.SplitLineApplied {
			t.Error("split line should not be flagged without tagged lines")
		}
	})
}

func TestCustomSharesOverride(t *testing.T) {
	r, _ := devolve(t, domain.SimulationInput{
		Members: []domain.FamilyMember{member("c1", domain.RelChild), member("friend", domain.RelOther)},
		Wishes: domain.Wishes{CustomShares: []domain.CustomShare{
			{BeneficiaryID: "c1", Percent: decimal.NewFromInt(60)},
			{BeneficiaryID: "friend", Percent: decimal.NewFromInt(40)},
		}},
	})
	assertShare(t, r, "c1", domain.NewFraction(3, 5))
	assertShare(t, r, "friend", domain.NewFraction(2, 5))
	if !r.Family.CustomSharesUsed {
		t.Error("expected custom shares flag")
	}
}

func TestPartialCustomSharesLeaveRemainderUnallocated(t *testing.T) {
	third := decimal.RequireFromString("33.333333333333333")
	r, alerts := devolve(t, domain.SimulationInput{
		Members: []domain.FamilyMember{member("c1", domain.RelChild), member("c2", domain.RelChild)},
		Wishes: domain.Wishes{CustomShares: []domain.CustomShare{
			{BeneficiaryID: "c1", Percent: third},
			{BeneficiaryID: "c2", Percent: third},
		}},
	})

	total := lo.Reduce(r.Shares, func(acc domain.Fraction, s Share, _ int) domain.Fraction { return acc.Add(s.Fraction) }, domain.FractionZero)
	want := domain.FractionFromPercent(decimal.RequireFromString("66.666666666666666"))
	if total.Cmp(want) != 0 {
		t.Errorf("allocated = %s, want %s", total, want)
	}

	legal := lo.Filter(alerts.List(), func(a domain.Alert, _ int) bool { return a.Category == domain.CategoryLegal })
	if len(legal) != 1 {
		t.Fatalf("legal alerts = %d, want 1", len(legal))
	}
	if got := legal[0].Message; got != "Custom shares only cover 66.67% of the estate" {
		t.Errorf("message = %q", got)
	}
	if !strings.Contains(legal[0].Details, "33.33% is left unallocated") {
		t.Errorf("details = %q", legal[0].Details)
	}
}

func TestVacantEstate(t *testing.T) {
	_, alerts := devolve(t, domain.SimulationInput{Members: []domain.FamilyMember{member("friend", domain.RelOther)}})
	critical := lo.Filter(alerts.List(), func(a domain.Alert, _ int) bool { return a.Severity == domain.SeverityCritical })
	if len(critical) != 1 {
		t.Errorf("critical alerts = %d, want 1", len(critical))
	}
}

func TestReturnRights(t *testing.T) {
	in := domain.SimulationInput{
		Members: []domain.FamilyMember{member("mother", domain.RelParent), member("s1", domain.RelSibling)},
		Assets: []domain.Asset{
			{ID: "house", ReceivedFromParentID: "mother"},
			{ID: "land", ReceivedFromParentID: "mother"},
			{ID: "car"},
		},
	}
	values := map[string]decimal.Decimal{
		"house": decimal.NewFromInt(80_000),
		"land":  decimal.NewFromInt(50_000),
		"car":   decimal.NewFromInt(10_000),
	}

	rights := ReturnRights(in, values, decimal.NewFromInt(400_000))
	if len(rights) != 2 {
		t.Fatalf("rights = %d, want 2", len(rights))
	}
	if !rights[0].Amount.Equal(decimal.NewFromInt(80_000)) {
		t.Errorf("house return = %s, want 80000", rights[0].Amount)
	}
	if !rights[1].Amount.Equal(decimal.NewFromInt(20_000)) {
		t.Errorf("land return = %s, want 20000 (quarter cap)", rights[1].Amount)
	}

	in.Members = append(in.Members, member("c1", domain.RelChild))
	if got := ReturnRights(in, values, decimal.NewFromInt(400_000)); len(got) != 0 {
		t.Errorf("descendants should exclude the return, got %d rights", len(got))
	}
}
