package ranking_test

import (
	"reflect"
	"testing"

	"github.com/AppleLamps/YourGrokipedia/internal/ranking"
)

func slugsOf(candidates []ranking.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Slug
	}
	return out
}

func TestRank_TeslaOrdering(t *testing.T) {
	got := ranking.Rank("tesla", []string{"Tesla_Inc", "Tesla_Motors_Club", "Elon_Musk"}, 10)

	want := []string{"Tesla_Inc", "Tesla_Motors_Club"}
	if !reflect.DeepEqual(slugsOf(got), want) {
		t.Errorf("Rank order = %v, want %v", slugsOf(got), want)
	}
}

func TestRank_ZeroMatchExcluded(t *testing.T) {
	got := ranking.Rank("tesla", []string{"Elon_Musk", "SpaceX"}, 10)
	if len(got) != 0 {
		t.Errorf("Rank returned %v, want no candidates", slugsOf(got))
	}
}

func TestRank_ExactMatchFirstRegardlessOfOrder(t *testing.T) {
	candidates := []string{"Tesla_Motors_Club", "Tesla_Coil_Museum", "Tesla_Inc", "Nikola_Tesla"}

	for shift := range candidates {
		rotated := append(append([]string{}, candidates[shift:]...), candidates[:shift]...)
		got := ranking.Rank("nikola tesla", rotated, 10)
		if len(got) == 0 || got[0].Slug != "Nikola_Tesla" {
			t.Errorf("rotation %d: first = %v, want Nikola_Tesla", shift, slugsOf(got))
		}
	}
}

func TestRank_ExactMatchCaseAndUnderscoreInsensitive(t *testing.T) {
	got := ranking.Rank("new york city", []string{"New_York", "New_York_City"}, 10)
	if len(got) == 0 || got[0].Slug != "New_York_City" {
		t.Errorf("first = %v, want New_York_City", slugsOf(got))
	}
}

func TestRank_PrefixBeatsWordMatch(t *testing.T) {
	got := ranking.Rank("comp", []string{"Theory_of_Computation", "Company"}, 10)
	// "Company" starts with the query (prefix tier); "Theory_of_Computation"
	// only contains it in a later word (word-substring tier).
	if len(got) != 2 || got[0].Slug != "Company" {
		t.Errorf("order = %v, want Company first", slugsOf(got))
	}
}

func TestRank_LengthPenalty(t *testing.T) {
	// Both score the prefix tier with the same position bonus, so the
	// shorter slug must win on the length penalty.
	got := ranking.Rank("xylo", []string{"Xylophone_Concerto_In_D_Major", "Xylophone"}, 10)
	if len(got) != 2 || got[0].Slug != "Xylophone" {
		t.Errorf("order = %v, want Xylophone first", slugsOf(got))
	}
}

func TestRank_PositionBonus(t *testing.T) {
	// Same tier (whole-word match), same word count; earlier match wins.
	got := ranking.Rank("tesla", []string{"Museum_Of_Tesla", "Tesla_Science_Museum"}, 10)
	if len(got) != 2 || got[0].Slug != "Tesla_Science_Museum" {
		t.Errorf("order = %v, want Tesla_Science_Museum first", slugsOf(got))
	}
}

func TestRank_StableTieBreak(t *testing.T) {
	// Identical scores: input order must be preserved.
	got := ranking.Rank("alpha", []string{"Alpha_One", "Alpha_Two", "Alpha_Six"}, 10)
	want := []string{"Alpha_One", "Alpha_Two", "Alpha_Six"}
	if !reflect.DeepEqual(slugsOf(got), want) {
		t.Errorf("order = %v, want input order %v", slugsOf(got), want)
	}
}

func TestRank_Truncation(t *testing.T) {
	got := ranking.Rank("a", []string{"Alpha", "Abacus", "Aardvark", "Atlas"}, 2)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestRank_EmptyQuery(t *testing.T) {
	if got := ranking.Rank("  ", []string{"Alpha"}, 10); len(got) != 0 {
		t.Errorf("Rank with blank query = %v, want empty", slugsOf(got))
	}
}

func TestRank_FallbackWordTier(t *testing.T) {
	// No single tier matches "electric cars" wholesale, but both query words
	// appear as substrings of slug words.
	got := ranking.Rank("electric cars", []string{"Carsharing_Electric_History", "Steam_Engines"}, 10)
	if len(got) != 1 || got[0].Slug != "Carsharing_Electric_History" {
		t.Errorf("got %v, want only Carsharing_Electric_History", slugsOf(got))
	}
}

func TestMerge_ExactPrecedenceAndDedupe(t *testing.T) {
	exact := []string{"Tesla_Inc", "Tesla_Coil"}
	fuzzy := []string{"Tesla_Coil", "Tesla_Motors_Club", "Tesla_Inc", "Nikola_Tesla"}

	got := ranking.Merge(exact, fuzzy)
	want := []string{"Tesla_Inc", "Tesla_Coil", "Tesla_Motors_Club", "Nikola_Tesla"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge = %v, want %v", got, want)
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	if got := ranking.Merge(nil, nil); len(got) != 0 {
		t.Errorf("Merge(nil, nil) = %v, want empty", got)
	}
	if got := ranking.Merge(nil, []string{"A"}); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("Merge(nil, [A]) = %v", got)
	}
}
