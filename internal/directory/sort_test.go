package directory

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sakif/team-directory/internal/model"
)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ids(ps []*model.Profile) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestSort_NoColumnKeepsInputOrder(t *testing.T) {
	in := []*model.Profile{
		{ID: "b", LastName: model.String("Zed")},
		{ID: "a", LastName: model.String("Abe")},
		{ID: "c"},
	}

	got := Sort(in, SortState{})

	if diff := cmp.Diff([]string{"b", "a", "c"}, ids(got)); diff != "" {
		t.Errorf("Sort() order mismatch (-want +got):\n%s", diff)
	}
	// Same records, new slice.
	if &got[0] == &in[0] {
		t.Error("Sort() returned the input slice")
	}
	for i := range in {
		if got[i] != in[i] {
			t.Errorf("Sort()[%d] is a copy, want the same *Profile", i)
		}
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	in := []*model.Profile{
		{ID: "1", Team: model.String("ops")},
		{ID: "2", Team: model.String("dev")},
	}

	_ = Sort(in, SortState{Column: FieldTeam})

	if diff := cmp.Diff([]string{"1", "2"}, ids(in)); diff != "" {
		t.Errorf("input was reordered (-want +got):\n%s", diff)
	}
}

func TestSort_Empty(t *testing.T) {
	for _, in := range [][]*model.Profile{nil, {}} {
		got := Sort(in, SortState{Column: FieldEmail, Direction: Descending})
		if got == nil || len(got) != 0 {
			t.Errorf("Sort(%v) = %v, want empty non-nil slice", in, got)
		}
	}
}

// The worked example for last_updated: ascending [3,1,2], descending [1,3,2].
func TestSort_LastUpdatedExample(t *testing.T) {
	in := []*model.Profile{
		{ID: "1", LastUpdated: day("2024-01-02")},
		{ID: "2", LastUpdated: nil},
		{ID: "3", LastUpdated: day("2024-01-01")},
	}

	tests := []struct {
		dir  Direction
		want []string
	}{
		{Ascending, []string{"3", "1", "2"}},
		{Descending, []string{"1", "3", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			got := Sort(in, SortState{Column: FieldLastUpdated, Direction: tt.dir})
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSort_NullsLastInBothDirections(t *testing.T) {
	in := []*model.Profile{
		{ID: "n1"},
		{ID: "b", FirstName: model.String("Bea")},
		{ID: "n2"},
		{ID: "a", FirstName: model.String("Al")},
		{ID: "e", FirstName: model.String("")},
	}

	tests := []struct {
		dir  Direction
		want []string
	}{
		// "" is a present value and sorts before letters.
		{Ascending, []string{"e", "a", "b", "n1", "n2"}},
		{Descending, []string{"b", "a", "e", "n1", "n2"}},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			got := Sort(in, SortState{Column: FieldFirstName, Direction: tt.dir})
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSort_StableForTies(t *testing.T) {
	in := []*model.Profile{
		{ID: "1", Team: model.String("ops")},
		{ID: "2", Team: model.String("dev")},
		{ID: "3", Team: model.String("ops")},
		{ID: "4"},
		{ID: "5", Team: model.String("dev")},
		{ID: "6"},
	}

	asc := Sort(in, SortState{Column: FieldTeam, Direction: Ascending})
	if diff := cmp.Diff([]string{"2", "5", "1", "3", "4", "6"}, ids(asc)); diff != "" {
		t.Errorf("ascending mismatch (-want +got):\n%s", diff)
	}

	desc := Sort(in, SortState{Column: FieldTeam, Direction: Descending})
	if diff := cmp.Diff([]string{"1", "3", "2", "5", "4", "6"}, ids(desc)); diff != "" {
		t.Errorf("descending mismatch (-want +got):\n%s", diff)
	}
}

func TestSort_EmailIsNeverNull(t *testing.T) {
	in := []*model.Profile{
		{ID: "1", Email: "zoe@example.com"},
		{ID: "2", Email: "amy@example.com"},
	}
	got := Sort(in, SortState{Column: FieldEmail})
	if diff := cmp.Diff([]string{"2", "1"}, ids(got)); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

// randomProfiles builds profiles whose text fields draw from a tiny alphabet
// so ties and nils are common.
func randomProfiles(r *rand.Rand, n int) []*model.Profile {
	pick := func() *string {
		vals := []string{"a", "b", "c", ""}
		if r.Intn(4) == 0 {
			return nil
		}
		return model.String(vals[r.Intn(len(vals))])
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*model.Profile, n)
	for i := range out {
		p := &model.Profile{
			ID:               string(rune('A' + i)),
			Email:            string(rune('a'+r.Intn(3))) + "@example.com",
			FirstName:        pick(),
			LastName:         pick(),
			Title:            pick(),
			Team:             pick(),
			PhoneNumber:      pick(),
			ShiftboardID:     pick(),
			HLSRSchedulingID: pick(),
		}
		if r.Intn(4) != 0 {
			ts := base.Add(time.Duration(r.Intn(3)) * 24 * time.Hour)
			p.LastUpdated = &ts
		}
		out[i] = p
	}
	return out
}

func TestSort_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		in := randomProfiles(r, 12)
		inputPos := map[string]int{}
		for i, p := range in {
			inputPos[p.ID] = i
		}

		for _, f := range Fields() {
			asc := Sort(in, SortState{Column: f, Direction: Ascending})
			desc := Sort(in, SortState{Column: f, Direction: Descending})

			for _, out := range [][]*model.Profile{asc, desc} {
				// Nulls strictly after every present value.
				seenNull := false
				for _, p := range out {
					if valueIsNil(f, p) {
						seenNull = true
					} else if seenNull {
						t.Fatalf("%s: present value after a null in %v", f, ids(out))
					}
				}
			}

			// Stability: equal-ranked neighbours keep input order.
			for _, out := range [][]*model.Profile{asc, desc} {
				for i := 1; i < len(out); i++ {
					a, b := out[i-1], out[i]
					if f.compare(a, b, Ascending) == 0 && inputPos[a.ID] > inputPos[b.ID] {
						t.Fatalf("%s: unstable order for %s,%s", f, a.ID, b.ID)
					}
				}
			}

			// Present, unequal values: descending is the exact reverse of ascending.
			rank := func(out []*model.Profile) map[string]int {
				m := map[string]int{}
				for i, p := range out {
					m[p.ID] = i
				}
				return m
			}
			ra, rd := rank(asc), rank(desc)
			for _, a := range in {
				for _, b := range in {
					if valueIsNil(f, a) || valueIsNil(f, b) || f.compare(a, b, Ascending) == 0 {
						continue
					}
					if (ra[a.ID] < ra[b.ID]) == (rd[a.ID] < rd[b.ID]) {
						t.Fatalf("%s: %s/%s not reversed between asc and desc", f, a.ID, b.ID)
					}
				}
			}
		}
	}
}

func valueIsNil(f Field, p *model.Profile) bool {
	spec := specs[f]
	if spec.stamp != nil {
		return spec.stamp(p) == nil
	}
	return spec.text(p) == nil
}
