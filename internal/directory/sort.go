package directory

import (
	"slices"

	"github.com/sakif/team-directory/internal/model"
)

// Sort returns the profiles ordered by state. The input slice is not
// modified; the result holds the same pointers in a new slice.
//
// With no column selected the result is the input order. Otherwise the
// sort is stable: rows that compare equal, including two missing values,
// keep their input order.
func Sort(profiles []*model.Profile, state SortState) []*model.Profile {
	out := slices.Clone(profiles)
	if out == nil {
		out = []*model.Profile{}
	}
	if !state.Column.Valid() {
		return out
	}
	slices.SortStableFunc(out, func(a, b *model.Profile) int {
		return state.Column.compare(a, b, state.Direction)
	})
	return out
}
