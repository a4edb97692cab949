package analog

import (
	"fmt"

	"github.com/hidrodata/vazex/internal/series"
)

// Extend copies the accepted analog continuation onto the forecast horizon.
//
// The slice starts at sel.Start and spans horizon rows of s; a horizon <= 0
// means "to the end of sel.Start's calendar year". The slice is re-indexed to
// begin the month after s ends, with values copied verbatim.
func Extend(s *series.Series, sel *Selection, horizon int) (*series.Series, error) {
	if horizon <= 0 {
		horizon = 13 - int(sel.Start.Month)
	}
	i := s.IndexOf(sel.Start)
	if i < 0 {
		return nil, fmt.Errorf("%w: analog start %s outside series", ErrHorizonExceedsHistory, sel.Start)
	}
	if i+horizon > s.Len() {
		return nil, fmt.Errorf("%w: need %d rows from %s, have %d",
			ErrHorizonExceedsHistory, horizon, sel.Start, s.Len()-i)
	}
	slice, err := s.Slice(i, horizon)
	if err != nil {
		return nil, err
	}
	return slice.Reindex(s.End().Next()), nil
}
