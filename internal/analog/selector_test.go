package analog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrodata/vazex/internal/series"
)

func TestFitAcceptsDuplicateYearAtRankOne(t *testing.T) {
	s := scenarioSeries(t)
	res, err := Fit(s, Params{Station: 10})
	require.NoError(t, err)
	require.NotNil(t, res.Selection)

	sel := res.Selection
	assert.Equal(t, 1, sel.Rank)
	assert.Equal(t, series.Period{Year: 2002, Month: time.January}, sel.Start)
	assert.Equal(t, 2002, sel.Year)
	assert.InDelta(t, 1.0, sel.Correlation, 1e-12)
	assert.Equal(t, 0, sel.AboveMax)
	assert.Equal(t, 0, sel.BelowMin)
	assert.Empty(t, res.Rejections)
	require.Len(t, sel.Correlations, 2)
	require.Len(t, sel.Ratios, 2)
	for j := range sel.Ratios {
		assert.InDelta(t, 1.0, sel.Ratios[j], 1e-12)
	}
}

func TestFitRankZeroIsReferenceWindow(t *testing.T) {
	res, err := Fit(scenarioSeries(t), Params{Station: 10})
	require.NoError(t, err)
	require.NotEmpty(t, res.Ranking)

	// Even with an exact duplicate of the reference window in history, the
	// reference window itself stays at rank 0 and is never selected.
	assert.Equal(t, series.Period{Year: 2002, Month: time.December}, res.Ranking[0].End)
	assert.InDelta(t, 1.0, res.Ranking[0].Correlation, 1e-12)
	assert.NotEqual(t, res.Ranking[0].End.Next(), res.Selection.Start)
}

func TestFitRankingIsDescending(t *testing.T) {
	res, err := Fit(scenarioSeries(t), Params{Station: 10})
	require.NoError(t, err)

	for i := 2; i < len(res.Ranking); i++ {
		assert.GreaterOrEqual(t, res.Ranking[i-1].Correlation, res.Ranking[i].Correlation)
	}
}

func TestFitSkipsUsedYear(t *testing.T) {
	s := scenarioSeries(t)
	res, err := Fit(s, Params{Station: 10, ExcludedYears: map[int]bool{2002: true}})
	require.NoError(t, err)

	require.Len(t, res.Rejections, 1)
	assert.Equal(t, 2002, res.Rejections[0].Year)
	assert.Equal(t, YearAlreadyUsed, res.Rejections[0].Reason)
	assert.InDelta(t, 1.0, res.Rejections[0].Correlation, 1e-12)

	sel := res.Selection
	require.NotNil(t, sel)
	assert.Equal(t, 2, sel.Rank)
	assert.Equal(t, 2001, sel.Year)
	assert.Equal(t, series.Period{Year: 2001, Month: time.January}, sel.Start)
}

func TestFitExhaustionIsExplicit(t *testing.T) {
	s := scenarioSeries(t)
	res, err := Fit(s, Params{
		Station:       10,
		ExcludedYears: map[int]bool{2001: true, 2002: true},
	})
	require.ErrorIs(t, err, ErrNoAcceptableAnalog)
	require.NotNil(t, res)
	assert.Nil(t, res.Selection)

	// Every examined candidate leaves a rejection record.
	require.Len(t, res.Rejections, 2)
	for _, rej := range res.Rejections {
		assert.Equal(t, YearAlreadyUsed, rej.Reason)
	}
}

func TestFitRejectsOnAmplitude(t *testing.T) {
	// Distort year one so its January value implies a ratio far above the
	// historical maximum when year two's candidacy is tested.
	col1 := append([]float64(nil), patternA1...)
	col1 = append(col1, patternB1...)
	col1 = append(col1, patternB1...)
	col2 := append([]float64(nil), patternA2...)
	col2 = append(col2, patternB2...)
	col2 = append(col2, patternB2...)
	col1[12] = 1000 // January 2001 spikes
	col2[12] = 1000
	s := mustSeries(t, series.Period{Year: 2000, Month: time.January}, []int{10, 20}, [][]float64{col1, col2})

	res, err := Fit(s, Params{Station: 10, ExcludedYears: map[int]bool{2002: true}})
	require.ErrorIs(t, err, ErrNoAcceptableAnalog)

	reasons := map[RejectionReason]int{}
	for _, rej := range res.Rejections {
		reasons[rej.Reason]++
	}
	assert.Equal(t, 1, reasons[YearAlreadyUsed], "year two rejected as used")
	assert.Equal(t, 1, reasons[AmplitudeAboveMax], "spiked January rejected on amplitude")
}

func TestFitAmplitudeToleranceAdmitsViolations(t *testing.T) {
	col1 := append([]float64(nil), patternA1...)
	col1 = append(col1, patternB1...)
	col1 = append(col1, patternB1...)
	col2 := append([]float64(nil), patternA2...)
	col2 = append(col2, patternB2...)
	col2 = append(col2, patternB2...)
	col1[12] = 1000
	col2[12] = 1000
	s := mustSeries(t, series.Period{Year: 2000, Month: time.January}, []int{10, 20}, [][]float64{col1, col2})

	res, err := Fit(s, Params{
		Station:       10,
		MaxAboveMax:   2,
		ExcludedYears: map[int]bool{2002: true},
	})
	require.NoError(t, err)
	sel := res.Selection
	require.NotNil(t, sel)
	assert.Equal(t, 2001, sel.Year)
	assert.Equal(t, 2, sel.AboveMax)
	assert.LessOrEqual(t, sel.AboveMax, 2)
	assert.LessOrEqual(t, sel.BelowMin, 0)
}

func TestFitUnknownStation(t *testing.T) {
	_, err := Fit(scenarioSeries(t), Params{Station: 999})
	assert.Error(t, err)
}
