package vazoes

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrodata/vazex/internal/series"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadBasic(t *testing.T) {
	path := writeFixture(t, "vaz.txt",
		"    6 2000      1      2      3      4      5      6      7      8      9     10     11     12\n"+
			"    6 2001     13     14     15     16     17     18     19     20     21     22     23     24\n"+
			"   74 2000    101    102    103    104    105    106    107    108    109    110    111    112\n"+
			"   74 2001    113    114    115    116    117    118    119    120    121    122    123    124\n")

	s, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 74}, s.Stations())
	assert.Equal(t, series.Period{Year: 2000, Month: time.January}, s.Start())
	assert.Equal(t, series.Period{Year: 2001, Month: time.December}, s.End())
	assert.Equal(t, 24, s.Len())

	col, err := s.StationColumn(6)
	require.NoError(t, err)
	assert.Equal(t, 1.0, col[0])
	assert.Equal(t, 24.0, col[23])
}

func TestReadTrimsUnobservedMonths(t *testing.T) {
	// 2001 observed through May only; trailing zeros are padding.
	path := writeFixture(t, "vaz.txt",
		"    6 2000      1      2      3      4      5      6      7      8      9     10     11     12\n"+
			"    6 2001     13     14     15     16     17      0      0      0      0      0      0      0\n")

	s, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 17, s.Len())
	assert.Equal(t, series.Period{Year: 2001, Month: time.May}, s.End())
}

func TestReadInteriorZeroIsKept(t *testing.T) {
	// A zero followed by observed data is a real reading, not padding.
	path := writeFixture(t, "vaz.txt",
		"    6 2000      1      2      3      4      5      6      7      8      9     10     11     12\n"+
			"    6 2001     13      0     15     16     17      0      0      0      0      0      0      0\n")

	s, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 17, s.Len())
	col, err := s.StationColumn(6)
	require.NoError(t, err)
	assert.Equal(t, 0.0, col[13])
}

func TestReadRejectsMalformedFiles(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"short line", "6 2000 1 2 3\n"},
		{"bad station", "abc 2000 1 2 3 4 5 6 7 8 9 10 11 12\n"},
		{"bad value", "6 2000 1 2 x 4 5 6 7 8 9 10 11 12\n"},
		{"gapped years", "6 2000 1 2 3 4 5 6 7 8 9 10 11 12\n" +
			"6 2002 1 2 3 4 5 6 7 8 9 10 11 12\n"},
		{"duplicate year", "6 2000 1 2 3 4 5 6 7 8 9 10 11 12\n" +
			"6 2000 1 2 3 4 5 6 7 8 9 10 11 12\n"},
		{"mismatched coverage", "6 2000 1 2 3 4 5 6 7 8 9 10 11 12\n" +
			"6 2001 1 2 3 4 5 6 7 8 9 10 11 12\n" +
			"74 2000 1 2 3 4 5 6 7 8 9 10 11 12\n"},
		{"empty", "\n\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFixture(t, "vaz.txt", tc.content)
			_, err := Read(path)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	cols := [][]float64{make([]float64, 30), make([]float64, 30)}
	for i := 0; i < 30; i++ {
		cols[0][i] = float64(i + 1)
		cols[1][i] = float64(1000 - i)
	}
	s, err := series.New(series.Period{Year: 1990, Month: time.January}, []int{6, 275}, cols)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, Write(path, s))

	back, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, s.Stations(), back.Stations())
	assert.Equal(t, s.Start(), back.Start())
	require.Equal(t, s.Len(), back.Len())
	for j := range cols {
		assert.Equal(t, s.Column(j), back.Column(j))
	}
}

func TestWriteRejectsMidYearStart(t *testing.T) {
	s, err := series.New(series.Period{Year: 1990, Month: time.March}, []int{6}, [][]float64{{1, 2}})
	require.NoError(t, err)
	err = Write(filepath.Join(t.TempDir(), "out.txt"), s)
	assert.ErrorIs(t, err, ErrFormat)
}
