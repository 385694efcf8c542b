package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight-backend/analysis"
	"finsight-backend/models"
)

func testClauses() []models.Clause {
	types := []string{"Liability Clause", "Confidentiality Clause", "Payment Terms"}
	clauses := make([]models.Clause, 0, len(types))
	for _, t := range types {
		clauses = append(clauses, models.Clause{
			Type:       t,
			Text:       "The parties agree on " + t + ".",
			Importance: models.ImportanceForType(t),
		})
	}
	return clauses
}

func testSpans(n int) []analysis.ClauseSpan {
	spans := make([]analysis.ClauseSpan, 0, n)
	for i := 0; i < n; i++ {
		spans = append(spans, analysis.ClauseSpan{ClauseIndex: i, StartOffset: i * 40, EndOffset: i*40 + 30})
	}
	return spans
}

func TestViewer_AutoPlayStopsAtLastClause(t *testing.T) {
	v := NewViewer(testClauses(), testSpans(3), nil, WithPlayInterval(10*time.Millisecond))
	defer v.Close()

	v.SetActive(0)
	v.Play()

	require.Eventually(t, func() bool {
		return !v.State().Playing
	}, time.Second, 5*time.Millisecond)

	state := v.State()
	assert.Equal(t, 2, state.ActiveIndex)
	assert.False(t, state.Playing)

	// No wrap-around after the terminal stop.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 2, v.State().ActiveIndex)
}

func TestViewer_PlayIsIdempotent(t *testing.T) {
	v := NewViewer(testClauses(), testSpans(3), nil, WithPlayInterval(20*time.Millisecond))
	defer v.Close()

	v.SetActive(0)
	v.Play()
	v.Play()
	v.Play()

	require.Eventually(t, func() bool {
		return !v.State().Playing
	}, time.Second, 5*time.Millisecond)

	// A single timer advanced the index twice; stacked timers would have
	// raced past the end or stopped early.
	assert.Equal(t, 2, v.State().ActiveIndex)
}

func TestViewer_PauseRetainsIndex(t *testing.T) {
	v := NewViewer(testClauses(), testSpans(3), nil, WithPlayInterval(10*time.Millisecond))
	defer v.Close()

	v.SetActive(0)
	v.Play()

	require.Eventually(t, func() bool {
		return v.State().ActiveIndex >= 1
	}, time.Second, time.Millisecond)

	v.Pause()
	got := v.State().ActiveIndex
	assert.False(t, v.State().Playing)

	// The cancelled timer must not fire again.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, got, v.State().ActiveIndex)
}

func TestViewer_PlayWithoutSelectionStartsAtFirstClause(t *testing.T) {
	v := NewViewer(testClauses(), testSpans(3), nil, WithPlayInterval(5*time.Millisecond))
	defer v.Close()

	v.Play()

	require.Eventually(t, func() bool {
		return !v.State().Playing
	}, time.Second, time.Millisecond)
	assert.Equal(t, 2, v.State().ActiveIndex)
}

func TestViewer_FilterDoesNotResetSelection(t *testing.T) {
	v := NewViewer(testClauses(), testSpans(3), nil)
	defer v.Close()

	v.SetActive(2)
	v.SetFilter("Liability Clause")

	state := v.State()
	assert.Equal(t, 2, state.ActiveIndex)
	assert.Equal(t, []int{0}, state.Filtered)
	assert.False(t, state.NextEnabled)

	// Un-filtering restores the selection without any further input.
	v.SetFilter(FilterAll)
	state = v.State()
	assert.Equal(t, 2, state.ActiveIndex)
	assert.Equal(t, []int{0, 1, 2}, state.Filtered)
}

func TestViewer_FilteredByTypeAndSearch(t *testing.T) {
	v := NewViewer(testClauses(), testSpans(3), nil)
	defer v.Close()

	v.SetFilter("Payment Terms")
	assert.Equal(t, []int{2}, v.Filtered())

	v.SetFilter(FilterAll)
	v.SetSearch("confidential")
	assert.Equal(t, []int{1}, v.Filtered())

	v.SetSearch("  ")
	assert.Equal(t, []int{0, 1, 2}, v.Filtered())
}

func TestViewer_SearchMatchesTextCaseInsensitive(t *testing.T) {
	clauses := []models.Clause{
		{Type: "Payment Terms", Text: "Invoices are due NET thirty days."},
		{Type: "Termination Clause", Text: "Either party may terminate with notice."},
	}
	v := NewViewer(clauses, testSpans(2), nil)
	defer v.Close()

	v.SetSearch("net thirty")
	assert.Equal(t, []int{0}, v.Filtered())
}

func TestViewer_EmptyFilterMeansAll(t *testing.T) {
	v := NewViewer(testClauses(), testSpans(3), nil)
	defer v.Close()

	v.SetFilter("")
	state := v.State()
	assert.Equal(t, FilterAll, state.FilterType)
	assert.Len(t, state.Filtered, 3)
}

func TestViewer_NavigationFlags(t *testing.T) {
	v := NewViewer(testClauses(), testSpans(3), nil)
	defer v.Close()

	state := v.State()
	assert.Equal(t, -1, state.ActiveIndex)
	assert.False(t, state.PrevEnabled)
	assert.True(t, state.NextEnabled)

	v.SetActive(1)
	state = v.State()
	assert.True(t, state.PrevEnabled)
	assert.True(t, state.NextEnabled)

	v.SetActive(2)
	state = v.State()
	assert.True(t, state.PrevEnabled)
	assert.False(t, state.NextEnabled)
}

func TestViewer_PlayOnEmptyFilteredListStopsImmediately(t *testing.T) {
	v := NewViewer(testClauses(), testSpans(3), nil, WithPlayInterval(5*time.Millisecond))
	defer v.Close()

	v.SetFilter("Nonexistent Clause")
	v.Play()

	require.Eventually(t, func() bool {
		return !v.State().Playing
	}, time.Second, time.Millisecond)
	assert.Equal(t, -1, v.State().ActiveIndex)
}
