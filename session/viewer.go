package session

import (
	"strings"
	"sync"
	"time"

	"finsight-backend/analysis"
	"finsight-backend/models"
)

// FilterAll disables type filtering.
const FilterAll = "all"

// defaultPlayInterval is the auto-play advance cadence.
const defaultPlayInterval = 2500 * time.Millisecond

// Viewer holds the interactive state of the clause viewer for one session:
// the active clause, auto-play, and the search/filter predicates. The clause
// list and the span list share one ordering (the normalized clause order), so
// an index always means the same clause in the text view and the sidebar.
type Viewer struct {
	mu sync.Mutex

	clauses  []models.Clause
	spans    []analysis.ClauseSpan
	residual []int

	activeIndex int // position in the filtered list, -1 = none
	playing     bool
	searchTerm  string
	filterType  string

	playInterval time.Duration
	stopPlay     chan struct{}
}

// ViewerOption is a functional option for Viewer
type ViewerOption func(*Viewer)

// WithPlayInterval overrides the auto-play tick interval
func WithPlayInterval(d time.Duration) ViewerOption {
	return func(v *Viewer) {
		v.playInterval = d
	}
}

// NewViewer creates a viewer over the normalized clause list and its resolved
// spans.
func NewViewer(clauses []models.Clause, spans []analysis.ClauseSpan, residual []int, opts ...ViewerOption) *Viewer {
	v := &Viewer{
		clauses:      clauses,
		spans:        spans,
		residual:     residual,
		activeIndex:  -1,
		filterType:   FilterAll,
		playInterval: defaultPlayInterval,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetActive selects a clause by its position in the filtered list. -1 clears
// the selection.
func (v *Viewer) SetActive(index int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if index < -1 {
		index = -1
	}
	v.activeIndex = index
}

// Play starts auto-advancing the active clause through the currently filtered
// list. Calling Play while already playing is a no-op: there is never more
// than one timer. Playback stops by itself after the last clause.
func (v *Viewer) Play() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playing {
		return
	}
	v.playing = true
	stop := make(chan struct{})
	v.stopPlay = stop
	go v.runPlayback(stop)
}

// Pause cancels auto-play. The active index is retained.
func (v *Viewer) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopLocked()
}

// Close releases the viewer's timer. Must be called when the session goes
// away, otherwise a playing timer keeps mutating orphaned state.
func (v *Viewer) Close() {
	v.Pause()
}

func (v *Viewer) stopLocked() {
	v.playing = false
	if v.stopPlay != nil {
		close(v.stopPlay)
		v.stopPlay = nil
	}
}

func (v *Viewer) runPlayback(stop chan struct{}) {
	ticker := time.NewTicker(v.playInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !v.advance() {
				return
			}
		}
	}
}

// advance moves the active index forward one step against the filtered list.
// Reaching past the last element stops playback without wrapping around.
func (v *Viewer) advance() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.playing {
		return false
	}
	if v.activeIndex+1 >= len(v.filteredLocked()) {
		v.playing = false
		v.stopPlay = nil
		return false
	}
	v.activeIndex++
	return true
}

// SetSearch updates the search term. The active index is left alone even if
// it now points past the shrunken list: un-filtering restores the selection.
func (v *Viewer) SetSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.searchTerm = term
}

// SetFilter updates the type filter. FilterAll bypasses filtering.
func (v *Viewer) SetFilter(clauseType string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if clauseType == "" {
		clauseType = FilterAll
	}
	v.filterType = clauseType
}

// Filtered returns the clause indices passing the current search and filter,
// in clause order.
func (v *Viewer) Filtered() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filteredLocked()
}

func (v *Viewer) filteredLocked() []int {
	indices := make([]int, 0, len(v.clauses))
	term := strings.ToLower(strings.TrimSpace(v.searchTerm))
	for i, c := range v.clauses {
		if v.filterType != FilterAll && c.Type != v.filterType {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(c.Text), term) &&
			!strings.Contains(strings.ToLower(c.Type), term) {
			continue
		}
		indices = append(indices, i)
	}
	return indices
}

// ViewerState is a snapshot of the viewer for rendering.
type ViewerState struct {
	ActiveIndex int                   `json:"active_index"`
	Playing     bool                  `json:"playing"`
	SearchTerm  string                `json:"search_term"`
	FilterType  string                `json:"filter_type"`
	Filtered    []int                 `json:"filtered"`
	Spans       []analysis.ClauseSpan `json:"spans"`
	Residual    []int                 `json:"residual"`
	PrevEnabled bool                  `json:"prev_enabled"`
	NextEnabled bool                  `json:"next_enabled"`
}

// State snapshots the viewer. The navigation flags clamp against the filtered
// list so consumers disable buttons when the retained index is out of bounds.
func (v *Viewer) State() ViewerState {
	v.mu.Lock()
	defer v.mu.Unlock()

	filtered := v.filteredLocked()
	return ViewerState{
		ActiveIndex: v.activeIndex,
		Playing:     v.playing,
		SearchTerm:  v.searchTerm,
		FilterType:  v.filterType,
		Filtered:    filtered,
		Spans:       v.spans,
		Residual:    v.residual,
		PrevEnabled: v.activeIndex > 0 && v.activeIndex <= len(filtered),
		NextEnabled: v.activeIndex+1 < len(filtered),
	}
}
