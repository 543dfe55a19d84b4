package engine

import (
	"time"
	"unicode/utf8"

	"github.com/Paintersrp/rip/internal/rank"
	"github.com/Paintersrp/rip/internal/selection"
	"github.com/Paintersrp/rip/internal/snapshot"
)

const defaultPageSize = 15

// SessionConfig seeds a Session.
type SessionConfig struct {
	Query     string
	Sort      rank.SortField
	Normalize snapshot.Options
	// Live enables the confirmation prompt before dispatch, since rows may
	// shift under the user between refreshes.
	Live     bool
	PageSize int
}

// Row is one rendered line of the view model.
type Row struct {
	Entity   snapshot.Entity
	Score    int
	Selected bool
}

// ViewModel is an immutable description of what the terminal should show.
type ViewModel struct {
	Rows       []Row
	Cursor     int
	Query      string
	Sort       rank.SortField
	Selected   int
	Total      int
	Live       bool
	Ports      bool
	Confirming bool
	Refreshed  time.Time
	// Stale is set when the last refresh failed and the rows are from an
	// earlier snapshot.
	Stale bool
}

// Session is the interaction state: query, sort, ranked view and selection.
// It is owned by a single goroutine and is not safe for concurrent use.
type Session struct {
	cfg SessionConfig

	query    string
	sort     rank.SortField
	entities []snapshot.Entity
	view     rank.View
	tracker  *selection.Tracker

	status    Status
	confirmed []int32
	refreshed time.Time
	stale     bool
}

// NewSession constructs an empty session.
func NewSession(cfg SessionConfig) *Session {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	s := &Session{
		cfg:     cfg,
		query:   cfg.Query,
		sort:    cfg.Sort,
		tracker: selection.New(),
		status:  StatusRunning,
	}
	s.view = rank.Rank(nil, s.query, s.sort)
	return s
}

// Status returns the session state.
func (s *Session) Status() Status {
	return s.status
}

// Done reports whether the session finished.
func (s *Session) Done() bool {
	return s.status.Done()
}

// ApplySnapshot replaces the entity set with a freshly normalized snapshot,
// re-ranks it and reconciles the selection. Snapshots arriving after the
// session finished are discarded.
func (s *Session) ApplySnapshot(raw snapshot.Raw) {
	if s.Done() {
		return
	}
	s.entities = snapshot.Normalize(raw, s.cfg.Normalize)
	s.refreshed = raw.Taken
	if s.refreshed.IsZero() {
		s.refreshed = time.Now()
	}
	s.stale = false
	s.rerank()
}

// SnapshotFailed keeps the current rows and flags them as stale.
func (s *Session) SnapshotFailed() {
	if s.Done() {
		return
	}
	s.stale = true
}

// HandleKey applies one key press.
func (s *Session) HandleKey(k Key) {
	if s.Done() {
		return
	}
	if s.status == StatusConfirming {
		s.handleConfirmKey(k)
		return
	}

	switch k.Kind {
	case KeyRune:
		if k.Rune == ' ' {
			s.tracker.ToggleAt(s.view, s.tracker.Cursor())
			return
		}
		s.setQuery(s.query + string(k.Rune))
	case KeyBackspace:
		if s.query == "" {
			return
		}
		_, size := utf8.DecodeLastRuneInString(s.query)
		s.setQuery(s.query[:len(s.query)-size])
	case KeyClearQuery:
		s.setQuery("")
	case KeyToggle:
		s.tracker.ToggleAt(s.view, s.tracker.Cursor())
	case KeyUp:
		s.tracker.Move(s.view, -1)
	case KeyDown:
		s.tracker.Move(s.view, 1)
	case KeyPageUp:
		s.tracker.Move(s.view, -s.cfg.PageSize)
	case KeyPageDown:
		s.tracker.Move(s.view, s.cfg.PageSize)
	case KeyHome:
		s.tracker.Home(s.view)
	case KeyEnd:
		s.tracker.End(s.view)
	case KeyCycleSort:
		s.sort = s.sort.Next()
		s.rerank()
	case KeyEnter:
		if s.cfg.Live && s.tracker.Len() > 0 {
			s.status = StatusConfirming
			return
		}
		s.confirm()
	case KeyEscape, KeyInterrupt:
		s.Cancel()
	}
}

func (s *Session) handleConfirmKey(k Key) {
	switch k.Kind {
	case KeyEnter:
		s.confirm()
	case KeyEscape:
		s.status = StatusRunning
	case KeyInterrupt:
		s.Cancel()
	}
}

// Cancel abandons the session without dispatching.
func (s *Session) Cancel() {
	if s.Done() {
		return
	}
	s.tracker.Cancel()
	s.confirmed = nil
	s.status = StatusCancelled
}

func (s *Session) confirm() {
	s.confirmed = s.tracker.Confirm()
	s.tracker.Clear()
	s.status = StatusConfirmed
}

// Result describes the finished session.
func (s *Session) Result() Result {
	res := Result{Status: s.status}
	if s.status != StatusConfirmed {
		return res
	}
	res.PIDs = append([]int32(nil), s.confirmed...)
	res.Entities = make(map[int32]snapshot.Entity, len(res.PIDs))
	for _, pid := range res.PIDs {
		if e, ok := s.view.Lookup(pid); ok {
			res.Entities[pid] = e
		}
	}
	return res
}

// View builds the view model for the renderer.
func (s *Session) View() ViewModel {
	rows := make([]Row, 0, s.view.Len())
	for _, item := range s.view.Items {
		rows = append(rows, Row{
			Entity:   item.Entity,
			Score:    item.Score,
			Selected: s.tracker.Selected(item.Entity.PID),
		})
	}
	return ViewModel{
		Rows:       rows,
		Cursor:     s.tracker.Cursor(),
		Query:      s.query,
		Sort:       s.sort,
		Selected:   s.tracker.Len(),
		Total:      s.view.Total(),
		Live:       s.cfg.Live,
		Ports:      s.cfg.Normalize.PortsEnabled(),
		Confirming: s.status == StatusConfirming,
		Refreshed:  s.refreshed,
		Stale:      s.stale,
	}
}

func (s *Session) setQuery(q string) {
	if q == s.query {
		return
	}
	s.query = q
	s.rerank()
	s.tracker.Home(s.view)
}

// rerank recomputes the view from scratch; views are never patched.
func (s *Session) rerank() {
	s.view = rank.Rank(s.entities, s.query, s.sort)
	s.tracker.Reconcile(s.view)
}
