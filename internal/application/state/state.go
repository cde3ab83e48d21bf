package state

import (
	"maps"
	"sync"
	"time"

	"mergington/internal/domain/activity"
	"mergington/internal/domain/banner"
	"mergington/internal/domain/criteria"
	"mergington/internal/domain/session"
)

// Default timer delays, applied when the corresponding option is zero.
const (
	DefaultBannerAutoHide = 5 * time.Second
	DefaultPanelAutoClose = 2500 * time.Millisecond
)

// Snapshot is a consistent read of the client state. The catalog map is a
// copy; readers must treat the activity records as immutable.
type Snapshot struct {
	Catalog        activity.Catalog
	FetchedAt      time.Time
	Loaded         bool // at least one catalog is present (fetch or disk snapshot)
	Stale          bool // the catalog may not reflect the server
	Session        session.Session
	Criteria       criteria.Criteria
	Banner         banner.Banner
	SignupOpen     bool
	SignupActivity string
}

// Store owns the client's shared mutable state: the last-fetched catalog,
// the session, the filter criteria and the transient surface state. All
// writers go through its mutators; a catalog replacement is atomic, so a
// reader never observes a partially written catalog. Overlapping refreshes
// resolve last-write-wins.
type Store struct {
	mu             sync.RWMutex
	catalog        activity.Catalog
	fetchedAt      time.Time
	loaded         bool
	stale          bool
	session        session.Session
	criteria       criteria.Criteria
	banner         banner.Banner
	signupOpen     bool
	signupActivity string

	subscribers []func()

	bannerTimer    *time.Timer
	panelTimer     *time.Timer
	bannerAutoHide time.Duration
	panelAutoClose time.Duration
}

// New creates a state store. Zero durations select the defaults.
func New(bannerAutoHide, panelAutoClose time.Duration) *Store {
	if bannerAutoHide <= 0 {
		bannerAutoHide = DefaultBannerAutoHide
	}
	if panelAutoClose <= 0 {
		panelAutoClose = DefaultPanelAutoClose
	}
	return &Store{
		catalog:        activity.Catalog{},
		criteria:       criteria.Default(),
		bannerAutoHide: bannerAutoHide,
		panelAutoClose: panelAutoClose,
	}
}

// Subscribe registers a callback invoked after every state transition.
// Callbacks run outside the store's lock and may call Snapshot.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Snapshot returns a consistent copy of the current state.
// INVARIANT: The returned catalog never reflects a partial replacement
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Catalog:        maps.Clone(s.catalog),
		FetchedAt:      s.fetchedAt,
		Loaded:         s.loaded,
		Stale:          s.stale,
		Session:        s.session,
		Criteria:       s.criteria,
		Banner:         s.banner,
		SignupOpen:     s.signupOpen,
		SignupActivity: s.signupActivity,
	}
}

// ReplaceCatalog swaps the whole catalog after a successful fetch.
// PRE: c is a complete catalog
// POST: Catalog is replaced atomically, stale flag cleared
func (s *Store) ReplaceCatalog(c activity.Catalog, fetchedAt time.Time) {
	s.mu.Lock()
	s.catalog = maps.Clone(c)
	s.fetchedAt = fetchedAt
	s.loaded = true
	s.stale = false
	s.mu.Unlock()
	s.notify()
}

// LoadSnapshot installs a catalog restored from disk at startup. It is
// shown as stale until the first successful refresh.
// PRE: c was previously persisted by the snapshot store
// POST: Catalog is present and marked stale
func (s *Store) LoadSnapshot(c activity.Catalog, fetchedAt time.Time) {
	s.mu.Lock()
	s.catalog = maps.Clone(c)
	s.fetchedAt = fetchedAt
	s.loaded = true
	s.stale = true
	s.mu.Unlock()
	s.notify()
}

// MarkStale records a failed refresh. The previous catalog is retained.
// PRE: none
// POST: Stale flag set, catalog unchanged
func (s *Store) MarkStale() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
	s.notify()
}

// SetSession replaces the in-memory session.
// POST: Dependent affordances re-derive on the next notification
func (s *Store) SetSession(sess session.Session) {
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	s.notify()
}

// SetCriteria replaces the filter criteria, normalized.
func (s *Store) SetCriteria(c criteria.Criteria) {
	s.mu.Lock()
	s.criteria = c.Normalize()
	s.mu.Unlock()
	s.notify()
}

// ShowBanner displays a banner and schedules its auto-hide. A banner shown
// while a previous hide timer is pending cancels that timer, so a rapid
// second action cannot hide the newer banner early.
// POST: Banner visible, exactly one hide timer pending
func (s *Store) ShowBanner(b banner.Banner) {
	s.mu.Lock()
	if s.bannerTimer != nil {
		s.bannerTimer.Stop()
	}
	s.banner = b
	s.bannerTimer = time.AfterFunc(s.bannerAutoHide, s.HideBanner)
	s.mu.Unlock()
	s.notify()
}

// HideBanner hides the current banner.
func (s *Store) HideBanner() {
	s.mu.Lock()
	if s.bannerTimer != nil {
		s.bannerTimer.Stop()
		s.bannerTimer = nil
	}
	s.banner.Visible = false
	s.mu.Unlock()
	s.notify()
}

// OpenSignup opens the registration surface for an activity. Any pending
// auto-close timer is cancelled.
// PRE: name is non-empty
func (s *Store) OpenSignup(name string) {
	s.mu.Lock()
	if s.panelTimer != nil {
		s.panelTimer.Stop()
		s.panelTimer = nil
	}
	s.signupOpen = true
	s.signupActivity = name
	s.mu.Unlock()
	s.notify()
}

// CloseSignup closes the registration surface immediately.
func (s *Store) CloseSignup() {
	s.mu.Lock()
	if s.panelTimer != nil {
		s.panelTimer.Stop()
		s.panelTimer = nil
	}
	s.signupOpen = false
	s.signupActivity = ""
	s.mu.Unlock()
	s.notify()
}

// ScheduleSignupClose arms the registration surface auto-close timer,
// cancelling any previous one.
// POST: Exactly one close timer pending
func (s *Store) ScheduleSignupClose() {
	s.mu.Lock()
	if s.panelTimer != nil {
		s.panelTimer.Stop()
	}
	s.panelTimer = time.AfterFunc(s.panelAutoClose, s.CloseSignup)
	s.mu.Unlock()
}

// Stop cancels pending timers. Intended for shutdown and tests.
func (s *Store) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bannerTimer != nil {
		s.bannerTimer.Stop()
		s.bannerTimer = nil
	}
	if s.panelTimer != nil {
		s.panelTimer.Stop()
		s.panelTimer = nil
	}
}

// notify invokes subscribers outside the lock.
func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}
