package tracker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/logging"
	"github.com/manav03panchal/codetrack/internal/model"
)

// ErrStaleRefresh reports a refresh whose fetched data was discarded because
// a local change committed, or a newer fetch was applied, while it was in
// flight.
var ErrStaleRefresh = errors.New("refresh discarded: newer state applied during fetch")

// minRefPrefix is the shortest id fragment accepted as a reference.
const minRefPrefix = 4

// Store is the aggregate view of one user's data. It is safe for concurrent
// use; mutations hold the lock across the backend call so they apply in the
// order the backend saw them.
type Store struct {
	backend Backend
	userID  string
	now     func() time.Time
	newID   func() string

	mu         sync.RWMutex
	loaded     bool
	revision   uint64
	fetchSeq   uint64 // last ticket handed to a fetch
	appliedSeq uint64 // ticket of the snapshot currently applied
	courses    map[string]*model.Container
	projects   map[string]*model.Container
	activities map[string]*model.ActivityRecord

	cron *cron.Cron
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID v7 generator.
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates an empty store for userID.
func NewStore(backend Backend, userID string, opts ...StoreOption) *Store {
	s := &Store{
		backend:    backend,
		userID:     userID,
		now:        time.Now,
		newID:      NewID,
		courses:    make(map[string]*model.Container),
		projects:   make(map[string]*model.Container),
		activities: make(map[string]*model.ActivityRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a time-ordered UUID v7 string.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// UserID returns the user the store belongs to.
func (s *Store) UserID() string {
	return s.userID
}

// Loaded reports whether a load has been applied.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Revision returns the number of local changes committed so far.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *Store) logger(ctx context.Context) *zerolog.Logger {
	l := logging.FromContext(ctx).With().
		Str(logging.KeyComponent, "tracker").
		Str(logging.KeyUser, s.userID).
		Logger()
	return &l
}

// Init provisions the user when the backend supports it and loads the data.
// Without a configured user both steps are deferred.
func (s *Store) Init(ctx context.Context, displayName string) error {
	if s.userID == "" {
		s.logger(ctx).Debug().Msg("no user configured, deferring load")
		return nil
	}

	if p, ok := s.backend.(Provisioner); ok {
		created, err := p.Provision(ctx, s.userID, displayName)
		if err != nil {
			s.logger(ctx).Error().Err(err).Msg("provisioning failed")
			return errors.NewSystemErrorWithOp("provision", "failed to set up user", err)
		}
		if created {
			s.logger(ctx).Info().Msg("provisioned new user")
		}
	}

	return s.Load(ctx)
}

type snapshot struct {
	courses    []*model.Container
	projects   []*model.Container
	activities []*model.ActivityRecord
}

// beginFetch hands out a ticket ordering this fetch against every other one,
// along with the revision it started from.
func (s *Store) beginFetch() (ticket, rev uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchSeq++
	return s.fetchSeq, s.revision
}

func (s *Store) fetch(ctx context.Context) (*snapshot, error) {
	courses, err := s.backend.FetchCourses(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("fetch courses: %w", err)
	}
	projects, err := s.backend.FetchProjects(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	activities, err := s.backend.FetchActivities(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}
	return &snapshot{courses: courses, projects: projects, activities: activities}, nil
}

// Load replaces the store contents with the backend's, whatever local changes
// happened before. It is skipped only when a fetch that started later has
// already been applied.
func (s *Store) Load(ctx context.Context) error {
	if s.userID == "" {
		s.logger(ctx).Debug().Msg("no user configured, deferring load")
		return nil
	}

	ticket, _ := s.beginFetch()
	snap, err := s.fetch(ctx)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("load failed")
		return errors.NewSystemErrorWithOp("load", "failed to load activities", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket < s.appliedSeq {
		s.logger(ctx).Debug().Msg("load superseded by a newer fetch")
		return nil
	}
	s.apply(ctx, snap, ticket)
	return nil
}

// Refresh re-fetches from the backend. The result is dropped when a local
// mutation committed during the fetch or a newer fetch was applied first;
// applied reports whether it was used.
func (s *Store) Refresh(ctx context.Context) (applied bool, err error) {
	if s.userID == "" {
		return false, nil
	}

	ticket, rev := s.beginFetch()
	snap, err := s.fetch(ctx)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("refresh failed")
		return false, errors.NewSystemErrorWithOp("refresh", "failed to refresh activities", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revision != rev || ticket < s.appliedSeq {
		s.logger(ctx).Debug().
			Err(ErrStaleRefresh).
			Uint64(logging.KeyRevision, s.revision).
			Msg("refresh skipped")
		return false, nil
	}
	s.apply(ctx, snap, ticket)
	return true, nil
}

// apply must be called with s.mu held.
func (s *Store) apply(ctx context.Context, snap *snapshot, ticket uint64) {
	courses := make(map[string]*model.Container, len(snap.courses))
	for _, c := range snap.courses {
		courses[c.ID] = c
	}
	projects := make(map[string]*model.Container, len(snap.projects))
	for _, p := range snap.projects {
		projects[p.ID] = p
	}

	activities := make(map[string]*model.ActivityRecord, len(snap.activities))
	for _, rec := range snap.activities {
		parent := lookupParent(courses, projects, rec.ParentKind, rec.ParentID)
		if parent == nil {
			s.logger(ctx).Warn().
				Str(logging.KeyActivity, rec.ID).
				Str("parent_kind", string(rec.ParentKind)).
				Str("parent_id", rec.ParentID).
				Msg("dropping activity with unknown parent")
			continue
		}
		rec.ParentTitle = parent.Title
		rec.ParentColor = parent.Color
		if prev, ok := s.activities[rec.ID]; ok {
			rec.Revision = prev.Revision
		}
		model.SortSessions(rec.Sessions)
		activities[rec.ID] = rec
	}

	s.courses = courses
	s.projects = projects
	s.activities = activities
	s.appliedSeq = ticket
	s.loaded = true

	s.logger(ctx).Debug().
		Int("courses", len(courses)).
		Int("projects", len(projects)).
		Int("activities", len(activities)).
		Msg("store loaded")
}

func lookupParent(courses, projects map[string]*model.Container, kind model.ParentKind, id string) *model.Container {
	switch kind {
	case model.KindCourse:
		return courses[id]
	case model.KindProject:
		return projects[id]
	default:
		return nil
	}
}

// commit bumps the revision and stamps rec with it. Callers hold s.mu.
func (s *Store) commit(rec *model.ActivityRecord) uint64 {
	s.revision++
	if rec != nil {
		rec.Revision = s.revision
	}
	return s.revision
}

// StartAutoRefresh schedules Refresh every interval until Stop.
func (s *Store) StartAutoRefresh(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), s.refreshJob)
	if err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}
	c.Start()
	s.cron = c
	return nil
}

func (s *Store) refreshJob() {
	ctx := logging.NewRequestContext()
	applied, err := s.Refresh(ctx)
	if err != nil {
		return
	}
	s.logger(ctx).Debug().Bool("applied", applied).Msg("scheduled refresh")
}

// Stop cancels the refresh schedule and waits for a running refresh.
func (s *Store) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		ctx := c.Stop()
		<-ctx.Done()
	}
}

// =============================================================================
// Queries
// =============================================================================

// Courses returns the user's courses sorted by title.
func (s *Store) Courses() []*model.Container {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedContainers(s.courses)
}

// Projects returns the user's projects sorted by title.
func (s *Store) Projects() []*model.Container {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedContainers(s.projects)
}

// Containers returns the courses or projects.
func (s *Store) Containers(kind model.ParentKind) []*model.Container {
	if kind == model.KindProject {
		return s.Projects()
	}
	return s.Courses()
}

func sortedContainers(m map[string]*model.Container) []*model.Container {
	out := make([]*model.Container, 0, len(m))
	for _, c := range m {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Title), strings.ToLower(out[j].Title)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Activities returns copies of every activity, courses first, then by
// parent title and title.
func (s *Store) Activities() []*model.ActivityRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.ActivityRecord, 0, len(s.activities))
	for _, rec := range s.activities {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ParentKind != b.ParentKind {
			return a.ParentKind == model.KindCourse
		}
		if pa, pb := strings.ToLower(a.ParentTitle), strings.ToLower(b.ParentTitle); pa != pb {
			return pa < pb
		}
		if ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title); ta != tb {
			return ta < tb
		}
		return a.ID < b.ID
	})
	return out
}

// Activity returns a copy of the activity with the given id.
func (s *Store) Activity(id string) (*model.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.activities[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrActivityNotFound, id)
	}
	return rec.Clone(), nil
}

// FindActivity resolves a user-typed reference: the full id, a title
// (case-insensitive), or a unique id prefix or short id.
func (s *Store) FindActivity(ref string) (*model.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make([]reference, 0, len(s.activities))
	for id, rec := range s.activities {
		refs = append(refs, reference{id: id, title: rec.Title})
	}

	id, err := resolve(refs, ref, "activity", errors.ErrActivityNotFound)
	if err != nil {
		return nil, err
	}
	return s.activities[id].Clone(), nil
}

// Container returns a copy of a course or project by id.
func (s *Store) Container(kind model.ParentKind, id string) (*model.Container, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.containersOf(kind)[id]
	if c == nil {
		return nil, fmt.Errorf("%w: %s", notFoundFor(kind), id)
	}
	cp := *c
	return &cp, nil
}

// FindContainer resolves a course or project reference the way FindActivity does.
func (s *Store) FindContainer(kind model.ParentKind, ref string) (*model.Container, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.containersOf(kind)
	refs := make([]reference, 0, len(m))
	for id, c := range m {
		refs = append(refs, reference{id: id, title: c.Title})
	}

	id, err := resolve(refs, ref, string(kind), notFoundFor(kind))
	if err != nil {
		return nil, err
	}
	cp := *m[id]
	return &cp, nil
}

func (s *Store) containersOf(kind model.ParentKind) map[string]*model.Container {
	if kind == model.KindProject {
		return s.projects
	}
	return s.courses
}

func notFoundFor(kind model.ParentKind) error {
	if kind == model.KindProject {
		return errors.ErrProjectNotFound
	}
	return errors.ErrCourseNotFound
}

type reference struct {
	id    string
	title string
}

func resolve(refs []reference, ref, noun string, notFound error) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.NewUserErrorWithField(noun, ref,
			fmt.Sprintf("No %s given", noun),
			fmt.Sprintf("Pass a %s title or id", noun))
	}

	for _, r := range refs {
		if r.id == ref {
			return r.id, nil
		}
	}

	var byTitle, byID []string
	for _, r := range refs {
		if strings.EqualFold(r.title, ref) {
			byTitle = append(byTitle, r.id)
		}
		if len(ref) >= minRefPrefix && (strings.HasPrefix(r.id, ref) || strings.HasSuffix(r.id, ref)) {
			byID = append(byID, r.id)
		}
	}

	for _, matches := range [][]string{byTitle, byID} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return "", errors.NewUserErrorWithField(noun, ref,
				fmt.Sprintf("%q matches %d %ss", ref, len(matches), noun),
				fmt.Sprintf("Use the id shown by 'codetrack %s list'", noun))
		}
	}

	return "", fmt.Errorf("%w: %q", notFound, ref)
}
