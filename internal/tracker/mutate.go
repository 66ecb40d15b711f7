package tracker

import (
	"context"
	"fmt"

	"github.com/hay-kot/criterio"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/logging"
	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/validate"
)

// ContainerInput describes a new course or project.
type ContainerInput struct {
	Title       string
	Description string
	Color       string
}

// ContainerPatch is a partial update; nil fields are left unchanged.
type ContainerPatch struct {
	Title       *string
	Description *string
	Color       *string
}

// ActivityInput describes a new activity.
type ActivityInput struct {
	Title       string
	Description string
	ParentKind  model.ParentKind
	ParentID    string
}

// ActivityPatch is a partial update; nil fields are left unchanged. Moving
// an activity needs both ParentKind and ParentID, or ParentID alone to stay
// within the same kind.
type ActivityPatch struct {
	Title       *string
	Description *string
	ParentKind  *model.ParentKind
	ParentID    *string
}

func (s *Store) requireUser() error {
	if s.userID == "" {
		return errors.ErrNoUser
	}
	return nil
}

func validateText(title, description string) criterio.FieldErrorsBuilder {
	var errs criterio.FieldErrorsBuilder
	if err := validate.Title("title", title); err != nil {
		errs = errs.Append("title", err)
	}
	if err := validate.Note(description); err != nil {
		errs = errs.Append("description", err)
	}
	return errs
}

func systemError(op, message string, err error) error {
	return errors.NewSystemErrorWithOp(op, message, err)
}

// =============================================================================
// Courses and projects
// =============================================================================

// CreateContainer creates a course or project.
func (s *Store) CreateContainer(ctx context.Context, kind model.ParentKind, in ContainerInput) (*model.Container, error) {
	if err := s.requireUser(); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, errors.Internal(fmt.Errorf("unknown container kind %q", kind))
	}

	title := validate.SanitizeTitle(in.Title)
	description := validate.SanitizeNote(in.Description)

	errs := validateText(title, description)
	if err := validate.HexColor(in.Color); err != nil {
		errs = errs.Append("color", err)
	}
	if err := errs.ToError(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := model.NewContainer(kind, s.userID, s.newID(), title, description, in.Color, s.now())
	if err := s.backend.CreateContainer(ctx, s.userID, c); err != nil {
		s.logger(ctx).Error().Err(err).Str(logging.KeyContainer, c.ID).Msgf("create %s failed", kind)
		return nil, systemError("create "+string(kind), fmt.Sprintf("failed to save %s", kind), err)
	}

	s.containersOf(kind)[c.ID] = c
	s.commit(nil)

	cp := *c
	return &cp, nil
}

// UpdateContainer applies a partial update to a course or project. Activities
// under it pick up the new title and color.
func (s *Store) UpdateContainer(ctx context.Context, kind model.ParentKind, id string, patch ContainerPatch) (*model.Container, error) {
	if err := s.requireUser(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.containersOf(kind)[id]
	if current == nil {
		return nil, fmt.Errorf("%w: %s", notFoundFor(kind), id)
	}

	next := *current
	if patch.Title != nil {
		next.Title = validate.SanitizeTitle(*patch.Title)
	}
	if patch.Description != nil {
		next.Description = validate.SanitizeNote(*patch.Description)
	}
	if patch.Color != nil {
		next.Color = *patch.Color
	}

	errs := validateText(next.Title, next.Description)
	if err := validate.HexColor(next.Color); err != nil {
		errs = errs.Append("color", err)
	}
	if err := errs.ToError(); err != nil {
		return nil, err
	}

	next.UpdatedAt = s.now()
	if err := s.backend.UpdateContainer(ctx, s.userID, &next); err != nil {
		s.logger(ctx).Error().Err(err).Str(logging.KeyContainer, id).Msgf("update %s failed", kind)
		return nil, systemError("update "+string(kind), fmt.Sprintf("failed to save %s", kind), err)
	}

	s.containersOf(kind)[id] = &next
	s.commit(nil)
	for _, rec := range s.activities {
		if rec.ParentKind == kind && rec.ParentID == id {
			rec.ParentTitle = next.Title
			rec.ParentColor = next.Color
			s.commit(rec)
		}
	}

	cp := next
	return &cp, nil
}

// DeleteContainer removes a course or project with all of its activities.
// It returns the number of activities removed.
func (s *Store) DeleteContainer(ctx context.Context, kind model.ParentKind, id string) (int, error) {
	if err := s.requireUser(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.containersOf(kind)[id] == nil {
		return 0, fmt.Errorf("%w: %s", notFoundFor(kind), id)
	}

	if err := s.backend.DeleteContainer(ctx, s.userID, kind, id); err != nil {
		s.logger(ctx).Error().Err(err).Str(logging.KeyContainer, id).Msgf("delete %s failed", kind)
		return 0, systemError("delete "+string(kind), fmt.Sprintf("failed to delete %s", kind), err)
	}

	delete(s.containersOf(kind), id)
	removed := 0
	for aid, rec := range s.activities {
		if rec.ParentKind == kind && rec.ParentID == id {
			delete(s.activities, aid)
			removed++
		}
	}
	s.commit(nil)

	s.logger(ctx).Debug().Str(logging.KeyContainer, id).Int(logging.KeyCount, removed).Msgf("%s deleted", kind)
	return removed, nil
}

// =============================================================================
// Activities
// =============================================================================

// CreateActivity creates an activity under a loaded course or project. It
// starts with no sessions.
func (s *Store) CreateActivity(ctx context.Context, in ActivityInput) (*model.ActivityRecord, error) {
	if err := s.requireUser(); err != nil {
		return nil, err
	}

	title := validate.SanitizeTitle(in.Title)
	description := validate.SanitizeNote(in.Description)

	s.mu.Lock()
	defer s.mu.Unlock()

	errs := validateText(title, description)
	parent, err := s.parentLocked(in.ParentKind, in.ParentID)
	if err != nil {
		errs = errs.Append("parent", err)
	}
	if err := errs.ToError(); err != nil {
		return nil, err
	}

	a := model.NewActivity(s.userID, s.newID(), title, description, parent.Kind, parent.ID, s.now())
	if err := s.backend.CreateActivity(ctx, s.userID, a); err != nil {
		s.logger(ctx).Error().Err(err).Str(logging.KeyActivity, a.ID).Msg("create activity failed")
		return nil, systemError("create activity", "failed to save activity", err)
	}

	rec := &model.ActivityRecord{
		Activity:    a,
		Sessions:    []*model.Session{},
		ParentTitle: parent.Title,
		ParentColor: parent.Color,
	}
	s.activities[a.ID] = rec
	s.commit(rec)

	return rec.Clone(), nil
}

// UpdateActivity applies a partial update to an activity.
func (s *Store) UpdateActivity(ctx context.Context, id string, patch ActivityPatch) (*model.ActivityRecord, error) {
	if err := s.requireUser(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.activities[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrActivityNotFound, id)
	}

	next := *rec.Activity
	if patch.Title != nil {
		next.Title = validate.SanitizeTitle(*patch.Title)
	}
	if patch.Description != nil {
		next.Description = validate.SanitizeNote(*patch.Description)
	}
	if patch.ParentKind != nil {
		next.ParentKind = *patch.ParentKind
	}
	if patch.ParentID != nil {
		next.ParentID = *patch.ParentID
	}

	errs := validateText(next.Title, next.Description)
	parent, err := s.parentLocked(next.ParentKind, next.ParentID)
	if err != nil {
		errs = errs.Append("parent", err)
	}
	if err := errs.ToError(); err != nil {
		return nil, err
	}

	next.UpdatedAt = s.now()
	if err := s.backend.UpdateActivity(ctx, s.userID, &next); err != nil {
		s.logger(ctx).Error().Err(err).Str(logging.KeyActivity, id).Msg("update activity failed")
		return nil, systemError("update activity", "failed to save activity", err)
	}

	rec.Activity = &next
	rec.ParentTitle = parent.Title
	rec.ParentColor = parent.Color
	s.commit(rec)

	return rec.Clone(), nil
}

// DeleteActivity removes an activity and its sessions.
func (s *Store) DeleteActivity(ctx context.Context, id string) error {
	if err := s.requireUser(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[id]; !ok {
		return fmt.Errorf("%w: %s", errors.ErrActivityNotFound, id)
	}

	if err := s.backend.DeleteActivity(ctx, s.userID, id); err != nil {
		s.logger(ctx).Error().Err(err).Str(logging.KeyActivity, id).Msg("delete activity failed")
		return systemError("delete activity", "failed to delete activity", err)
	}

	delete(s.activities, id)
	s.commit(nil)
	return nil
}

func (s *Store) parentLocked(kind model.ParentKind, id string) (*model.Container, error) {
	if !kind.Valid() || id == "" {
		return nil, errors.ErrParentRequired
	}
	parent := s.containersOf(kind)[id]
	if parent == nil {
		return nil, fmt.Errorf("%w: %s", notFoundFor(kind), id)
	}
	return parent, nil
}
