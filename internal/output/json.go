package output

import (
	"time"

	"github.com/manav03panchal/codetrack/internal/errors"
	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/report"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// ContainerOutput represents a course or project in JSON output.
type ContainerOutput struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// NewContainerOutput creates a ContainerOutput from a Container.
func NewContainerOutput(c *model.Container) *ContainerOutput {
	return &ContainerOutput{
		ID:          c.ID,
		Kind:        string(c.Kind),
		Title:       c.Title,
		Description: c.Description,
		Color:       c.Color,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

// SessionOutput represents a session in JSON output.
type SessionOutput struct {
	Index           int    `json:"index"`
	ID              string `json:"id"`
	ActivityID      string `json:"activity_id"`
	DurationSeconds int    `json:"duration_seconds"`
	Duration        string `json:"duration"`
	OccurredAt      string `json:"occurred_at"`
	Notes           string `json:"notes,omitempty"`
	Source          string `json:"source,omitempty"`
}

// NewSessionOutput creates a SessionOutput from a Session at its list index.
func NewSessionOutput(index int, s *model.Session) *SessionOutput {
	return &SessionOutput{
		Index:           index,
		ID:              s.ID,
		ActivityID:      s.ActivityID,
		DurationSeconds: s.Seconds,
		Duration:        FormatClock(s.Seconds),
		OccurredAt:      s.OccurredAt.Format(time.RFC3339),
		Notes:           s.Notes,
		Source:          string(s.Source),
	}
}

// ActivityOutput represents an activity in JSON output.
type ActivityOutput struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	ParentKind   string           `json:"parent_kind"`
	ParentID     string           `json:"parent_id"`
	ParentTitle  string           `json:"parent_title"`
	TotalSeconds int              `json:"total_seconds"`
	TotalTime    string           `json:"total_time"`
	SessionCount int              `json:"session_count"`
	Sessions     []*SessionOutput `json:"sessions,omitempty"`
}

// NewActivityOutput creates an ActivityOutput. Sessions are included when
// withSessions is set.
func NewActivityOutput(r *model.ActivityRecord, withSessions bool) *ActivityOutput {
	out := &ActivityOutput{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		ParentKind:   string(r.ParentKind),
		ParentID:     r.ParentID,
		ParentTitle:  r.ParentTitle,
		TotalSeconds: r.TotalSeconds(),
		TotalTime:    FormatDuration(r.TotalSeconds()),
		SessionCount: len(r.Sessions),
	}
	if withSessions {
		out.Sessions = make([]*SessionOutput, len(r.Sessions))
		for i, s := range r.Sessions {
			out.Sessions[i] = NewSessionOutput(i, s)
		}
	}
	return out
}

// ActivitiesResponse represents the activity list output in JSON.
type ActivitiesResponse struct {
	Activities   []*ActivityOutput `json:"activities"`
	TotalSeconds int               `json:"total_seconds"`
}

// ContainersResponse represents a course or project list in JSON.
type ContainersResponse struct {
	Items []*ContainerOutput `json:"items"`
}

// ContainerResponse represents a created, edited or deleted course or
// project in JSON.
type ContainerResponse struct {
	Status            string           `json:"status"`
	Container         *ContainerOutput `json:"container"`
	ActivitiesRemoved int              `json:"activities_removed,omitempty"`
}

// ActivityResponse represents a created, edited or deleted activity in JSON.
type ActivityResponse struct {
	Status   string          `json:"status"`
	Activity *ActivityOutput `json:"activity"`
}

// SessionResponse represents a recorded or deleted session in JSON.
type SessionResponse struct {
	Status   string          `json:"status"`
	Session  *SessionOutput  `json:"session"`
	Activity *ActivityOutput `json:"activity"`
}

// StatsResponse represents bucketed statistics in JSON.
type StatsResponse struct {
	Period  string          `json:"period"`
	Buckets []report.Bucket `json:"buckets"`
	Totals  []report.Value  `json:"totals"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Category   string `json:"category"`
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

// NewErrorResponse classifies err into an ErrorResponse.
func NewErrorResponse(err error) *ErrorResponse {
	return &ErrorResponse{
		Status:     "error",
		Category:   errors.Classify(err).String(),
		Error:      err.Error(),
		Suggestion: errors.GetSuggestion(err),
	}
}

// PrintActivities outputs the activity list.
func (j *JSONFormatter) PrintActivities(records []*model.ActivityRecord) error {
	resp := ActivitiesResponse{Activities: make([]*ActivityOutput, 0, len(records))}
	for _, r := range records {
		resp.Activities = append(resp.Activities, NewActivityOutput(r, false))
		resp.TotalSeconds += r.TotalSeconds()
	}
	return j.JSON(resp)
}

// PrintHistory outputs activities together with their sessions.
func (j *JSONFormatter) PrintHistory(records []*model.ActivityRecord) error {
	resp := ActivitiesResponse{Activities: make([]*ActivityOutput, 0, len(records))}
	for _, r := range records {
		resp.Activities = append(resp.Activities, NewActivityOutput(r, true))
		resp.TotalSeconds += r.TotalSeconds()
	}
	return j.JSON(resp)
}

// PrintActivity outputs one activity with its sessions.
func (j *JSONFormatter) PrintActivity(r *model.ActivityRecord) error {
	return j.JSON(NewActivityOutput(r, true))
}

// PrintContainers outputs a course or project list.
func (j *JSONFormatter) PrintContainers(containers []*model.Container) error {
	resp := ContainersResponse{Items: make([]*ContainerOutput, 0, len(containers))}
	for _, c := range containers {
		resp.Items = append(resp.Items, NewContainerOutput(c))
	}
	return j.JSON(resp)
}

// PrintContainer outputs a course or project change. removed counts the
// activities deleted along with it.
func (j *JSONFormatter) PrintContainer(status string, c *model.Container, removed int) error {
	return j.JSON(ContainerResponse{Status: status, Container: NewContainerOutput(c), ActivitiesRemoved: removed})
}

// PrintActivityChange outputs an activity change.
func (j *JSONFormatter) PrintActivityChange(status string, r *model.ActivityRecord) error {
	return j.JSON(ActivityResponse{Status: status, Activity: NewActivityOutput(r, false)})
}

// PrintSession outputs a session change with the activity after it.
func (j *JSONFormatter) PrintSession(status string, index int, s *model.Session, r *model.ActivityRecord) error {
	return j.JSON(SessionResponse{
		Status:   status,
		Session:  NewSessionOutput(index, s),
		Activity: NewActivityOutput(r, false),
	})
}

// PrintStats outputs bucketed statistics.
func (j *JSONFormatter) PrintStats(period report.Period, buckets []report.Bucket) error {
	if buckets == nil {
		buckets = []report.Bucket{}
	}
	totals := report.Totals(buckets)
	if totals == nil {
		totals = []report.Value{}
	}
	return j.JSON(StatsResponse{Period: string(period), Buckets: buckets, Totals: totals})
}

// PrintError outputs an error.
func (j *JSONFormatter) PrintError(err error) error {
	return j.JSON(NewErrorResponse(err))
}
