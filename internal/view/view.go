package view

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/dycedu/classroom-go/internal/api"
	"github.com/dycedu/classroom-go/internal/models"
)

var (
	// ErrNotEnrolled means the user belongs to no course, so no dashboard
	// can be built.
	ErrNotEnrolled = errors.New("user is not enrolled in any course")
	// ErrModuleLocked means the collaborator denied access to the module;
	// the caller should navigate back to the dashboard.
	ErrModuleLocked = errors.New("module is not accessible")
)

// Collaborator is the slice of the API client the views compose over.
type Collaborator interface {
	EnrolledCourses(ctx context.Context, userID uint) ([]models.Course, error)
	CourseModules(ctx context.Context, courseID uint) ([]models.Module, error)
	GetModule(ctx context.Context, id uint) (models.Module, error)
	ModuleQuestions(ctx context.Context, moduleID uint) ([]models.Question, error)
	ListQuestions(ctx context.Context, moduleID uint) ([]models.Question, error)
	ListSubmissions(ctx context.Context, filter api.SubmissionFilter) ([]models.Submission, error)
	CheckAccessibility(ctx context.Context, moduleID uint) (api.Accessibility, error)
	ListAnnouncements(ctx context.Context, courseID uint) ([]models.Announcement, error)
}

// Service builds read models for the student dashboard, the homework page,
// the teacher overview, and the announcement feed. It holds no state between
// loads; every view is recomputed from collaborator data on each call.
type Service struct {
	collaborator      Collaborator
	allowResubmission bool
	sanitizer         *bluemonday.Policy
	logger            zerolog.Logger
	now               func() time.Time
}

// NewService builds the view service.
func NewService(collaborator Collaborator, allowResubmission bool, logger zerolog.Logger) *Service {
	return &Service{
		collaborator:      collaborator,
		allowResubmission: allowResubmission,
		sanitizer:         bluemonday.UGCPolicy(),
		logger:            logger.With().Str("component", "view").Logger(),
		now:               time.Now,
	}
}

// sortQuestions returns a copy ordered by QuestionOrder ascending.
func sortQuestions(questions []models.Question) []models.Question {
	ordered := make([]models.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].QuestionOrder < ordered[j].QuestionOrder
	})
	return ordered
}
