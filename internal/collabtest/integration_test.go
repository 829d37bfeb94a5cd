package collabtest_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dycedu/classroom-go/internal/api"
	"github.com/dycedu/classroom-go/internal/collabtest"
	"github.com/dycedu/classroom-go/internal/models"
	"github.com/dycedu/classroom-go/internal/progress"
	"github.com/dycedu/classroom-go/internal/session"
	"github.com/dycedu/classroom-go/internal/submit"
	"github.com/dycedu/classroom-go/internal/view"
)

// harness wires a real client and session against one fake collaborator.
type harness struct {
	server  *collabtest.Server
	teacher *actor
	student *actor
}

type actor struct {
	client  *api.Client
	session *session.Session
	user    models.User
}

func newActor(t *testing.T, baseURL string) *actor {
	t.Helper()

	sess := session.New(session.NewMemoryStore(), zerolog.Nop())
	client, err := api.New(api.Config{BaseURL: baseURL, Timeout: 5 * time.Second}, sess, nil, zerolog.Nop())
	require.NoError(t, err)

	return &actor{client: client, session: sess}
}

func (a *actor) register(t *testing.T, request api.RegisterRequest) {
	t.Helper()

	response, err := a.client.Register(context.Background(), request)
	require.NoError(t, err)
	require.NoError(t, a.session.Begin(response.User, response.Tokens()))
	a.user = response.User
}

func newHarness(t *testing.T, opts collabtest.Options) *harness {
	t.Helper()

	server, err := collabtest.New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })

	h := &harness{
		server:  server,
		teacher: newActor(t, server.URL()),
		student: newActor(t, server.URL()),
	}

	h.teacher.register(t, api.RegisterRequest{
		FirstName: "Yuki", LastName: "Sensei",
		Email: "teacher@example.com", Password: "teacher-pass",
		IsStudent: false,
	})
	h.student.register(t, api.RegisterRequest{
		FirstName: "Aiko", LastName: "Tanaka",
		Email: "student@example.com", Password: "student-pass",
		IsStudent: true,
	})

	return h
}

// seedCourse creates a course with two posted single-question modules and
// enrolls the student. Returns course and module IDs.
func (h *harness) seedCourse(t *testing.T) (models.Course, []models.Module) {
	t.Helper()
	ctx := context.Background()

	course, err := h.teacher.client.CreateCourse(ctx, api.CourseRequest{
		CourseName: "Japanese I",
		ZoomLink:   "https://zoom.example/j1",
	})
	require.NoError(t, err)

	require.NoError(t, h.teacher.client.AddCourseUser(ctx, course.ID, h.student.user.ID))
	require.NoError(t, h.teacher.client.AddCourseUser(ctx, course.ID, h.teacher.user.ID))

	modules := make([]models.Module, 0, 2)
	for order, name := range []string{"Greetings", "Hiragana"} {
		module, err := h.teacher.client.CreateModule(ctx, api.ModuleRequest{
			CourseID:    course.ID,
			ModuleName:  name,
			ModuleOrder: order + 1,
			ScoreTotal:  10,
		})
		require.NoError(t, err)

		_, err = h.teacher.client.CreateModuleQuestion(ctx, module.ID, api.QuestionRequest{
			QuestionText:  "Translate: hello",
			QuestionType:  models.QuestionTypeWritten,
			QuestionOrder: 1,
			ScoreTotal:    10,
		})
		require.NoError(t, err)

		posted, err := h.teacher.client.UpdateModule(ctx, module.ID, api.ModuleRequest{
			CourseID:    course.ID,
			ModuleName:  name,
			ModuleOrder: order + 1,
			ScoreTotal:  10,
			IsPosted:    true,
		})
		require.NoError(t, err)
		modules = append(modules, posted)
	}

	return course, modules
}

func TestSequentialGateEnforcedServerSide(t *testing.T) {
	h := newHarness(t, collabtest.Options{})
	_, modules := h.seedCourse(t)
	ctx := context.Background()

	// The second module's questions are out of reach until the first module
	// is fully submitted.
	_, err := h.student.client.ModuleQuestions(ctx, modules[1].ID)
	require.True(t, api.IsForbidden(err))
	require.Contains(t, err.Error(), "Complete the previous modules first.")

	accessibility, err := h.student.client.CheckAccessibility(ctx, modules[1].ID)
	require.NoError(t, err)
	require.False(t, accessibility.IsAccessible)

	// The teacher is not gated.
	_, err = h.teacher.client.ModuleQuestions(ctx, modules[1].ID)
	require.NoError(t, err)

	// Answer module one; module two opens.
	questions, err := h.student.client.ModuleQuestions(ctx, modules[0].ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	_, err = h.student.client.Submit(ctx, api.SubmitRequest{
		QuestionID:     questions[0].ID,
		ModuleID:       modules[0].ID,
		SubmissionType: models.QuestionTypeWritten,
		Response:       "kon'nichiwa",
	})
	require.NoError(t, err)

	_, err = h.student.client.ModuleQuestions(ctx, modules[1].ID)
	require.NoError(t, err)
}

func TestDuplicateSubmissionRejected(t *testing.T) {
	h := newHarness(t, collabtest.Options{})
	_, modules := h.seedCourse(t)
	ctx := context.Background()

	questions, err := h.student.client.ModuleQuestions(ctx, modules[0].ID)
	require.NoError(t, err)

	request := api.SubmitRequest{
		QuestionID:     questions[0].ID,
		ModuleID:       modules[0].ID,
		SubmissionType: models.QuestionTypeWritten,
		Response:       "kon'nichiwa",
	}

	first, err := h.student.client.Submit(ctx, request)
	require.NoError(t, err)

	_, err = h.student.client.Submit(ctx, request)
	require.Error(t, err)
	require.Contains(t, err.Error(), "You have already submitted an answer for this question.")

	// Resubmission is off, so the update path is rejected too.
	_, err = h.student.client.UpdateSubmission(ctx, first.ID, request)
	require.True(t, api.IsForbidden(err))
}

func TestGradingFlowsIntoDashboard(t *testing.T) {
	h := newHarness(t, collabtest.Options{})
	_, modules := h.seedCourse(t)
	ctx := context.Background()

	// The student answers both modules through the submit service.
	submitService := submit.NewService(h.student.client, false, zerolog.Nop())
	for _, module := range modules {
		questions, err := h.student.client.ModuleQuestions(ctx, module.ID)
		require.NoError(t, err)

		answers := []submit.Answer{{
			Question:     questions[0],
			ResponseType: models.QuestionTypeWritten,
			Response:     "kon'nichiwa",
		}}
		report, err := submitService.SubmitModule(ctx, module.ID, answers, progress.Index{})
		require.NoError(t, err)
		require.NoError(t, report.Err())
	}

	// The teacher grades 8/10 and 5/10.
	submissions, err := h.teacher.client.ListSubmissions(ctx, api.SubmissionFilter{ModuleID: modules[0].ID})
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	require.NoError(t, h.teacher.client.GradeSubmission(ctx, submissions[0].ID, models.Grade{Score: 8, Total: 10}))

	submissions, err = h.teacher.client.ListSubmissions(ctx, api.SubmissionFilter{ModuleID: modules[1].ID})
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	require.NoError(t, h.teacher.client.GradeSubmission(ctx, submissions[0].ID, models.Grade{Score: 5, Total: 10}))

	views := view.NewService(h.student.client, false, zerolog.Nop())
	dashboard, err := views.StudentDashboard(ctx, h.student.user)
	require.NoError(t, err)

	require.Equal(t, "Japanese I", dashboard.Course.CourseName)
	require.Equal(t, "https://zoom.example/j1", dashboard.ZoomLink)
	require.Equal(t, "13/20", dashboard.Overall)
	require.NotNil(t, dashboard.Percent)
	require.Equal(t, 65, *dashboard.Percent)
	require.Equal(t, progress.StateCompleted, dashboard.Modules[0].State)
	require.Equal(t, progress.StateCompleted, dashboard.Modules[1].State)
	require.Nil(t, dashboard.Upcoming)

	// The teacher overview sees the same numbers from the other side.
	teacherViews := view.NewService(h.teacher.client, false, zerolog.Nop())
	overview, err := teacherViews.TeacherOverview(ctx, dashboard.Course.ID)
	require.NoError(t, err)
	require.Len(t, overview.Students, 1)
	require.Equal(t, "13/20", overview.Students[0].Grade)
	require.Equal(t, "Aiko Tanaka", overview.Students[0].UserName)
}

func TestExpiredAccessTokenIsRefreshedTransparently(t *testing.T) {
	h := newHarness(t, collabtest.Options{AccessTTL: 1 * time.Second})
	h.seedCourse(t)

	before := h.student.session.AccessToken()

	// Let the access token lapse; the refresh token stays valid.
	time.Sleep(1500 * time.Millisecond)

	courses, err := h.student.client.EnrolledCourses(context.Background(), h.student.user.ID)
	require.NoError(t, err, "the 401 must be absorbed by a refresh, not surfaced")
	require.Len(t, courses, 1)

	require.NotEqual(t, before, h.student.session.AccessToken(), "session now holds the refreshed access token")
}

func TestPostedModuleImmutableServerSide(t *testing.T) {
	h := newHarness(t, collabtest.Options{})
	_, modules := h.seedCourse(t)
	ctx := context.Background()

	_, err := h.teacher.client.UpdateModule(ctx, modules[0].ID, api.ModuleRequest{
		CourseID:    modules[0].CourseID,
		ModuleName:  "Renamed",
		ModuleOrder: modules[0].ModuleOrder,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot modify a posted module")

	_, err = h.teacher.client.CreateModuleQuestion(ctx, modules[0].ID, api.QuestionRequest{
		QuestionText:  "Late addition",
		QuestionType:  models.QuestionTypeWritten,
		QuestionOrder: 2,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot modify a posted module")
}

func TestAnnouncementVisibility(t *testing.T) {
	h := newHarness(t, collabtest.Options{})
	course, _ := h.seedCourse(t)
	ctx := context.Background()

	_, err := h.teacher.client.CreateAnnouncement(ctx, api.AnnouncementRequest{
		CourseID: course.ID, Title: "Welcome", Content: "<p>Hello class</p>", IsPosted: true,
	})
	require.NoError(t, err)
	draft, err := h.teacher.client.CreateAnnouncement(ctx, api.AnnouncementRequest{
		CourseID: course.ID, Title: "Draft", Content: "unfinished", IsPosted: false,
	})
	require.NoError(t, err)

	studentFeed, err := h.student.client.ListAnnouncements(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, studentFeed, 1)
	require.Equal(t, "Welcome", studentFeed[0].Title)

	teacherFeed, err := h.teacher.client.ListAnnouncements(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, teacherFeed, 2)

	require.NoError(t, h.teacher.client.DeleteAnnouncement(ctx, draft.ID))
	teacherFeed, err = h.teacher.client.ListAnnouncements(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, teacherFeed, 1)
}
