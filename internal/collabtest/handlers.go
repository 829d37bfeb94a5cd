package collabtest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) register(app *fiber.App) {
	app.Post("/register/", s.handleRegister)
	app.Post("/token/", s.handleLogin)
	app.Post("/token/refresh/", s.handleRefresh)

	authed := app.Group("/", s.requireAuth)

	authed.Get("/users/me/", s.handleMe)

	authed.Get("/courses/", s.handleListCourses)
	authed.Post("/courses/", s.handleCreateCourse)
	authed.Get("/courses/:id/modules/", s.handleCourseModules)
	authed.Put("/courses/:id/zoom", s.handleUpdateZoom)
	authed.Post("/courses/:id/users", s.handleEnroll)
	authed.Delete("/courses/:id/users", s.handleUnenroll)
	authed.Get("/courses/:scope", s.handleCourseScope)
	authed.Put("/courses/:id", s.handleUpdateCourse)

	authed.Get("/modules/", s.handleListModules)
	authed.Post("/modules/", s.handleCreateModule)
	authed.Get("/modules/:id/questions", s.handleModuleQuestions)
	authed.Post("/modules/:id/question", s.handleCreateModuleQuestion)
	authed.Get("/modules/:id/accessibility", s.handleAccessibility)
	authed.Get("/modules/:id", s.handleGetModule)
	authed.Put("/modules/:id", s.handleUpdateModule)
	authed.Delete("/modules/:id", s.handleDeleteModule)

	authed.Get("/questions/", s.handleListQuestions)
	authed.Post("/questions/", s.handleCreateQuestion)
	authed.Get("/questions/:scope", s.handleQuestionScope)
	authed.Put("/questions/:id", s.handleUpdateQuestion)
	authed.Delete("/questions/:id", s.handleDeleteQuestion)

	authed.Get("/submissions/users/:userID/questions/:questionID", s.handleUserSubmission)
	authed.Get("/submissions/", s.handleListSubmissions)
	authed.Post("/submissions/", s.handleCreateSubmission)
	authed.Put("/submissions/:id", s.handleUpdateSubmission)
	authed.Post("/submissions/:id/grade", s.handleGradeSubmission)

	authed.Get("/announcements/", s.handleListAnnouncements)
	authed.Post("/announcements/", s.handleCreateAnnouncement)
	authed.Put("/announcements/:id", s.handleUpdateAnnouncement)
	authed.Delete("/announcements/:id", s.handleDeleteAnnouncement)
}

func (s *Server) issuePair(c *fiber.Ctx, user userRecord, status int) error {
	access, err := s.signToken(user.ID, "access", s.opts.AccessTTL)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "failed to sign token")
	}
	refresh, err := s.signToken(user.ID, "refresh", s.opts.RefreshTTL)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "failed to sign token")
	}

	return c.Status(status).JSON(fiber.Map{
		"access":  access,
		"refresh": refresh,
		"user":    user.wire(),
	})
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var body struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		IsStudent bool   `json:"isStudent"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var existing int64
	s.db.Model(&userRecord{}).Where("email = ?", body.Email).Count(&existing)
	if existing > 0 {
		return sendError(c, fiber.StatusBadRequest, "email is already registered")
	}

	user := userRecord{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		IsStudent: body.IsStudent,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return sendError(c, fiber.StatusInternalServerError, "failed to create user")
	}

	return s.issuePair(c, user, fiber.StatusCreated)
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	var user userRecord
	if err := s.db.Where("email = ? AND password = ?", body.Email, body.Password).First(&user).Error; err != nil {
		return sendError(c, fiber.StatusUnauthorized, "no active account found with the given credentials")
	}

	return s.issuePair(c, user, fiber.StatusOK)
}

func (s *Server) handleRefresh(c *fiber.Ctx) error {
	var body struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	userID, typ, err := s.parseToken(body.Refresh)
	if err != nil || typ != "refresh" {
		return sendError(c, fiber.StatusUnauthorized, "token is invalid or expired")
	}

	access, err := s.signToken(userID, "access", s.opts.AccessTTL)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "failed to sign token")
	}

	return c.JSON(fiber.Map{"access": access})
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	return c.JSON(currentUser(c).wire())
}

func (s *Server) handleListCourses(c *fiber.Ctx) error {
	var courses []courseRecord
	s.db.Find(&courses)

	payload := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		payload = append(payload, course.wire())
	}
	return c.JSON(payload)
}

func (s *Server) handleCreateCourse(c *fiber.Ctx) error {
	if currentUser(c).IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	var body struct {
		CourseName        string `json:"course_name"`
		CourseDescription string `json:"course_description"`
		ZoomLink          string `json:"zoom_link"`
		ScoreTotal        int    `json:"score_total"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course := courseRecord{
		CourseName:        body.CourseName,
		CourseDescription: body.CourseDescription,
		ZoomLink:          body.ZoomLink,
		ScoreTotal:        body.ScoreTotal,
	}
	if err := s.db.Create(&course).Error; err != nil {
		return sendError(c, fiber.StatusInternalServerError, "failed to create course")
	}

	return c.Status(fiber.StatusCreated).JSON(course.wire())
}

// handleCourseScope serves both "/courses/{id}" and "/courses/userid={id}":
// the original API addresses a user's enrollment list through the latter.
func (s *Server) handleCourseScope(c *fiber.Ctx) error {
	scope := c.Params("scope")

	if value, ok := strings.CutPrefix(scope, "userid="); ok {
		userID, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return sendError(c, fiber.StatusBadRequest, "invalid user id")
		}

		var enrollments []enrollmentRecord
		s.db.Where("user_id = ?", userID).Find(&enrollments)

		payload := make([]fiber.Map, 0, len(enrollments))
		for _, enrollment := range enrollments {
			var course courseRecord
			if err := s.db.First(&course, enrollment.CourseID).Error; err == nil {
				payload = append(payload, course.wire())
			}
		}
		return c.JSON(payload)
	}

	courseID, err := strconv.ParseUint(scope, 10, 64)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	var course courseRecord
	if err := s.db.First(&course, courseID).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "course not found")
	}
	return c.JSON(course.wire())
}

func (s *Server) handleUpdateCourse(c *fiber.Ctx) error {
	if currentUser(c).IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	var course courseRecord
	if err := s.db.First(&course, courseID).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "course not found")
	}

	var body struct {
		CourseName        string `json:"course_name"`
		CourseDescription string `json:"course_description"`
		ZoomLink          string `json:"zoom_link"`
		ScoreTotal        int    `json:"score_total"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course.CourseName = body.CourseName
	course.CourseDescription = body.CourseDescription
	course.ZoomLink = body.ZoomLink
	course.ScoreTotal = body.ScoreTotal
	s.db.Save(&course)

	return c.JSON(course.wire())
}

func (s *Server) handleEnroll(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	var body struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	enrollment := enrollmentRecord{CourseID: uint(courseID), UserID: body.UserID}
	if err := s.db.Create(&enrollment).Error; err != nil {
		return sendError(c, fiber.StatusBadRequest, "user is already enrolled")
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (s *Server) handleUnenroll(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	var body struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	s.db.Where("course_id = ? AND user_id = ?", courseID, body.UserID).Delete(&enrollmentRecord{})
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleUpdateZoom(c *fiber.Ctx) error {
	if currentUser(c).IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	var course courseRecord
	if err := s.db.First(&course, courseID).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "course not found")
	}

	var body struct {
		ZoomLink string `json:"zoom_link"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course.ZoomLink = body.ZoomLink
	s.db.Save(&course)

	return c.JSON(course.wire())
}

func (s *Server) handleCourseModules(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	var course courseRecord
	if err := s.db.First(&course, courseID).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "course not found")
	}

	var modules []moduleRecord
	s.db.Where("course_id = ?", courseID).Order("module_order asc").Find(&modules)

	payload := make([]fiber.Map, 0, len(modules))
	for _, module := range modules {
		payload = append(payload, module.wire(course.CourseName))
	}
	return c.JSON(payload)
}

func (s *Server) handleListModules(c *fiber.Ctx) error {
	query := s.db.Order("module_order asc")
	if courseID := c.QueryInt("course_id"); courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}

	var modules []moduleRecord
	query.Find(&modules)

	payload := make([]fiber.Map, 0, len(modules))
	for _, module := range modules {
		payload = append(payload, module.wire(s.courseName(module.CourseID)))
	}
	return c.JSON(payload)
}

type moduleBody struct {
	CourseID          uint       `json:"course_id"`
	ModuleName        string     `json:"module_name"`
	ModuleDescription string     `json:"module_description"`
	YoutubeLink       string     `json:"youtube_link"`
	ModuleOrder       int        `json:"module_order"`
	ScoreTotal        int        `json:"score_total"`
	IsPosted          bool       `json:"is_posted"`
	DueDate           *time.Time `json:"due_date"`
}

func (s *Server) handleCreateModule(c *fiber.Ctx) error {
	if currentUser(c).IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	var body moduleBody
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	module := moduleRecord{
		CourseID:          body.CourseID,
		ModuleName:        body.ModuleName,
		ModuleDescription: body.ModuleDescription,
		YoutubeLink:       body.YoutubeLink,
		ModuleOrder:       body.ModuleOrder,
		ScoreTotal:        body.ScoreTotal,
		IsPosted:          body.IsPosted,
		DueDate:           body.DueDate,
	}
	if err := s.db.Create(&module).Error; err != nil {
		return sendError(c, fiber.StatusInternalServerError, "failed to create module")
	}

	return c.Status(fiber.StatusCreated).JSON(module.wire(s.courseName(module.CourseID)))
}

func (s *Server) handleGetModule(c *fiber.Ctx) error {
	module, err := s.findModule(c)
	if err != nil {
		return err
	}
	return c.JSON(module.wire(s.courseName(module.CourseID)))
}

func (s *Server) handleUpdateModule(c *fiber.Ctx) error {
	if currentUser(c).IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	module, err := s.findModule(c)
	if err != nil {
		return err
	}
	if module.IsPosted {
		return sendError(c, fiber.StatusBadRequest, "cannot modify a posted module")
	}

	var body moduleBody
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	module.ModuleName = body.ModuleName
	module.ModuleDescription = body.ModuleDescription
	module.YoutubeLink = body.YoutubeLink
	module.ModuleOrder = body.ModuleOrder
	module.ScoreTotal = body.ScoreTotal
	module.IsPosted = body.IsPosted
	module.DueDate = body.DueDate
	s.db.Save(&module)

	return c.JSON(module.wire(s.courseName(module.CourseID)))
}

func (s *Server) handleDeleteModule(c *fiber.Ctx) error {
	if currentUser(c).IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	module, err := s.findModule(c)
	if err != nil {
		return err
	}
	if module.IsPosted {
		return sendError(c, fiber.StatusBadRequest, "cannot modify a posted module")
	}

	s.db.Delete(&module)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) findModule(c *fiber.Ctx) (moduleRecord, error) {
	moduleID, err := c.ParamsInt("id")
	if err != nil {
		return moduleRecord{}, sendError(c, fiber.StatusBadRequest, "invalid module id")
	}

	var module moduleRecord
	if err := s.db.First(&module, moduleID).Error; err != nil {
		return moduleRecord{}, sendError(c, fiber.StatusNotFound, "module not found")
	}
	return module, nil
}

func (s *Server) courseName(courseID uint) string {
	var course courseRecord
	if err := s.db.First(&course, courseID).Error; err != nil {
		return ""
	}
	return course.CourseName
}

// moduleAccessible applies the server-side sequential gate: posted module,
// and for students every earlier module in the course posted and fully
// submitted. Empty earlier modules never count as complete.
func (s *Server) moduleAccessible(user userRecord, module moduleRecord) (bool, string) {
	if !module.IsPosted {
		return false, "Module is not posted."
	}
	if !user.IsStudent {
		return true, ""
	}

	var priors []moduleRecord
	s.db.Where("course_id = ? AND module_order < ?", module.CourseID, module.ModuleOrder).
		Order("module_order asc").Find(&priors)

	for _, prior := range priors {
		if !prior.IsPosted {
			return false, "Complete the previous modules first."
		}

		var questionIDs []uint
		s.db.Model(&questionRecord{}).Where("module_id = ?", prior.ID).Pluck("id", &questionIDs)
		if len(questionIDs) == 0 {
			return false, "Complete the previous modules first."
		}

		var answered int64
		s.db.Model(&submissionRecord{}).
			Where("user_id = ? AND question_id IN ?", user.ID, questionIDs).
			Count(&answered)
		if answered < int64(len(questionIDs)) {
			return false, "Complete the previous modules first."
		}
	}

	return true, ""
}

func (s *Server) handleAccessibility(c *fiber.Ctx) error {
	module, err := s.findModule(c)
	if err != nil {
		return err
	}

	accessible, reason := s.moduleAccessible(currentUser(c), module)
	payload := fiber.Map{"is_accessible": accessible}
	if reason != "" {
		payload["reason"] = reason
	}
	return c.JSON(payload)
}

func (s *Server) handleModuleQuestions(c *fiber.Ctx) error {
	module, err := s.findModule(c)
	if err != nil {
		return err
	}

	user := currentUser(c)
	if user.IsStudent {
		if accessible, reason := s.moduleAccessible(user, module); !accessible {
			return sendError(c, fiber.StatusForbidden, reason)
		}
	}

	var questions []questionRecord
	s.db.Where("module_id = ?", module.ID).Order("question_order asc").Find(&questions)

	payload := make([]fiber.Map, 0, len(questions))
	for _, question := range questions {
		payload = append(payload, question.wire())
	}
	return c.JSON(payload)
}

type questionBody struct {
	ModuleID       uint     `json:"module_id"`
	QuestionText   string   `json:"question_text"`
	QuestionType   string   `json:"question_type"`
	MCQOptions     []string `json:"mcq_options"`
	CorrectAnswers []string `json:"correct_answers"`
	QuestionOrder  int      `json:"question_order"`
	ScoreTotal     int      `json:"score_total"`
}

func (s *Server) createQuestion(c *fiber.Ctx, moduleID uint, body questionBody) error {
	var module moduleRecord
	if err := s.db.First(&module, moduleID).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "module not found")
	}
	if module.IsPosted {
		return sendError(c, fiber.StatusBadRequest, "cannot modify a posted module")
	}

	question := questionRecord{
		ModuleID:       moduleID,
		QuestionText:   body.QuestionText,
		QuestionType:   body.QuestionType,
		MCQOptions:     encodeStrings(body.MCQOptions),
		CorrectAnswers: encodeStrings(body.CorrectAnswers),
		QuestionOrder:  body.QuestionOrder,
		ScoreTotal:     body.ScoreTotal,
	}
	if err := s.db.Create(&question).Error; err != nil {
		return sendError(c, fiber.StatusInternalServerError, "failed to create question")
	}

	return c.Status(fiber.StatusCreated).JSON(question.wire())
}

func (s *Server) handleCreateModuleQuestion(c *fiber.Ctx) error {
	if currentUser(c).IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	moduleID, err := c.ParamsInt("id")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid module id")
	}

	var body questionBody
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	return s.createQuestion(c, uint(moduleID), body)
}

func (s *Server) handleCreateQuestion(c *fiber.Ctx) error {
	if currentUser(c).IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	var body questionBody
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	return s.createQuestion(c, body.ModuleID, body)
}

func (s *Server) handleListQuestions(c *fiber.Ctx) error {
	query := s.db.Order("question_order asc")
	if moduleID := c.QueryInt("module_id"); moduleID > 0 {
		query = query.Where("module_id = ?", moduleID)
	}

	var questions []questionRecord
	query.Find(&questions)

	payload := make([]fiber.Map, 0, len(questions))
	for _, question := range questions {
		payload = append(payload, question.wire())
	}
	return c.JSON(payload)
}

// handleQuestionScope serves "/questions/questionid={id}".
func (s *Server) handleQuestionScope(c *fiber.Ctx) error {
	value, ok := strings.CutPrefix(c.Params("scope"), "questionid=")
	if !ok {
		return sendError(c, fiber.StatusBadRequest, "invalid question id")
	}

	questionID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid question id")
	}

	var question questionRecord
	if err := s.db.First(&question, questionID).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "question not found")
	}

	if moduleID := c.QueryInt("module_id"); moduleID > 0 && question.ModuleID != uint(moduleID) {
		return sendError(c, fiber.StatusNotFound, "question not found")
	}

	return c.JSON(question.wire())
}

func (s *Server) handleUpdateQuestion(c *fiber.Ctx) error {
	if currentUser(c).IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	questionID, err := c.ParamsInt("id")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid question id")
	}

	var question questionRecord
	if err := s.db.First(&question, questionID).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "question not found")
	}

	var module moduleRecord
	if err := s.db.First(&module, question.ModuleID).Error; err == nil && module.IsPosted {
		return sendError(c, fiber.StatusBadRequest, "cannot modify a posted module")
	}

	var body questionBody
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	question.QuestionText = body.QuestionText
	question.QuestionType = body.QuestionType
	question.MCQOptions = encodeStrings(body.MCQOptions)
	question.CorrectAnswers = encodeStrings(body.CorrectAnswers)
	question.QuestionOrder = body.QuestionOrder
	question.ScoreTotal = body.ScoreTotal
	s.db.Save(&question)

	return c.JSON(question.wire())
}

func (s *Server) handleDeleteQuestion(c *fiber.Ctx) error {
	if currentUser(c).IsStudent {
		return sendError(c, fiber.StatusForbidden, "access denied")
	}

	questionID, err := c.ParamsInt("id")
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid question id")
	}

	var question questionRecord
	if err := s.db.First(&question, questionID).Error; err != nil {
		return sendError(c, fiber.StatusNotFound, "question not found")
	}

	var module moduleRecord
	if err := s.db.First(&module, question.ModuleID).Error; err == nil && module.IsPosted {
		return sendError(c, fiber.StatusBadRequest, "cannot modify a posted module")
	}

	s.db.Delete(&question)
	return c.SendStatus(fiber.StatusNoContent)
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(value), nil
}
