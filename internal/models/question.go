package models

const (
	// QuestionTypeMultipleChoice requires selecting one of MCQOptions.
	QuestionTypeMultipleChoice = "multiple_choice"
	// QuestionTypeAudio expects a recorded audio payload.
	QuestionTypeAudio = "audio"
	// QuestionTypeWritten expects free text.
	QuestionTypeWritten = "written"
	// QuestionTypeVideo expects an uploaded video file reference (field assignment).
	QuestionTypeVideo = "video"
)

// Question belongs to a module. QuestionOrder is unique within the module.
// MCQOptions and CorrectAnswers are only populated for multiple choice.
type Question struct {
	ID             uint     `json:"id"`
	ModuleID       uint     `json:"module_id"`
	QuestionText   string   `json:"question_text"`
	QuestionType   string   `json:"question_type"`
	MCQOptions     []string `json:"mcq_options,omitempty"`
	CorrectAnswers []string `json:"correct_answers,omitempty"`
	QuestionOrder  int      `json:"question_order"`
	ScoreTotal     int      `json:"score_total"`
}

// IsMultipleChoice reports whether the question is answered by option selection.
func (q Question) IsMultipleChoice() bool {
	return q.QuestionType == QuestionTypeMultipleChoice
}
