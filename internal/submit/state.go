package submit

import "github.com/dycedu/classroom-go/internal/progress"

// QuestionState tracks a question through the submission lifecycle:
// unanswered until a submit succeeds, answered once a submission exists, and
// reviewed once the hosting module enters review mode.
type QuestionState string

const (
	// StateUnanswered means no submission exists for the question.
	StateUnanswered QuestionState = "unanswered"
	// StateAnswered means a submission exists but the module is still open.
	StateAnswered QuestionState = "answered"
	// StateReviewed means the module is in review mode and the answer is
	// read-only.
	StateReviewed QuestionState = "reviewed"
)

// ReviewMode reports whether the user has submitted anything in the module:
// one submission flips the entire module into review, not just the answered
// question.
func ReviewMode(index progress.Index) bool {
	return len(index) > 0
}

// Locked reports whether the module rejects further changes: review mode with
// resubmission disabled. Deployments that allow resubmission never lock.
func Locked(index progress.Index, allowResubmission bool) bool {
	return ReviewMode(index) && !allowResubmission
}

// StateOf derives one question's lifecycle state from the module's
// submission index under the deployment's resubmission policy.
func StateOf(questionID uint, index progress.Index, allowResubmission bool) QuestionState {
	if !index.Answered(questionID) {
		return StateUnanswered
	}
	if Locked(index, allowResubmission) {
		return StateReviewed
	}
	return StateAnswered
}
