package progress

import "github.com/dycedu/classroom-go/internal/models"

// Index maps question IDs to the current user's submission for one module.
// Submissions belonging to other users are discarded at build time, so every
// lookup answers "has this user answered that question".
type Index map[uint]models.Submission

// BuildIndex filters a module's submission list down to the given user. The
// collaborator may return other students' submissions in the same payload;
// only rows matching userID are retained. An empty input yields an empty
// index, never an error.
func BuildIndex(submissions []models.Submission, userID uint) Index {
	index := make(Index)
	for _, submission := range submissions {
		if submission.UserID != userID {
			continue
		}
		index[submission.QuestionID] = submission
	}
	return index
}

// Response returns the stored response text and type for a question, for
// re-display in review mode. Audio responses are self-describing encoded
// payloads and are returned as-is, never decoded here.
func (ix Index) Response(questionID uint) (text, submissionType string, ok bool) {
	submission, ok := ix[questionID]
	if !ok {
		return "", "", false
	}
	return submission.SubmissionResponse, submission.SubmissionType, true
}

// Answered reports whether the user has any submission for the question.
func (ix Index) Answered(questionID uint) bool {
	_, ok := ix[questionID]
	return ok
}
