package progress

import "github.com/dycedu/classroom-go/internal/models"

// emptyModuleComplete pins down the policy for modules with no questions:
// they are never considered complete. Treating them as complete would let an
// empty module silently satisfy the sequential gate.
const emptyModuleComplete = false

// IsComplete reports whether every question in the module has a submission in
// the index. Only distinct question IDs count; a question answered twice still
// contributes once.
func IsComplete(questions []models.Question, index Index) bool {
	if len(questions) == 0 {
		return emptyModuleComplete
	}

	answered := 0
	for _, question := range questions {
		if index.Answered(question.ID) {
			answered++
		}
	}

	return answered >= len(questions)
}
