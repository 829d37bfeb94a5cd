package authoring

import (
	"errors"
	"strings"

	"github.com/dycedu/classroom-go/internal/models"
)

var (
	// ErrDuplicateOption rejects adding a choice that already exists.
	ErrDuplicateOption = errors.New("option already exists")
	// ErrUnknownOption rejects marking or renaming a choice that is not in
	// the option list.
	ErrUnknownOption = errors.New("no such option")
	// ErrEmptyOption rejects blank choices.
	ErrEmptyOption = errors.New("option text is empty")
)

// Options edits a multiple-choice question's choice list while keeping the
// correct-answer set a subset of the choices. Removing or renaming a choice
// updates the correct set in the same step, so the two lists can never drift
// apart between edits.
type Options struct {
	choices []string
	correct map[string]bool
}

// NewOptions seeds the editor from an existing question. Correct answers that
// do not appear in the option list are dropped.
func NewOptions(question models.Question) *Options {
	o := &Options{
		choices: append([]string(nil), question.MCQOptions...),
		correct: make(map[string]bool),
	}
	for _, answer := range question.CorrectAnswers {
		if o.has(answer) {
			o.correct[answer] = true
		}
	}
	return o
}

func (o *Options) has(choice string) bool {
	for _, existing := range o.choices {
		if existing == choice {
			return true
		}
	}
	return false
}

// Add appends a choice.
func (o *Options) Add(choice string) error {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return ErrEmptyOption
	}
	if o.has(choice) {
		return ErrDuplicateOption
	}
	o.choices = append(o.choices, choice)
	return nil
}

// Remove deletes a choice and prunes it from the correct set.
func (o *Options) Remove(choice string) {
	kept := o.choices[:0]
	for _, existing := range o.choices {
		if existing != choice {
			kept = append(kept, existing)
		}
	}
	o.choices = kept
	delete(o.correct, choice)
}

// Rename changes a choice's text, carrying its correct mark along.
func (o *Options) Rename(from, to string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return ErrEmptyOption
	}
	if !o.has(from) {
		return ErrUnknownOption
	}
	if from != to && o.has(to) {
		return ErrDuplicateOption
	}

	for i, existing := range o.choices {
		if existing == from {
			o.choices[i] = to
		}
	}
	if o.correct[from] {
		delete(o.correct, from)
		o.correct[to] = true
	}
	return nil
}

// MarkCorrect adds a choice to the correct-answer set.
func (o *Options) MarkCorrect(choice string) error {
	if !o.has(choice) {
		return ErrUnknownOption
	}
	o.correct[choice] = true
	return nil
}

// UnmarkCorrect removes a choice from the correct-answer set.
func (o *Options) UnmarkCorrect(choice string) {
	delete(o.correct, choice)
}

// Choices returns the option list in display order.
func (o *Options) Choices() []string {
	return append([]string(nil), o.choices...)
}

// Correct returns the correct answers in option-list order.
func (o *Options) Correct() []string {
	var correct []string
	for _, choice := range o.choices {
		if o.correct[choice] {
			correct = append(correct, choice)
		}
	}
	return correct
}

// Apply writes the edited lists back onto the question.
func (o *Options) Apply(question *models.Question) {
	question.MCQOptions = o.Choices()
	question.CorrectAnswers = o.Correct()
}
