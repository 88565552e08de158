package dto

// StandardSubmission maps question identifiers to free-text answers.
// MULTI_CHOICE uses the same shape with option identifiers as values.
type StandardSubmission struct {
	Answers map[string]string `json:"answers" validate:"required,min=1"`
}

// FlashcardSubmission maps card identifiers to the student's self-reported
// correct/incorrect outcome.
type FlashcardSubmission struct {
	Cards map[string]bool `json:"cards" validate:"required,min=1"`
}

// ComposerSubmission carries one attempt at reconstructing the hidden
// sentence.
type ComposerSubmission struct {
	Sentence string `json:"sentence" validate:"required"`
}

// LearningSessionSubmission acknowledges the guide steps the student worked
// through.
type LearningSessionSubmission struct {
	StepsCompleted []string `json:"steps_completed" validate:"required,min=1"`
}

// LyricSubmission records one play-through of a lyric lesson. A non-null
// score completes the assignment.
type LyricSubmission struct {
	ScorePercent     *float64 `json:"score_percent" validate:"omitempty,gte=0,lte=100"`
	TimeTakenSeconds int      `json:"time_taken_seconds" validate:"gte=0"`
}

// SubmitResult reports the updated assignment plus composer bookkeeping.
type SubmitResult struct {
	Assignment    AssignmentResponse `json:"assignment"`
	Correct       *bool              `json:"correct,omitempty"`
	TriesUsed     int                `json:"tries_used,omitempty"`
	TriesLeft     int                `json:"tries_left,omitempty"`
	ScoreRecorded bool               `json:"score_recorded,omitempty"`
}
