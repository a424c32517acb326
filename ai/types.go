package ai

// PolicyClassification categorizes the topic of a discussion segment.
type PolicyClassification struct {
	// MainCategory is the single primary policy area.
	MainCategory string

	// SubCategories are secondary policy areas, most relevant first.
	SubCategories []string

	// Keywords are free-form topic markers taken from the discussion.
	Keywords []string
}

// ExtractedStatement is one attributed utterance returned by the model.
type ExtractedStatement struct {
	// SpeakerName is the display name exactly as it appears in the
	// transcript. Resolution to an identity happens downstream.
	SpeakerName string

	// Text is the verbatim utterance.
	Text string

	// Score is the sentiment toward the segment's bill in [-1, 1].
	// Only meaningful when ScoreValid is set; the model may omit a score
	// or return one out of range, in which case ScoreValid is false.
	Score      float64
	ScoreValid bool

	// Reason is the model's short justification for the score.
	Reason string

	// PolicyTags are statement-level topic markers.
	PolicyTags []string
}

// Segment is one discussion segment of a session: a bill (or free-form
// topic) plus the statements made about it.
type Segment struct {
	// BillName is the discussed bill title or topic as the model read it.
	// Matched against registry listings downstream; unmatched names get a
	// synthetic bill.
	BillName string

	Classification PolicyClassification
	Statements     []ExtractedStatement
}
