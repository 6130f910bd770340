package logger

const (
	// FieldCandidate is the structured log field key for the resolved candidate identity.
	FieldCandidate = "candidate_id"
	// FieldStage is the structured log field key for the pipeline stage name.
	FieldStage = "stage"
)
