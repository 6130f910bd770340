package audit

// Classification buckets for a required skill.
const (
	ClassDirect      = "direct_match"
	ClassCategorical = "categorical_match"
	ClassMissing     = "missing"
)

// Assessment levels derived from the match rate.
const (
	AssessmentStrong  = "strong"
	AssessmentPartial = "partial"
	AssessmentWeak    = "weak"

	strongThreshold  = 0.75
	partialThreshold = 0.40
)

// Finding is the classification of one required skill.
type Finding struct {
	Skill          string `json:"skill"`
	Classification string `json:"classification"`
	// Evidence names the graph facts supporting the classification, e.g.
	// the owned sibling skill and category for a categorical match.
	Evidence string `json:"evidence,omitempty"`
}

// Report is the gap analysis consumed by downstream reasoning agents. All
// fields are always populated; a degraded run carries zeroed values and a
// non-empty Err marker, so consumers only ever need to check Err.
type Report struct {
	Skills      []Finding `json:"skills"`
	Direct      int       `json:"direct"`
	Categorical int       `json:"categorical"`
	Missing     int       `json:"missing"`
	// MatchRate is (direct + categorical) / required, in [0, 1]. Zero when
	// nothing is required.
	MatchRate  float64 `json:"match_rate"`
	Assessment string  `json:"assessment"`
	// NoEvidence is set when the graph holds no skill evidence for the
	// candidate at all.
	NoEvidence bool   `json:"no_evidence"`
	Err        string `json:"error,omitempty"`
}

// finalize recomputes the summary fields from the findings. Counts are never
// taken from a model response.
func finalize(report *Report) *Report {
	report.Direct, report.Categorical, report.Missing = 0, 0, 0
	for _, finding := range report.Skills {
		switch finding.Classification {
		case ClassDirect:
			report.Direct++
		case ClassCategorical:
			report.Categorical++
		default:
			report.Missing++
		}
	}

	total := len(report.Skills)
	if total > 0 {
		report.MatchRate = float64(report.Direct+report.Categorical) / float64(total)
	} else {
		report.MatchRate = 0
	}

	switch {
	case report.MatchRate >= strongThreshold:
		report.Assessment = AssessmentStrong
	case report.MatchRate >= partialThreshold:
		report.Assessment = AssessmentPartial
	default:
		report.Assessment = AssessmentWeak
	}

	return report
}

// degradedReport returns a well-formed report with every required skill
// classified as missing and the error marker set.
func degradedReport(required []string, errMsg string) *Report {
	report := &Report{
		Skills: make([]Finding, 0, len(required)),
		Err:    errMsg,
	}
	for _, skill := range required {
		report.Skills = append(report.Skills, Finding{Skill: skill, Classification: ClassMissing})
	}
	return finalize(report)
}
