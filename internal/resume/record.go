package resume

// Record is the structured form of a résumé produced by the extractor. It is
// the only shape the rest of the pipeline accepts; anything the model returns
// outside of it is discarded by the validation gate.
type Record struct {
	Contact    Contact
	Experience []Experience
	Projects   []Project
}

// Contact holds the candidate's contact block.
type Contact struct {
	Name  string
	Email string
}

// Experience is a single job episode with the skills exercised in it.
type Experience struct {
	Role        string
	Company     string
	Description string
	SkillsUsed  []string
}

// Project is a personal or professional project with its tech stack.
type Project struct {
	Title     string
	TechStack []string
}
