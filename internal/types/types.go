package types

// SectionMap is the loosely-typed mapping the LLM returns for a resume:
// canonical section keys to heterogeneous content (strings, lists of
// records, nested records). Extraction is permissive and never fabricates
// missing keys; consumers must default them.
type SectionMap = map[string]any

// Canonical section keys requested from the extraction prompt. Every key
// SHOULD be present in a successful response but none is guaranteed.
const (
	SectionSummary         = "Professional_Summary"
	SectionTotalExperience = "Total_experience"
	SectionExperience      = "Professional_Experience"
	SectionCareerGap       = "Professional_Career_Gap"
	SectionEducation       = "Education"
	SectionCertifications  = "Certifications"
	SectionSkills          = "Skills"
	SectionProjects        = "Projects"
	SectionAwards          = "Awards_and_Achievements"
	SectionCompetitions    = "Competitions"
	SectionExtracurricular = "Extracurricular_Activities"
	SectionVolunteer       = "Volunteer_Experience"
	SectionPublications    = "Publications"
	SectionInterests       = "Interests"
	SectionLanguages       = "Languages"
	SectionReferences      = "References"
	SectionSocialLinks     = "Social_Links"
	SectionOthers          = "Others"
	SkillsFieldTechnical   = "Technical_Skills"
	SkillsFieldSoft        = "Soft_Skills"
)

// CanonicalSections lists every section key the extraction prompt requests,
// in schema order.
var CanonicalSections = []string{
	SectionSummary,
	SectionTotalExperience,
	SectionExperience,
	SectionCareerGap,
	SectionEducation,
	SectionCertifications,
	SectionSkills,
	SectionProjects,
	SectionAwards,
	SectionCompetitions,
	SectionExtracurricular,
	SectionVolunteer,
	SectionPublications,
	SectionInterests,
	SectionLanguages,
	SectionReferences,
	SectionSocialLinks,
	SectionOthers,
}

// RequiredSections are the minimum viable fields a section map must carry
// before entity derivation is attempted.
var RequiredSections = []string{SectionSummary, SectionTotalExperience, SectionSkills}

// WorkExperience is one flattened professional-experience entry.
type WorkExperience struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

// EntityRecord is the derived, flattened view of a parsed resume. Empty or
// missing fields are normalized to the "-" placeholder at render time so
// consumers can rely on a fixed row set.
type EntityRecord struct {
	Summary         string           `json:"summary"`
	TotalExperience string           `json:"totalExperience"`
	WorkExperience  []WorkExperience `json:"workExperience"`
	CareerGap       string           `json:"careerGap"`
	Awards          []string         `json:"awards"`
	HighestDegree   string           `json:"highestDegree"`
	Institution     string           `json:"institution"`
	GraduationDate  string           `json:"graduationDate"`
	TechnicalSkills []string         `json:"technicalSkills"`
	SoftSkills      []string         `json:"softSkills"`
	Projects        []string         `json:"projects"`
	Certifications  []string         `json:"certifications"`
	Competitions    []string         `json:"competitions"`
	Publications    []string         `json:"publications"`
	References      []string         `json:"references"`
	Languages       []string         `json:"languages"`
}

// SpellingCorrection is one flagged misspelling. The incorrect and correct
// sides are guaranteed to differ after trimming.
type SpellingCorrection struct {
	Incorrect string `json:"incorrect_word"`
	Correct   string `json:"correct_word"`
}

// AnalysisResult holds the outcome of the quality checks.
type AnalysisResult struct {
	MissingSections     []string             `json:"missingSections"`
	SpellingCorrections []SpellingCorrection `json:"spellingCorrections"`
}

// QuestionRequest is a validated interview-question generation request.
type QuestionRequest struct {
	Model        string   `json:"model"`
	Skills       []string `json:"skills"`
	AdhocSkill   string   `json:"adhocSkill"`
	NumQuestions int      `json:"numQuestions"`
	YearsOfExp   int      `json:"yoe"`
}

// QuestionResult is an ordered sequence of at most NumQuestions generated
// questions. Fewer entries than requested is a soft failure the caller must
// tolerate.
type QuestionResult struct {
	Questions []string `json:"questions"`
}

// / ParseResult is the service-boundary output of a full parse: the rendered
// entity report and the rendered quality-check report.
type ParseResult struct {
	ResultReport string `json:"result_table"`
	IssueReport  string `json:"issue_table"`
}
