package interview

// StageDefinition is one named phase of the interview with its own question
// style and scoring focus.
type StageDefinition struct {
	Name    string
	Purpose string
	Style   string
	Focus   string
}

// DefaultStages is the fixed interview progression.
func DefaultStages() []StageDefinition {
	return []StageDefinition{
		{
			Name:    "introduction",
			Purpose: "put the candidate at ease and learn their background and motivation",
			Style:   "warm, open-ended, no technical depth",
			Focus:   "clarity of self-presentation and genuine interest in the role",
		},
		{
			Name:    "experience",
			Purpose: "explore past roles, projects and concrete contributions",
			Style:   "ask for specific examples and outcomes from the resume",
			Focus:   "relevance and depth of prior experience",
		},
		{
			Name:    "technical",
			Purpose: "probe the core skills the job description demands",
			Style:   "concrete technical scenarios, ask how and why",
			Focus:   "technical correctness and reasoning",
		},
		{
			Name:    "role_specific",
			Purpose: "test fit against the specific responsibilities of this position",
			Style:   "situational questions grounded in the job description",
			Focus:   "judgment applied to this role's actual duties",
		},
		{
			Name:    "behavioral",
			Purpose: "assess collaboration, conflict handling and ownership",
			Style:   "past-behavior questions, ask what they did and what happened",
			Focus:   "self-awareness and teamwork signals",
		},
		{
			Name:    "closing",
			Purpose: "wrap up, surface anything the candidate wants to add",
			Style:   "brief, forward-looking, give space for their questions",
			Focus:   "overall impression and communication",
		},
	}
}

// fallbackQuestions are served when the model is unreachable, keyed by stage.
var fallbackQuestions = map[string]string{
	"introduction":  "Could you walk me through your background and what drew you to this role?",
	"experience":    "That's interesting. Can you tell me more about your most relevant experience?",
	"technical":     "Can you describe a technically challenging problem you solved and how you approached it?",
	"role_specific": "How would you apply your skills to the day-to-day responsibilities of this position?",
	"behavioral":    "Tell me about a time you disagreed with a teammate. How did you handle it?",
	"closing":       "What is your greatest strength for this role?",
}

// FallbackQuestion returns the static question for a stage. Unknown stages get
// the closing fallback so the interview can always continue.
func FallbackQuestion(stage string) string {
	if q, ok := fallbackQuestions[stage]; ok {
		return q
	}
	return fallbackQuestions["closing"]
}

// StageTracker maps the number of questions asked so far onto a stage index.
// Pure and total over non-negative counts; the mapping is non-decreasing.
type StageTracker struct {
	stages            []StageDefinition
	questionsPerStage int
}

func NewStageTracker(stages []StageDefinition, maxQuestions int) *StageTracker {
	per := maxQuestions / len(stages)
	if per < 1 {
		per = 1
	}
	return &StageTracker{stages: stages, questionsPerStage: per}
}

func (t *StageTracker) Stages() []StageDefinition { return t.stages }

// StageIndex returns the stage for question number questionsAsked. Question 1
// is the first question; 0 means the interview has not started and maps to the
// opening stage.
func (t *StageTracker) StageIndex(questionsAsked int) int {
	if questionsAsked <= 0 {
		return 0
	}
	idx := (questionsAsked - 1) / t.questionsPerStage
	if idx > len(t.stages)-1 {
		idx = len(t.stages) - 1
	}
	return idx
}

func (t *StageTracker) StageFor(questionsAsked int) StageDefinition {
	return t.stages[t.StageIndex(questionsAsked)]
}
