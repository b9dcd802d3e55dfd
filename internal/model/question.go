package model

// QuestionType defines the kind of answer a question collects
type QuestionType string

const (
	QuestionTypeBoolean     QuestionType = "boolean"      // Yes/no
	QuestionTypeScale       QuestionType = "scale"        // Numeric rating, usually 1-5
	QuestionTypeText        QuestionType = "text"         // Free text
	QuestionTypeDate        QuestionType = "date"         // ISO date string
	QuestionTypeMultiChoice QuestionType = "multi_choice" // One of a fixed option list
)

// Operator is the comparison applied by an explicit dependency rule
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
)

// RuleKind tags the visibility strategy a question uses
type RuleKind string

const (
	// RuleLevel gates a question behind qualifying answers to every
	// same-category question one maturity level below it.
	RuleLevel RuleKind = "level"
	// RuleConditional gates a question behind a comparison against
	// another question's answer.
	RuleConditional RuleKind = "conditional"
)

// VisibilityRule decides whether a question is currently answerable.
// Kind selects the strategy; DependsOn, Operator and Value apply to
// RuleConditional only.
type VisibilityRule struct {
	Kind      RuleKind    `json:"kind" bson:"kind"`
	DependsOn string      `json:"dependsOnQuestionId,omitempty" bson:"dependsOnQuestionId,omitempty"`
	Operator  Operator    `json:"operator,omitempty" bson:"operator,omitempty"`
	Value     interface{} `json:"comparisonValue,omitempty" bson:"comparisonValue,omitempty"`
}

// QuestionOptions carries the type-specific configuration
type QuestionOptions struct {
	ScaleMin    int      `json:"scaleMin,omitempty" bson:"scaleMin,omitempty"`
	ScaleMax    int      `json:"scaleMax,omitempty" bson:"scaleMax,omitempty"`
	ScaleStep   int      `json:"scaleStep,omitempty" bson:"scaleStep,omitempty"`
	ScaleLabels []string `json:"scaleLabels,omitempty" bson:"scaleLabels,omitempty"`
	Choices     []string `json:"choices,omitempty" bson:"choices,omitempty"` // multi_choice, ordered worst to best
}

// EvidenceRequirements constrains evidence attachments for a question
type EvidenceRequirements struct {
	MinFiles     int      `json:"minFiles,omitempty" bson:"minFiles,omitempty"`
	MaxFiles     int      `json:"maxFiles,omitempty" bson:"maxFiles,omitempty"`
	MaxSizeBytes int64    `json:"maxSizeBytes,omitempty" bson:"maxSizeBytes,omitempty"`
	AllowedTypes []string `json:"allowedTypes,omitempty" bson:"allowedTypes,omitempty"`
}

// Question is a single assessment question definition
type Question struct {
	ID               string                `json:"id" bson:"_id"`
	AssessmentType   AssessmentType        `json:"assessmentType" bson:"assessmentType"`
	CategoryID       string                `json:"categoryId" bson:"categoryId"`
	Type             QuestionType          `json:"type" bson:"type"`
	Prompt           string                `json:"prompt" bson:"prompt"`
	Options          QuestionOptions       `json:"options,omitempty" bson:"options,omitempty"`
	Weight           float64               `json:"weight" bson:"weight"`
	MaturityLevel    int                   `json:"maturityLevel,omitempty" bson:"maturityLevel,omitempty"`
	Rule             *VisibilityRule       `json:"visibilityRule,omitempty" bson:"visibilityRule,omitempty"`
	EvidenceRequired bool                  `json:"evidenceRequired" bson:"evidenceRequired"`
	Evidence         *EvidenceRequirements `json:"evidenceRequirements,omitempty" bson:"evidenceRequirements,omitempty"`
	Order            int                   `json:"order" bson:"order"`
}

// BestChoice returns the last entry of the option list, which by
// convention is the strongest answer. Empty string when the question
// has no options.
func (q *Question) BestChoice() string {
	if len(q.Options.Choices) == 0 {
		return ""
	}
	return q.Options.Choices[len(q.Options.Choices)-1]
}
