// Package engine evaluates question visibility and completion
// progress for an assessment. It is a pure computation layer: no I/O,
// no stored state beyond the question set indexes, and every function
// is total. Malformed rule data resolves to "visible" so a data
// defect can never hide a valid question.
package engine

import (
	"math"
	"reflect"

	"continuity-api/internal/model"
)

// Engine holds an indexed question set. The three assessment
// families (resiliency, gap, maturity) share this one engine; their
// gating differences are carried entirely by each question's
// VisibilityRule.
type Engine struct {
	questions []model.Question
	byID      map[string]model.Question
	byCatLvl  map[string]map[int][]model.Question
	// dependsOn question ID -> IDs of questions conditioned on it
	dependents map[string][]string
}

// New builds an engine over the given ordered question set
func New(questions []model.Question) *Engine {
	e := &Engine{
		questions:  questions,
		byID:       make(map[string]model.Question, len(questions)),
		byCatLvl:   make(map[string]map[int][]model.Question),
		dependents: make(map[string][]string),
	}
	for _, q := range questions {
		e.byID[q.ID] = q
		if q.MaturityLevel > 0 {
			levels := e.byCatLvl[q.CategoryID]
			if levels == nil {
				levels = make(map[int][]model.Question)
				e.byCatLvl[q.CategoryID] = levels
			}
			levels[q.MaturityLevel] = append(levels[q.MaturityLevel], q)
		}
		if q.Rule != nil && q.Rule.Kind == model.RuleConditional && q.Rule.DependsOn != "" {
			e.dependents[q.Rule.DependsOn] = append(e.dependents[q.Rule.DependsOn], q.ID)
		}
	}
	return e
}

// Questions returns the full ordered question set
func (e *Engine) Questions() []model.Question {
	return e.questions
}

// Category returns the ordered questions of one category
func (e *Engine) Category(categoryID string) []model.Question {
	var out []model.Question
	for _, q := range e.questions {
		if q.CategoryID == categoryID {
			out = append(out, q)
		}
	}
	return out
}

// IsVisible reports whether the question is currently eligible to be
// shown and answered given the recorded responses.
func (e *Engine) IsVisible(q model.Question, responses model.ResponseSet) bool {
	if q.Rule == nil {
		return true
	}
	switch q.Rule.Kind {
	case model.RuleLevel:
		return e.levelVisible(q, responses)
	case model.RuleConditional:
		return e.conditionalVisible(q, responses)
	default:
		// Unknown rule kind: fail open
		return true
	}
}

// levelVisible: every same-category question one maturity level down
// must hold a qualifying response. Level 1 questions are always
// visible.
func (e *Engine) levelVisible(q model.Question, responses model.ResponseSet) bool {
	if q.MaturityLevel <= 1 {
		return true
	}
	prereqs := e.byCatLvl[q.CategoryID][q.MaturityLevel-1]
	for _, p := range prereqs {
		resp, ok := responses[p.ID]
		if !ok || !Qualifies(p, resp) {
			return false
		}
	}
	return true
}

func (e *Engine) conditionalVisible(q model.Question, responses model.ResponseSet) bool {
	rule := q.Rule
	if rule.DependsOn == "" {
		return true
	}
	if _, known := e.byID[rule.DependsOn]; !known {
		// Dangling dependency reference: fail open
		return true
	}
	resp, ok := responses[rule.DependsOn]
	if !ok || resp.Value == nil {
		return false
	}
	switch rule.Operator {
	case model.OpEquals:
		return valuesEqual(resp.Value, rule.Value)
	case model.OpNotEquals:
		return !valuesEqual(resp.Value, rule.Value)
	case model.OpGreaterThan:
		a, aok := numeric(resp.Value)
		b, bok := numeric(rule.Value)
		return aok && bok && a > b
	case model.OpLessThan:
		a, aok := numeric(resp.Value)
		b, bok := numeric(rule.Value)
		return aok && bok && a < b
	default:
		// Unknown operator: fail open
		return true
	}
}

// Qualifies reports whether a response counts as a qualifying answer
// for level gating: boolean true, scale value of 4 or more, or the
// last (best) option of a multi_choice list. Other types qualify
// automatically.
func Qualifies(q model.Question, resp model.Response) bool {
	if !resp.HasValue() {
		return false
	}
	switch q.Type {
	case model.QuestionTypeBoolean:
		b, ok := resp.Value.(bool)
		return ok && b
	case model.QuestionTypeScale:
		n, ok := numeric(resp.Value)
		return ok && n >= 4
	case model.QuestionTypeMultiChoice:
		s, ok := resp.Value.(string)
		return ok && s != "" && s == q.BestChoice()
	default:
		return true
	}
}

// Progress computes the completion percentage over the given scope:
// round(100 * visible-and-answered / total in scope). Responses to
// hidden questions never count. Empty scope yields 0.
func (e *Engine) Progress(scope []model.Question, responses model.ResponseSet) int {
	if len(scope) == 0 {
		return 0
	}
	answered := 0
	for _, q := range scope {
		if e.IsVisible(q, responses) && responses.Answered(q.ID) {
			answered++
		}
	}
	return int(math.Round(100 * float64(answered) / float64(len(scope))))
}

// OverallProgress is Progress over the full question set
func (e *Engine) OverallProgress(responses model.ResponseSet) int {
	return e.Progress(e.questions, responses)
}

// CategoryProgress is Progress over one category
func (e *Engine) CategoryProgress(categoryID string, responses model.ResponseSet) int {
	return e.Progress(e.Category(categoryID), responses)
}

// WeightedScore is the weight-proportional completion of a category:
// sum of weights of visible answered questions over the total weight
// of visible questions, as a percentage. Used by dashboards where
// heavier questions should move the needle more.
func (e *Engine) WeightedScore(categoryID string, responses model.ResponseSet) float64 {
	var total, answered float64
	for _, q := range e.Category(categoryID) {
		if !e.IsVisible(q, responses) {
			continue
		}
		total += q.Weight
		if responses.Answered(q.ID) {
			answered += q.Weight
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * answered / total
}

// Visible filters the scope down to currently visible questions
func (e *Engine) Visible(scope []model.Question, responses model.ResponseSet) []model.Question {
	var out []model.Question
	for _, q := range scope {
		if e.IsVisible(q, responses) {
			out = append(out, q)
		}
	}
	return out
}

func valuesEqual(a, b interface{}) bool {
	// Numeric values compare by magnitude so a stored int matches a
	// JSON-decoded float64.
	if an, aok := numeric(a); aok {
		if bn, bok := numeric(b); bok {
			return an == bn
		}
		return false
	}
	if a == nil || b == nil {
		return a == b
	}
	// Uncomparable values (JSON arrays, maps) would make == panic
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}

func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
