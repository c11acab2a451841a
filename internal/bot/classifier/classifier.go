// Package classifier assigns an Intent (action + target entity type) to
// query text using a deterministic keyword ruleset. Queries the ruleset
// cannot resolve are reported as inconclusive so the orchestrator can try
// the fallback parser.
package classifier

import (
	"strings"
	"unicode"

	"talentops-bot/internal/models"
)

// verbActions maps verb keywords to actions. Immutable after init.
var verbActions = map[string]models.Action{
	"create":   models.ActionCreate,
	"add":      models.ActionCreate,
	"new":      models.ActionCreate,
	"generate": models.ActionCreate,
	"make":     models.ActionCreate,
	"log":      models.ActionCreate,
	"record":   models.ActionCreate,

	"show":    models.ActionRead,
	"get":     models.ActionRead,
	"display": models.ActionRead,
	"view":    models.ActionRead,
	"fetch":   models.ActionRead,
	"give":    models.ActionRead,

	"list":   models.ActionQuery,
	"find":   models.ActionQuery,
	"search": models.ActionQuery,
	"query":  models.ActionQuery,
	"filter": models.ActionQuery,

	"update": models.ActionUpdate,
	"change": models.ActionUpdate,
	"modify": models.ActionUpdate,
	"set":    models.ActionUpdate,
	"mark":   models.ActionUpdate,
	"move":   models.ActionUpdate,

	"delete": models.ActionDelete,
	"remove": models.ActionDelete,
	"drop":   models.ActionDelete,
}

// nounEntities maps noun keywords (singular form) to entity types.
var nounEntities = map[string]models.EntityType{
	"timesheet":  models.EntityTimesheet,
	"invoice":    models.EntityInvoice,
	"expense":    models.EntityExpense,
	"receipt":    models.EntityExpense,
	"project":    models.EntityProject,
	"talent":     models.EntityTalent,
	"contractor": models.EntityTalent,
	"freelancer": models.EntityTalent,
}

// Words that turn a later noun into a qualifier of the target rather
// than a competing target ("invoice FOR timesheet X").
var qualifierMarkers = map[string]bool{
	"for": true, "from": true, "of": true, "on": true, "to": true,
	"by": true, "and": true, "with": true, "per": true, "against": true,
	"in": true,
}

type nounHit struct {
	entity models.EntityType
	index  int
}

type Classifier struct{}

func New() *Classifier {
	return &Classifier{}
}

// Classify resolves the intent of text. The second return value reports
// whether the ruleset was conclusive: at least one verb keyword, exactly
// one target noun, and no unresolvable entity-type conflict. Inconclusive
// results carry the UNKNOWN intent and never an error.
func (c *Classifier) Classify(text string, ents models.ExtractedEntities) (models.Intent, bool) {
	tokens := tokenize(text)

	action := models.ActionUnknown
	for _, tok := range tokens {
		if a, ok := verbActions[tok]; ok {
			action = a
			break
		}
	}

	nouns := nounOccurrences(tokens)
	if len(nouns) == 0 {
		if inferred := inferFromEntities(ents); inferred != models.EntityUnknown && action != models.ActionUnknown {
			return models.Intent{Action: action, EntityType: inferred, Confidence: 0.7}, true
		}
		return models.UnknownIntent(), false
	}

	if action == models.ActionUnknown {
		return models.UnknownIntent(), false
	}

	target := nouns[0]
	for _, n := range nouns[1:] {
		if n.entity == target.entity {
			continue
		}
		if !isQualifier(tokens, n.index) {
			// Two nouns competing for the target slot: ambiguous.
			return models.UnknownIntent(), false
		}
	}

	return models.Intent{Action: action, EntityType: target.entity, Confidence: 0.9}, true
}

func nounOccurrences(tokens []string) []nounHit {
	var hits []nounHit
	for i, tok := range tokens {
		if ent, ok := nounEntities[singular(tok)]; ok {
			hits = append(hits, nounHit{entity: ent, index: i})
		}
	}
	return hits
}

// isQualifier reports whether the noun at idx is introduced by a
// preposition or conjunction within the two preceding tokens.
func isQualifier(tokens []string, idx int) bool {
	for back := 1; back <= 2; back++ {
		if idx-back < 0 {
			break
		}
		if qualifierMarkers[tokens[idx-back]] {
			return true
		}
	}
	return false
}

// inferFromEntities derives a target from an unambiguous identifier when
// the sentence carries no noun keyword ("show TS-202510-148").
func inferFromEntities(ents models.ExtractedEntities) models.EntityType {
	switch {
	case ents.TimesheetID != "":
		return models.EntityTimesheet
	case ents.InvoiceNumber != "":
		return models.EntityInvoice
	case ents.ExpenseID != "":
		return models.EntityExpense
	default:
		return models.EntityUnknown
	}
}

func singular(tok string) string {
	if len(tok) > 3 && strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss") {
		return tok[:len(tok)-1]
	}
	return tok
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}
