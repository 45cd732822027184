package eval

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Refactoring is a named refactoring recognised in model output
type Refactoring string

const (
	RefactorExtractClass         Refactoring = "Extract Class"
	RefactorExtractMethod        Refactoring = "Extract Method"
	RefactorMoveMethod           Refactoring = "Move Method"
	RefactorMoveField            Refactoring = "Move Field"
	RefactorParameterObject      Refactoring = "Introduce Parameter Object"
	RefactorConditionalPolymorph Refactoring = "Replace Conditional with Polymorphism"
	RefactorIntroduceInterface   Refactoring = "Introduce Interface"
	RefactorEncapsulateField     Refactoring = "Encapsulate Field"
	RefactorReduceParameters     Refactoring = "Reduce Parameter List"
	RefactorFacade               Refactoring = "Facade"
	RefactorStrategy             Refactoring = "Strategy"
	RefactorObserver             Refactoring = "Observer"
)

// refactorTaxonomy maps each refactoring to the phrasings that name it
var refactorTaxonomy = map[Refactoring][]*regexp.Regexp{
	RefactorExtractClass:         compileAll(`extract class`, `split class`, `move cluster of methods`),
	RefactorExtractMethod:        compileAll(`extract method`, `split method`, `decompose`),
	RefactorMoveMethod:           compileAll(`move method`, `relocate method`, `move.*to (a )?class`),
	RefactorMoveField:            compileAll(`move field`, `relocate field`),
	RefactorParameterObject:      compileAll(`parameter object`, `introduce parameter object`),
	RefactorConditionalPolymorph: compileAll(`replace conditional with polymorphism`, `strategy pattern`),
	RefactorIntroduceInterface:   compileAll(`introduce interface`, `create interface`),
	RefactorEncapsulateField:     compileAll(`encapsulate field`, `make field private`, `getter|setter`),
	RefactorReduceParameters:     compileAll(`reduce parameter list`, `introduce builder`),
	RefactorFacade:               compileAll(`facade`),
	RefactorStrategy:             compileAll(`strategy pattern`),
	RefactorObserver:             compileAll(`observer pattern`),
}

// smellCues are phrases an explanation of a smell is expected to use
var smellCues = map[string][]string{
	"deficient encapsulation": {"public field", "exposes field", "mutable state", "information hiding"},
	"unnecessary abstraction": {"no methods", "few members", "redundant abstraction", "wrapper"},
	"unutilized abstraction":  {"unused", "dead code", "not referenced"},
	"god class":               {"many methods", "too many responsibilities", "high coupling", "low cohesion", "wmc", "cbo", "lcom"},
	"feature envy":            {"uses foreign data", "move method", "low cohesion", "high coupling to"},
	"long method":             {"too long", "many branches", "extract method", "cyclomatic"},
}

// Principles are the design principles counted as grounding
var Principles = []string{
	"single responsibility", "open-closed", "dependency inversion", "liskov", "interface segregation",
	"law of demeter", "cohesion", "coupling", "encapsulation", "polymorphism",
}

var (
	reasonWordPattern   = regexp.MustCompile(`[a-z]{4,}`)
	justificationRegexp = regexp.MustCompile(`(because|due to|therefore).*(cohesion|coupling|encapsulation|responsibilit)`)
	identPattern        = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\b`)
	bulletPattern       = regexp.MustCompile(`(?m)^(\s*[-*]|\s*\d+\.)`)
)

var reasonStopwords = map[string]bool{
	"this": true, "because": true, "that": true, "class": true, "following": true,
	"fields": true, "methods": true, "smell": true, "detected": true,
}

var identStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "this": true, "that": true,
	"from": true, "class": true, "method": true, "field": true, "public": true,
	"private": true, "protected": true, "return": true, "new": true, "null": true,
	"true": true, "false": true,
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// KeywordScore is the share of expected cues found in an explanation.
// Cues come from the smell type and the longer words of the detector's
// reason.
func KeywordScore(smellType, reason, explanation string) float64 {
	cues := make(map[string]bool)
	st := strings.ToLower(smellType)
	for smell, list := range smellCues {
		if strings.Contains(st, smell) {
			for _, c := range list {
				cues[c] = true
			}
		}
	}
	for _, w := range reasonWordPattern.FindAllString(strings.ToLower(reason), -1) {
		if !reasonStopwords[w] {
			cues[w] = true
		}
	}
	if len(cues) == 0 {
		return 0
	}

	text := strings.ToLower(explanation)
	hits := 0
	for c := range cues {
		if strings.Contains(text, c) {
			hits++
		}
	}
	return round3(float64(hits) / float64(len(cues)))
}

// PrincipleGrounding scores 0.5 for naming a principle and 0.5 for a
// causal sentence tying the smell to one.
func PrincipleGrounding(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.0
	for _, p := range Principles {
		if strings.Contains(lower, p) {
			score += 0.5
			break
		}
	}
	if justificationRegexp.MatchString(lower) {
		score += 0.5
	}
	return score
}

// TagRefactorings returns the refactorings named in text, sorted
func TagRefactorings(text string) []Refactoring {
	lower := strings.ToLower(text)
	var hits []Refactoring
	for label, patterns := range refactorTaxonomy {
		for _, p := range patterns {
			if p.MatchString(lower) {
				hits = append(hits, label)
				break
			}
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i] < hits[j] })
	return hits
}

// Identifiers returns the set of identifier-like tokens in text
func Identifiers(text string) map[string]bool {
	ids := make(map[string]bool)
	for _, m := range identPattern.FindAllString(text, -1) {
		ids[m] = true
	}
	return ids
}

// SharedIdentifiers counts identifiers of text that also occur in snippet
func SharedIdentifiers(snippet, text string) int {
	inSnippet := Identifiers(snippet)
	n := 0
	for id := range Identifiers(text) {
		if inSnippet[id] {
			n++
		}
	}
	return n
}

// IdentifierHallucinations lists identifiers in commentary that never
// occur in the snippet, ignoring a small stoplist.
func IdentifierHallucinations(snippet, commentary string) []string {
	inSnippet := Identifiers(snippet)
	var extra []string
	for id := range Identifiers(commentary) {
		if identStopwords[strings.ToLower(id)] || inSnippet[id] {
			continue
		}
		extra = append(extra, id)
	}
	sort.Strings(extra)
	return extra
}

// ReadabilityScore buckets the number of list items: 6+ is 3, 3+ is 2,
// any is 1.
func ReadabilityScore(text string) int {
	bullets := len(bulletPattern.FindAllString(text, -1))
	switch {
	case bullets >= 6:
		return 3
	case bullets >= 3:
		return 2
	case bullets >= 1:
		return 1
	default:
		return 0
	}
}
