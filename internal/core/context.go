package core

import "strings"

// Assembler concatenates reranked chunks into the context block handed to
// the chat model.
type Assembler struct {
	charBudget int
}

// NewAssembler creates an Assembler. charBudget caps the assembled context
// length in characters, dropping whole chunks from the tail once the budget
// is reached; 0 disables capping.
func NewAssembler(charBudget int) *Assembler {
	return &Assembler{charBudget: charBudget}
}

// Assemble joins chunk texts in rank order, separated by a newline. Empty
// input yields an empty string; callers must treat that as "no relevant
// information" rather than prompting the model with empty context.
func (a *Assembler) Assemble(ranked []RankedChunk) string {
	var builder strings.Builder
	for i, rc := range ranked {
		addition := len(rc.Text)
		if i > 0 {
			addition++ // separator
		}
		if a.charBudget > 0 && builder.Len()+addition > a.charBudget && builder.Len() > 0 {
			break
		}
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(rc.Text)
	}
	return builder.String()
}
