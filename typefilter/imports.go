package typefilter

import "github.com/teranos/rankd/proposal"

// ImportCompletion detects candidates proposed inside an import declaration.
// Their completion text ends with the statement terminator or a package
// separator.
type ImportCompletion struct{}

// IsImportCompletion implements complete.ImportDetector.
func (ImportCompletion) IsImportCompletion(c proposal.Candidate) bool {
	text := c.Completion
	if text == "" {
		return false
	}
	last := text[len(text)-1]
	return last == ';' || last == '.'
}
