package snippet

import "strings"

// recordBody is the value side of a persisted snippet record. The field
// names are fixed by downstream consumers of the record files.
type recordBody struct {
	TargetFunction   string `json:"target_function"`
	ImportedFunction string `json:"imported_function"`
}

// Record is the serialized form of one snippet: a single-key mapping from
// the target declaration's name to its rendered parts, suitable for
// one-record-per-line storage.
type Record map[string]recordBody

// ToRecord converts the snippet into its persisted record shape.
func (s *Snippet) ToRecord() Record {
	deps := make([]string, 0, len(s.ImportedObjects))
	for _, d := range s.ImportedObjects {
		deps = append(deps, d.Text)
	}
	return Record{
		s.TargetObject.Name: {
			TargetFunction:   s.TargetObject.Text,
			ImportedFunction: strings.Join(deps, "\n\n"),
		},
	}
}
