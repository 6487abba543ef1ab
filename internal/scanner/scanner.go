// Package scanner selects the declarations a round should consider.
package scanner

import "github.com/toyz/injector/internal/models"

// Scan returns the declarations that carry at least one marker, keeping the
// order in which the host presented them. Invalid markers still count so the
// validator can report them.
func Scan(decls []models.Declaration) []models.Declaration {
	var candidates []models.Declaration
	for _, decl := range decls {
		if decl == nil {
			continue
		}
		if len(decl.Markers()) > 0 {
			candidates = append(candidates, decl)
		}
	}
	return candidates
}
