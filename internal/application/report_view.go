package application

import "github.com/openkraft/domainlint/internal/domain"

// ReportView is the serialisable form of a LintReport with every location
// resolved. Shared by the JSON output and the MCP tools.
type ReportView struct {
	Root       string      `json:"root"`
	Commit     string      `json:"commit,omitempty"`
	Count      int         `json:"count"`
	Violations int         `json:"violations"`
	Groups     []GroupView `json:"groups"`
}

type GroupView struct {
	Kind       domain.ViolationKind `json:"kind"`
	Key        string               `json:"key"`
	Message    string               `json:"message"`
	Violations []ViolationView      `json:"violations"`
}

type ViolationView struct {
	Importer string          `json:"importer"`
	Imported string          `json:"imported"`
	Location domain.Location `json:"location"`
}

// NewReportView resolves the location of every violation in r. A location
// that cannot be resolved fails the whole view.
func NewReportView(r *domain.LintReport) (*ReportView, error) {
	view := &ReportView{
		Root:       r.Root,
		Commit:     r.Commit,
		Count:      len(r.Groups),
		Violations: r.ViolationCount(),
		Groups:     make([]GroupView, 0, len(r.Groups)),
	}
	for _, g := range r.Groups {
		gv := GroupView{
			Kind:       g.Kind,
			Key:        g.Key,
			Message:    g.Message,
			Violations: make([]ViolationView, 0, len(g.Violations)),
		}
		for _, v := range g.Violations {
			loc, err := v.Location()
			if err != nil {
				return nil, err
			}
			gv.Violations = append(gv.Violations, ViolationView{
				Importer: string(v.Importer),
				Imported: string(v.Imported),
				Location: loc,
			})
		}
		view.Groups = append(view.Groups, gv)
	}
	return view, nil
}
