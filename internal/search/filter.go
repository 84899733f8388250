package search

import (
	"strings"

	"vigia-data/internal/domain"
)

// Filters 查询条件（会话级，不持久化）
// Zero-value string fields mean "no filter". Score bounds are inclusive.
type Filters struct {
	SearchTerm   string `json:"searchTerm"`
	Distrito     string `json:"distrito"`
	RiskLevel    string `json:"riskLevel"`
	RiskScoreMin int    `json:"riskScoreMin"`
	RiskScoreMax int    `json:"riskScoreMax"`
}

// DefaultFilters 默认条件：全部通过
func DefaultFilters() Filters {
	return Filters{RiskScoreMin: 0, RiskScoreMax: 100}
}

// Filter narrows the catalog view, preserving input order. All four predicates
// are ANDed:
//   - free text: case-insensitive substring against id, name or address
//   - district: exact match against the derived district
//   - risk level: exact match
//   - score range: inclusive [min, max]
func Filter(residences []domain.Residence, f Filters) []domain.Residence {
	out := make([]domain.Residence, 0, len(residences))
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	for _, r := range residences {
		if term != "" {
			if !strings.Contains(strings.ToLower(r.ID), term) &&
				!strings.Contains(strings.ToLower(r.Name), term) &&
				!strings.Contains(strings.ToLower(r.Address), term) {
				continue
			}
		}
		if f.Distrito != "" && domain.DistrictOf(r.Address) != f.Distrito {
			continue
		}
		if f.RiskLevel != "" && r.RiskLevel != f.RiskLevel {
			continue
		}
		if r.RiskScore < f.RiskScoreMin || r.RiskScore > f.RiskScoreMax {
			continue
		}
		out = append(out, r)
	}
	return out
}
