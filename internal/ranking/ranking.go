package ranking

import (
	"fmt"
	"math"
	"sort"

	"vigia-data/internal/domain"
)

// 排序字段
type Field string

const (
	FieldRiskScore          Field = "riskScore"
	FieldThreatLevel        Field = "threatLevel"
	FieldVulnerabilityLevel Field = "vulnerabilityLevel"
)

// 排序方向
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseField 校验排序字段
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldRiskScore, FieldThreatLevel, FieldVulnerabilityLevel:
		return Field(s), nil
	case "":
		return FieldRiskScore, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// ParseOrder 校验排序方向
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case OrderAsc, OrderDesc:
		return Order(s), nil
	case "":
		return OrderDesc, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

func fieldValue(r domain.Residence, f Field) int {
	switch f {
	case FieldThreatLevel:
		return r.ThreatLevel
	case FieldVulnerabilityLevel:
		return r.VulnerabilityLevel
	default:
		return r.RiskScore
	}
}

// Rank 返回按指定字段排序的副本。稳定排序：字段值相同的记录保持目录原序。
func Rank(view []domain.Residence, field Field, order Order) []domain.Residence {
	out := make([]domain.Residence, len(view))
	copy(out, view)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := fieldValue(out[i], field), fieldValue(out[j], field)
		if order == OrderAsc {
			return a < b
		}
		return a > b
	})
	return out
}

// ViewStats 当前视图（通常是过滤结果）的聚合统计。
// Count == 0 时其余字段均为零值；调用方必须先判空再展示，
// 不允许对空集合做除法或 min/max。
type ViewStats struct {
	Count int `json:"count"`

	AvgRisk          float64 `json:"avgRisk"`
	AvgThreat        float64 `json:"avgThreat"`
	AvgVulnerability float64 `json:"avgVulnerability"`
	MinRisk          int     `json:"minRisk"`
	MaxRisk          int     `json:"maxRisk"`

	RiesgoBajo  int `json:"riesgoBajo"`
	RiesgoMedio int `json:"riesgoMedio"`
	RiesgoAlto  int `json:"riesgoAlto"`

	Critical       int `json:"critical"`       // riskScore >= 70
	NeedsAttention int `json:"needsAttention"` // riskScore >= 50
	Compliant      int `json:"compliant"`      // riskScore < 50
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Compute 计算视图统计；空视图返回 Count=0 的零值结果
func Compute(view []domain.Residence) ViewStats {
	stats := ViewStats{Count: len(view)}
	if len(view) == 0 {
		return stats
	}

	var sumRisk, sumThreat, sumVuln int
	stats.MinRisk = view[0].RiskScore
	stats.MaxRisk = view[0].RiskScore
	for _, r := range view {
		sumRisk += r.RiskScore
		sumThreat += r.ThreatLevel
		sumVuln += r.VulnerabilityLevel
		if r.RiskScore < stats.MinRisk {
			stats.MinRisk = r.RiskScore
		}
		if r.RiskScore > stats.MaxRisk {
			stats.MaxRisk = r.RiskScore
		}
		switch r.RiskLevel {
		case domain.RiskLevelBajo:
			stats.RiesgoBajo++
		case domain.RiskLevelMedio:
			stats.RiesgoMedio++
		case domain.RiskLevelAlto:
			stats.RiesgoAlto++
		}
		if r.RiskScore >= domain.CriticalRiskScore {
			stats.Critical++
		}
		if r.RiskScore >= domain.AttentionRiskScore {
			stats.NeedsAttention++
		} else {
			stats.Compliant++
		}
	}
	n := float64(len(view))
	stats.AvgRisk = round1(float64(sumRisk) / n)
	stats.AvgThreat = round1(float64(sumThreat) / n)
	stats.AvgVulnerability = round1(float64(sumVuln) / n)
	return stats
}

// DistrictStat 区级汇总
type DistrictStat struct {
	Distrito string  `json:"distrito"`
	Count    int     `json:"count"`
	AvgRisk  float64 `json:"avgRisk"`
}

// districtSummaryLimit 高管视图只展示风险最高的前 5 个区
const districtSummaryLimit = 5

// DistrictSummary groups the view by derived district, computes per-group
// count and mean risk, sorts by mean risk descending and caps to the top 5.
func DistrictSummary(view []domain.Residence) []DistrictStat {
	type acc struct {
		count int
		sum   int
	}
	groups := map[string]*acc{}
	order := []string{} // first-appearance order keeps ties deterministic
	for _, r := range view {
		d := domain.DistrictOf(r.Address)
		g, ok := groups[d]
		if !ok {
			g = &acc{}
			groups[d] = g
			order = append(order, d)
		}
		g.count++
		g.sum += r.RiskScore
	}

	out := make([]DistrictStat, 0, len(order))
	for _, d := range order {
		g := groups[d]
		out = append(out, DistrictStat{
			Distrito: d,
			Count:    g.count,
			AvgRisk:  round1(float64(g.sum) / float64(g.count)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgRisk > out[j].AvgRisk })
	if len(out) > districtSummaryLimit {
		out = out[:districtSummaryLimit]
	}
	return out
}

// TopRisk 风险最高的前 n 条记录
func TopRisk(view []domain.Residence, n int) []domain.Residence {
	ranked := Rank(view, FieldRiskScore, OrderDesc)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
