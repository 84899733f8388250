package mapview

import (
	"sort"
	"strconv"

	"vigia-data/internal/domain"
)

// Marker 地图标记（渲染交给前端地图引擎，这里只组装数据）
type Marker struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Kind     string  `json:"kind"` // residencia | clinicas | comisarias | serenazgo
	Color    string  `json:"color"`
	Distrito string  `json:"distrito"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// 标记颜色按风险级别取色
func colorForRiskLevel(level string) string {
	switch level {
	case domain.RiskLevelAlto:
		return "red"
	case domain.RiskLevelMedio:
		return "yellow"
	case domain.RiskLevelBajo:
		return "green"
	default:
		return "gray"
	}
}

const serviceMarkerColor = "blue"

// ResidenceMarkers 住宅标记：坐标来自已核实坐标表，没有坐标的住宅不出现在地图上
func ResidenceMarkers(view []domain.Residence, locationOf func(id string) (domain.ResidenceLocation, bool)) []Marker {
	markers := make([]Marker, 0, len(view))
	for _, r := range view {
		loc, ok := locationOf(r.ID)
		if !ok {
			continue
		}
		markers = append(markers, Marker{
			ID:       r.ID,
			Label:    r.ID + " - " + r.Name,
			Kind:     "residencia",
			Color:    colorForRiskLevel(r.RiskLevel),
			Distrito: loc.Distrito,
			Lat:      loc.Coord.Lat,
			Lng:      loc.Coord.Lng,
		})
	}
	return markers
}

// ServiceMarkers 区级服务标记（诊所/警局/市政巡逻）
func ServiceMarkers(coords map[string]domain.DistrictServiceCoords) []Marker {
	markers := []Marker{}
	for districtKey, byKind := range coords {
		for kind, points := range byKind {
			for i, p := range points {
				markers = append(markers, Marker{
					ID:       districtKey + ":" + kind + ":" + strconv.Itoa(i),
					Label:    kind,
					Kind:     kind,
					Color:    serviceMarkerColor,
					Distrito: districtKey,
					Lat:      p.Lat,
					Lng:      p.Lng,
				})
			}
		}
	}
	// map iteration order is random; keep the payload stable
	sort.Slice(markers, func(i, j int) bool { return markers[i].ID < markers[j].ID })
	return markers
}
