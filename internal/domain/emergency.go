package domain

// DistrictServices 每个区的紧急服务目录（按目录键索引，如 "SAN_ISIDRO"）
// Entries are raw directory strings; a clinic entry may be "-" when the slot
// has no verified provider.
type DistrictServices struct {
	Comisarias []string `json:"comisarias"`
	Bomberos   []string `json:"bomberos"`
	Clinicas   []string `json:"clinicas"`
}

// LatLng 地图坐标
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ResidenceLocation 已核实的住宅坐标
type ResidenceLocation struct {
	Coord    LatLng `json:"coord"`
	Distrito string `json:"distrito"`
}

// DistrictServiceCoords 每个区各类服务的已核实坐标
// keys: "clinicas", "comisarias", "serenazgo"
type DistrictServiceCoords map[string][]LatLng
