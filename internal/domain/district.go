package domain

import (
	"strings"
)

// UnknownDistrict 地址无法解析时的默认值（不是错误）
const UnknownDistrict = "DESCONOCIDO"

// DistrictOf derives the district from a residence address: the final
// comma-separated segment, trimmed and upper-cased. This is the only place the
// parsing lives; every consumer (search, ranking, ETA, map) goes through it.
// An address without a comma yields UnknownDistrict.
func DistrictOf(address string) string {
	idx := strings.LastIndex(address, ",")
	if idx < 0 {
		return UnknownDistrict
	}
	district := strings.ToUpper(strings.TrimSpace(address[idx+1:]))
	if district == "" {
		return UnknownDistrict
	}
	return district
}

// DirectoryKey normalizes a derived district for directory lookups:
// whitespace runs become underscores ("SANTIAGO DE SURCO" -> "SANTIAGO_DE_SURCO").
func DirectoryKey(district string) string {
	return strings.Join(strings.Fields(strings.ToUpper(district)), "_")
}
