package eta

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"vigia-data/internal/domain"
)

// ServiceType 查询的服务类别
type ServiceType string

const (
	ServiceAll        ServiceType = "all"
	ServicePolicia    ServiceType = "policia"
	ServiceBomberos   ServiceType = "bomberos"
	ServiceAmbulancia ServiceType = "ambulancia"
)

// ValidServiceType 校验查询参数
func ValidServiceType(s string) bool {
	switch ServiceType(s) {
	case ServiceAll, ServicePolicia, ServiceBomberos, ServiceAmbulancia:
		return true
	}
	return false
}

// 到达时间的定性评级
const (
	StatusExcellent  = "excellent"
	StatusGood       = "good"
	StatusAcceptable = "acceptable"
	StatusCritical   = "critical"
)

// Result 单个服务的到达时间估算
type Result struct {
	ResidenceID   string  `json:"residenceId"`
	ResidenceName string  `json:"residenceName"`
	Distrito      string  `json:"distrito"`
	ServiceType   string  `json:"serviceType"` // 展示用: Policía / Bomberos / Ambulancia
	ServiceName   string  `json:"serviceName"`
	Distance      float64 `json:"distance"`      // km（由目录位置合成，不是真实路径）
	EstimatedTime int     `json:"estimatedTime"` // minutos
	Status        string  `json:"status"`
}

// profile 每类服务的启发式参数。
// The distance model is an explicit simulation: the i-th directory entry is
// assumed to sit base+i*increment km away, converted to minutes at a fixed
// city speed. There is no routing engine behind this.
type profile struct {
	label      string
	base       float64 // km, first directory entry
	increment  float64 // km per further entry
	speed      float64 // km/h
	excellent  int     // minutes, inclusive upper bounds
	good       int
	acceptable int
}

var (
	policiaProfile    = profile{label: "Policía", base: 1.5, increment: 0.8, speed: 40, excellent: 5, good: 10, acceptable: 15}
	bomberosProfile   = profile{label: "Bomberos", base: 2.0, increment: 1.2, speed: 45, excellent: 6, good: 12, acceptable: 18}
	ambulanciaProfile = profile{label: "Ambulancia", base: 1.8, increment: 0.9, speed: 42, excellent: 5, good: 10, acceptable: 15}
)

func (p profile) estimate(index int) (distance float64, minutes int) {
	distance = p.base + float64(index)*p.increment
	minutes = int(math.Round(distance / p.speed * 60))
	return distance, minutes
}

func (p profile) bucket(minutes int) string {
	switch {
	case minutes <= p.excellent:
		return StatusExcellent
	case minutes <= p.good:
		return StatusGood
	case minutes <= p.acceptable:
		return StatusAcceptable
	default:
		return StatusCritical
	}
}

var multiSpace = regexp.MustCompile(`\s{2,}`)

// comisaría directory entries carry the phone after a run of spaces
func policeName(raw string) string {
	parts := multiSpace.Split(raw, 2)
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return raw
}

// clinic entries carry the address after a dash
func clinicName(raw string) string {
	name := strings.TrimSpace(strings.SplitN(raw, "-", 2)[0])
	if name != "" {
		return name
	}
	return raw
}

// Estimate derives the ETA list for one residence. The district comes from the
// address (same derivation as everywhere else); a district without a directory
// entry yields an empty list, which the caller renders as "no services
// available". Results are sorted ascending by estimated time.
func Estimate(res domain.Residence, directory func(key string) (domain.DistrictServices, bool), svc ServiceType) []Result {
	distrito := domain.DistrictOf(res.Address)
	services, ok := directory(domain.DirectoryKey(distrito))
	if !ok {
		return []Result{}
	}

	results := []Result{}
	push := func(p profile, index int, name string) {
		distance, minutes := p.estimate(index)
		results = append(results, Result{
			ResidenceID:   res.ID,
			ResidenceName: res.Name,
			Distrito:      distrito,
			ServiceType:   p.label,
			ServiceName:   name,
			Distance:      distance,
			EstimatedTime: minutes,
			Status:        p.bucket(minutes),
		})
	}

	if svc == ServiceAll || svc == ServicePolicia {
		for i, raw := range services.Comisarias {
			push(policiaProfile, i, policeName(raw))
		}
	}
	if svc == ServiceAll || svc == ServiceBomberos {
		for i, raw := range services.Bomberos {
			name := raw
			if strings.TrimSpace(name) == "" {
				name = "Bomberos " + strconv.Itoa(i+1)
			}
			push(bomberosProfile, i, name)
		}
	}
	if svc == ServiceAll || svc == ServiceAmbulancia {
		for i, raw := range services.Clinicas {
			// placeholder slots with no verified provider
			if raw == "" || raw == "-" {
				continue
			}
			push(ambulanciaProfile, i, clinicName(raw))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].EstimatedTime < results[j].EstimatedTime
	})
	return results
}

// Stats ETA 结果集的聚合统计；空集返回 Count=0 的零值
type Stats struct {
	Count     int `json:"count"`
	AvgTime   int `json:"avgTime"`
	Fastest   int `json:"fastest"`
	Slowest   int `json:"slowest"`
	Critical  int `json:"critical"`
	Excellent int `json:"excellent"`
}

// ComputeStats 统计平均/最快/最慢以及 critical、excellent 数量
func ComputeStats(results []Result) Stats {
	stats := Stats{Count: len(results)}
	if len(results) == 0 {
		return stats
	}
	sum := 0
	stats.Fastest = results[0].EstimatedTime
	stats.Slowest = results[0].EstimatedTime
	for _, r := range results {
		sum += r.EstimatedTime
		if r.EstimatedTime < stats.Fastest {
			stats.Fastest = r.EstimatedTime
		}
		if r.EstimatedTime > stats.Slowest {
			stats.Slowest = r.EstimatedTime
		}
		switch r.Status {
		case StatusCritical:
			stats.Critical++
		case StatusExcellent:
			stats.Excellent++
		}
	}
	stats.AvgTime = int(math.Round(float64(sum) / float64(len(results))))
	return stats
}
