package criteria

// Group classifies a use-case criterion as impact- or feasibility-oriented.
type Group string

const (
	GroupImpact      Group = "impact"
	GroupFeasibility Group = "feasibility"
)

// Scale bounds for the two scoring surfaces.
const (
	ReadinessMin = 1
	ReadinessMax = 5
	CriterionMin = 1
	CriterionMax = 10
)

// Dimension is one organizational readiness axis, scored 1-5.
type Dimension struct {
	Key   string
	Label string
}

// Criterion is one use-case evaluation axis, scored 1-10.
type Criterion struct {
	Key   string
	Label string
	Group Group
}

// Readiness lists the 11 fixed readiness dimensions in display order.
var Readiness = []Dimension{
	{Key: "strategy_alignment", Label: "Strategy & Vision"},
	{Key: "leadership_support", Label: "Leadership Buy-In"},
	{Key: "data_quality", Label: "Data Quality"},
	{Key: "data_governance", Label: "Data Governance"},
	{Key: "infrastructure", Label: "Technical Infrastructure"},
	{Key: "talent_skills", Label: "Talent & Skills"},
	{Key: "culture_adoption", Label: "Culture & Adoption"},
	{Key: "process_maturity", Label: "Process Maturity"},
	{Key: "budget_funding", Label: "Budget & Funding"},
	{Key: "ethics_compliance", Label: "Ethics & Compliance"},
	{Key: "experimentation", Label: "Experimentation Capability"},
}

// UseCase lists the 8 fixed use-case criteria in display order:
// 3 impact criteria followed by 5 feasibility criteria.
var UseCase = []Criterion{
	{Key: "revenue_potential", Label: "Revenue Potential", Group: GroupImpact},
	{Key: "cost_reduction", Label: "Cost Reduction", Group: GroupImpact},
	{Key: "strategic_fit", Label: "Strategic Fit", Group: GroupImpact},
	{Key: "data_availability", Label: "Data Availability", Group: GroupFeasibility},
	{Key: "technical_feasibility", Label: "Technical Feasibility", Group: GroupFeasibility},
	{Key: "org_readiness", Label: "Organizational Readiness", Group: GroupFeasibility},
	{Key: "time_to_value", Label: "Time to Value", Group: GroupFeasibility},
	{Key: "risk_profile", Label: "Risk Profile", Group: GroupFeasibility},
}

var (
	readinessKeys []string
	useCaseKeys   []string
	readinessSet  map[string]struct{}
	useCaseSet    map[string]struct{}
)

func init() {
	readinessSet = make(map[string]struct{}, len(Readiness))
	for _, d := range Readiness {
		readinessKeys = append(readinessKeys, d.Key)
		readinessSet[d.Key] = struct{}{}
	}
	useCaseSet = make(map[string]struct{}, len(UseCase))
	for _, c := range UseCase {
		useCaseKeys = append(useCaseKeys, c.Key)
		useCaseSet[c.Key] = struct{}{}
	}
}

// ReadinessKeys returns the readiness dimension keys in display order.
// The returned slice must not be modified.
func ReadinessKeys() []string {
	return readinessKeys
}

// UseCaseKeys returns the use-case criterion keys in display order.
// The returned slice must not be modified.
func UseCaseKeys() []string {
	return useCaseKeys
}

// IsReadinessKey reports whether key is a known readiness dimension.
func IsReadinessKey(key string) bool {
	_, ok := readinessSet[key]
	return ok
}

// IsUseCaseKey reports whether key is a known use-case criterion.
func IsUseCaseKey(key string) bool {
	_, ok := useCaseSet[key]
	return ok
}
