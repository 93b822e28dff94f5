package models

// Health conditions a profile may disclose
const (
	ConditionHerpes     = "herpes"
	ConditionHPV        = "hpv"
	ConditionHIV        = "hiv"
	ConditionHepatitisB = "hepatitis_b"
	ConditionHepatitisC = "hepatitis_c"
)

// Conditions lists every disclosable condition.
var Conditions = []string{ConditionHerpes, ConditionHPV, ConditionHIV, ConditionHepatitisB, ConditionHepatitisC}

// acceptsFields maps each condition to its "accepts" flag attribute.
var acceptsFields = map[string]string{
	ConditionHerpes:     "acceptsHerpes",
	ConditionHPV:        "acceptsHpv",
	ConditionHIV:        "acceptsHiv",
	ConditionHepatitisB: "acceptsHepatitisB",
	ConditionHepatitisC: "acceptsHepatitisC",
}

// AcceptsField returns the accepts-flag attribute for condition, or "" if unknown.
func AcceptsField(condition string) string {
	return acceptsFields[condition]
}

// IsKnownCondition reports whether condition is a disclosable health condition.
func IsKnownCondition(condition string) bool {
	_, ok := acceptsFields[condition]
	return ok
}

// SeekerProfile holds the profile attributes used for matching.
type SeekerProfile struct {
	UserID            string          `dynamodbav:"userId" json:"userId" bson:"userId"`
	OrientationSelf   string          `dynamodbav:"orientationSelf" json:"orientationSelf" bson:"orientationSelf"`
	OrientationWanted string          `dynamodbav:"orientationWanted" json:"orientationWanted" bson:"orientationWanted"`
	Age               int             `dynamodbav:"age,omitempty" json:"age,omitempty" bson:"age,omitempty"`
	City              string          `dynamodbav:"city,omitempty" json:"city,omitempty" bson:"city,omitempty"`
	StateProvince     string          `dynamodbav:"stateProvince,omitempty" json:"stateProvince,omitempty" bson:"stateProvince,omitempty"`
	Country           string          `dynamodbav:"country,omitempty" json:"country,omitempty" bson:"country,omitempty"`
	HealthCondition   string          `dynamodbav:"healthCondition,omitempty" json:"healthCondition,omitempty" bson:"healthCondition,omitempty"`
	Accepts           map[string]bool `dynamodbav:"-" json:"accepts,omitempty" bson:"-"`
	Photos            []string        `dynamodbav:"photos,omitempty" json:"photos,omitempty" bson:"photos,omitempty"`
}

// HasCondition reports whether the profile discloses a known health condition.
func (p SeekerProfile) HasCondition() bool {
	return IsKnownCondition(p.HealthCondition)
}

// AcceptsCondition reports whether the profile accepts partners with condition.
func (p SeekerProfile) AcceptsCondition(condition string) bool {
	return p.Accepts[condition]
}

// LocationValue returns the seeker's value for a location field.
func (p SeekerProfile) LocationValue(field string) string {
	switch field {
	case LocationCity:
		return p.City
	case LocationStateProvince:
		return p.StateProvince
	case LocationCountry:
		return p.Country
	}
	return ""
}

// Location stages, tightest first. LocationNone applies no location filter.
const (
	LocationCity          = "city"
	LocationStateProvince = "stateProvince"
	LocationCountry       = "country"
	LocationNone          = "none"
)

// LocationStages is the widening order of location filters.
var LocationStages = []string{LocationCity, LocationStateProvince, LocationCountry, LocationNone}

// AgeBands are the widening half-widths, in years, around the seeker's age.
var AgeBands = []int{5, 10, 15}

// HealthTier is a relaxation level of the health-condition filter.
type HealthTier int

const (
	// HealthTierSame requires the candidate to disclose the seeker's condition.
	HealthTierSame HealthTier = iota + 1
	// HealthTierAccepts requires the candidate to accept the seeker's condition.
	HealthTierAccepts
	// HealthTierAny applies no health filter.
	HealthTierAny
)

func (t HealthTier) String() string {
	switch t {
	case HealthTierSame:
		return "same"
	case HealthTierAccepts:
		return "accepts"
	case HealthTierAny:
		return "any"
	default:
		return "unknown"
	}
}
