package models

const (
	CategoryBehavioral = "behavioral"
	CategoryPhysical   = "physical"
)

// Symptom is immutable catalog data; Key is the stable identifier score
// entries reference, ID is only the storage key.
type Symptom struct {
	ID           uint    `gorm:"primaryKey"`
	Key          string  `gorm:"uniqueIndex;not null"`
	Name         string  `gorm:"not null"`
	Category     string  `gorm:"not null"`
	DefaultValue float64 `gorm:"not null;default:0"`
	Optional     bool    `gorm:"not null;default:false"`
}

// DefaultSymptomCatalog lists the symptoms seeded into an empty database.
// Optional symptoms may carry a null score in a saved log.
func DefaultSymptomCatalog() []Symptom {
	return []Symptom{
		{Key: "anxiety", Name: "Anxiety", Category: CategoryBehavioral},
		{Key: "irritability", Name: "Irritability", Category: CategoryBehavioral},
		{Key: "low-mood", Name: "Low mood", Category: CategoryBehavioral},
		{Key: "brain-fog", Name: "Brain fog", Category: CategoryBehavioral},
		{Key: "restlessness", Name: "Restlessness", Category: CategoryBehavioral},
		{Key: "fatigue", Name: "Fatigue", Category: CategoryPhysical},
		{Key: "headache", Name: "Headache", Category: CategoryPhysical},
		{Key: "joint-pain", Name: "Joint pain", Category: CategoryPhysical},
		{Key: "muscle-aches", Name: "Muscle aches", Category: CategoryPhysical},
		{Key: "nausea", Name: "Nausea", Category: CategoryPhysical},
		{Key: "insomnia", Name: "Insomnia", Category: CategoryPhysical},
		{Key: "appetite-loss", Name: "Appetite loss", Category: CategoryPhysical, Optional: true},
		{Key: "night-sweats", Name: "Night sweats", Category: CategoryPhysical, Optional: true},
	}
}
