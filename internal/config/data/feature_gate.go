package data

// FeatureGates controls optional features
type FeatureGates struct {
	// Notifications enables the change notification socket
	Notifications bool `yaml:"notifications"`

	// Export enables exporting statistics
	Export bool `yaml:"export"`
}

// NewFeatureGates creates FeatureGates with default settings
func NewFeatureGates() FeatureGates {
	return FeatureGates{
		Notifications: true,
		Export:        true,
	}
}
