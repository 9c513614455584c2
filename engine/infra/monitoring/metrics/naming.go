package metrics

import "strings"

// Prefix is prepended to every exported metric name.
const Prefix = "chainview_"

// MetricName returns name with the project prefix applied once.
func MetricName(name string) string {
	if strings.HasPrefix(name, Prefix) {
		return name
	}
	return Prefix + name
}

// MetricNameWithSubsystem returns prefix_subsystem_name.
func MetricNameWithSubsystem(subsystem, name string) string {
	if subsystem == "" {
		return MetricName(name)
	}
	return MetricName(subsystem + "_" + name)
}
