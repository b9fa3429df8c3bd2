package battery

// StateChangeCallback receives battery updates from a StateRegistrar.
type StateChangeCallback interface {
	OnBatteryLevelChanged(present bool, level int, pluggedIn, charging bool)
	OnPowerSaveChanged()
}

// StateRegistrar is a battery-state source that callbacks attach to.
type StateRegistrar interface {
	AddStateChangedCallback(cb StateChangeCallback)
	RemoveStateChangedCallback(cb StateChangeCallback)
}
