package host

// Dataref names used by the engine.
const (
	DataRefFuel           = "sim/flightmodel/weight/m_fuel"               // float[9], kg per tank, writable
	DataRefGenericLights  = "sim/cockpit2/switches/generic_lights_switch" // float[128], writable
	DataRefLiveryPath     = "sim/aircraft/view/acf_livery_path"           // byte[1024]
	DataRefICAO           = "sim/aircraft/view/acf_ICAO"                  // byte[40]
	DataRefStartupRunning = "sim/operation/prefs/startup_running"         // int, 0 = cold & dark
)

// Array sizes published by X-Plane 12 for the datarefs above.
const (
	FuelTanks        = 9
	GenericLightsLen = 128
)
