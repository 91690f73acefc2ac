package pgn

// Definition is the fixed field layout for one recognized PGN.
type Definition struct {
	PGN         uint32
	Description string
	Fields      []Field
}

var instanceField = Field{ID: "instance", BitOffset: 0, BitLength: 8, Kind: FieldUint}

var onOff = map[uint64]string{0: "Off", 1: "On", 2: "Error", 3: "Unavailable"}

var engineStatus1Bits = map[uint64]string{
	0: "Check Engine", 1: "Over Temperature", 2: "Low Oil Pressure", 3: "Low Oil Level",
	4: "Low Fuel Pressure", 5: "Low System Voltage", 6: "Low Coolant Level", 7: "Water Flow",
}

var directionOrderEnum = map[uint64]string{0: "No Order", 1: "Move to starboard", 2: "Move to port"}

// Table is the static set of PGN definitions this node understands. Each
// entry's bit layout follows the public NMEA2000/J1939 PGN definitions
// as reproduced by the canboat project's pgns.json, hand-transcribed
// here as Go literals rather than loaded from JSON since the recognized
// set is small and fixed.
var Table = map[uint32]Definition{
	126992: {
		PGN: 126992, Description: "System Time",
		Fields: []Field{
			instanceField,
			{ID: "source", BitOffset: 8, BitLength: 4, Kind: FieldEnum, Enum: map[uint64]string{
				0: "GPS", 1: "GLONASS", 2: "Radio Station", 3: "Local Cesium clock", 4: "Local Rubidium clock", 5: "Local Crystal clock",
			}},
			{ID: "date", BitOffset: 16, BitLength: 16, Kind: FieldDate, Unit: "days"},
			{ID: "time", BitOffset: 32, BitLength: 32, Kind: FieldTimeOfDay, Unit: "s"},
		},
	},
	126993: {
		PGN: 126993, Description: "Heartbeat",
		Fields: []Field{
			{ID: "data_transmit_offset", BitOffset: 0, BitLength: 16, Kind: FieldUint, Resolution: 0.01, Unit: "s"},
			{ID: "sequence_counter", BitOffset: 16, BitLength: 8, Kind: FieldUint},
			{ID: "controller_state", BitOffset: 24, BitLength: 2, Kind: FieldEnum, Enum: map[uint64]string{0: "Operational", 1: "Transitional"}},
		},
	},
	127245: {
		PGN: 127245, Description: "Rudder",
		Fields: []Field{
			instanceField,
			{ID: "direction_order", BitOffset: 8, BitLength: 3, Kind: FieldEnum, Enum: directionOrderEnum},
			{ID: "angle_order", BitOffset: 16, BitLength: 16, Kind: FieldInt, Resolution: 0.0001, Unit: "rad"},
			{ID: "position", BitOffset: 32, BitLength: 16, Kind: FieldInt, Resolution: 0.0001, Unit: "rad"},
		},
	},
	127250: {
		PGN: 127250, Description: "Vessel Heading",
		Fields: []Field{
			{ID: "sid", BitOffset: 0, BitLength: 8, Kind: FieldUint},
			{ID: "heading", BitOffset: 8, BitLength: 16, Kind: FieldUint, Resolution: 0.0001, Unit: "rad"},
			{ID: "deviation", BitOffset: 24, BitLength: 16, Kind: FieldInt, Resolution: 0.0001, Unit: "rad"},
			{ID: "variation", BitOffset: 40, BitLength: 16, Kind: FieldInt, Resolution: 0.0001, Unit: "rad"},
			{ID: "reference", BitOffset: 56, BitLength: 2, Kind: FieldEnum, Enum: map[uint64]string{0: "True", 1: "Magnetic"}},
		},
	},
	127257: {
		PGN: 127257, Description: "Attitude",
		Fields: []Field{
			{ID: "sid", BitOffset: 0, BitLength: 8, Kind: FieldUint},
			{ID: "yaw", BitOffset: 8, BitLength: 16, Kind: FieldInt, Resolution: 0.0001, Unit: "rad"},
			{ID: "pitch", BitOffset: 24, BitLength: 16, Kind: FieldInt, Resolution: 0.0001, Unit: "rad"},
			{ID: "roll", BitOffset: 40, BitLength: 16, Kind: FieldInt, Resolution: 0.0001, Unit: "rad"},
		},
	},
	127258: {
		PGN: 127258, Description: "Magnetic Variation",
		Fields: []Field{
			{ID: "sid", BitOffset: 0, BitLength: 8, Kind: FieldUint},
			{ID: "source", BitOffset: 8, BitLength: 4, Kind: FieldUint},
			{ID: "age_of_service", BitOffset: 16, BitLength: 16, Kind: FieldUint, Unit: "days"},
			{ID: "variation", BitOffset: 32, BitLength: 16, Kind: FieldInt, Resolution: 0.0001, Unit: "rad"},
		},
	},
	127488: {
		PGN: 127488, Description: "Engine Parameters, Rapid Update",
		Fields: []Field{
			instanceField,
			{ID: "speed", BitOffset: 8, BitLength: 16, Kind: FieldUint, Resolution: 0.25, Unit: "rpm"},
			{ID: "boost_pressure", BitOffset: 24, BitLength: 16, Kind: FieldUint, Resolution: 100, Unit: "Pa"},
			{ID: "tilt_trim", BitOffset: 40, BitLength: 8, Kind: FieldInt, Unit: "%"},
		},
	},
	127489: {
		PGN: 127489, Description: "Engine Parameters, Dynamic",
		Fields: []Field{
			instanceField,
			{ID: "oil_pressure", BitOffset: 8, BitLength: 16, Kind: FieldUint, Resolution: 100, Unit: "Pa"},
			{ID: "oil_temperature", BitOffset: 24, BitLength: 16, Kind: FieldUint, Resolution: 0.1, Unit: "K"},
			{ID: "coolant_temperature", BitOffset: 40, BitLength: 16, Kind: FieldUint, Resolution: 0.01, Unit: "K"},
			{ID: "alternator_voltage", BitOffset: 56, BitLength: 16, Kind: FieldInt, Resolution: 0.01, Unit: "V"},
			{ID: "fuel_rate", BitOffset: 72, BitLength: 16, Kind: FieldInt, Resolution: 0.1, Unit: "L/h"},
			{ID: "total_engine_hours", BitOffset: 88, BitLength: 32, Kind: FieldUint, Unit: "s"},
			{ID: "engine_status_1", BitOffset: 120, BitLength: 16, Kind: FieldUint},
		},
	},
	127497: {
		PGN: 127497, Description: "Trip Fuel Consumption, Engine",
		Fields: []Field{
			instanceField,
			{ID: "trip_fuel_used", BitOffset: 8, BitLength: 16, Kind: FieldUint, Unit: "L"},
			{ID: "fuel_rate_average", BitOffset: 24, BitLength: 16, Kind: FieldInt, Resolution: 0.1, Unit: "L/h"},
			{ID: "fuel_rate_economy", BitOffset: 40, BitLength: 16, Kind: FieldInt, Resolution: 0.1, Unit: "L/h"},
			{ID: "instantaneous_fuel_economy", BitOffset: 56, BitLength: 16, Kind: FieldInt, Resolution: 0.1, Unit: "L/h"},
		},
	},
	127500: {
		PGN: 127500, Description: "Load Controller Connection State/Control",
		Fields: []Field{
			{ID: "sequence_id", BitOffset: 0, BitLength: 8, Kind: FieldUint},
			{ID: "connection_id", BitOffset: 8, BitLength: 8, Kind: FieldUint},
			{ID: "state", BitOffset: 16, BitLength: 8, Kind: FieldEnum, Enum: onOff},
			{ID: "status", BitOffset: 24, BitLength: 8, Kind: FieldUint},
		},
	},
	127501: {
		PGN: 127501, Description: "Binary Switch Bank Status",
		Fields: []Field{
			instanceField,
			{ID: "switch_states", BitOffset: 8, BitLength: 56, Kind: FieldBytes},
		},
	},
	127505: {
		PGN: 127505, Description: "Fluid Level",
		Fields: []Field{
			{ID: "instance", BitOffset: 0, BitLength: 4, Kind: FieldUint},
			{ID: "fluid_type", BitOffset: 4, BitLength: 4, Kind: FieldEnum, Enum: map[uint64]string{
				0: "Fuel", 1: "Water", 2: "Gray Water", 3: "Live Well", 4: "Oil", 5: "Black Water",
			}},
			{ID: "level", BitOffset: 8, BitLength: 16, Kind: FieldUint, Resolution: 0.004, Unit: "%"},
			{ID: "capacity", BitOffset: 24, BitLength: 32, Kind: FieldUint, Resolution: 0.1, Unit: "L"},
		},
	},
	127506: {
		PGN: 127506, Description: "DC Detailed Status",
		Fields: []Field{
			{ID: "sid", BitOffset: 0, BitLength: 8, Kind: FieldUint},
			instanceField,
			{ID: "dc_type", BitOffset: 16, BitLength: 8, Kind: FieldEnum, Enum: map[uint64]string{
				0: "Battery", 1: "Alternator", 2: "Converter", 3: "Solar Cell", 4: "Wind Generator",
			}},
			{ID: "state_of_charge", BitOffset: 24, BitLength: 8, Kind: FieldUint, Unit: "%"},
			{ID: "state_of_health", BitOffset: 32, BitLength: 8, Kind: FieldUint, Unit: "%"},
			{ID: "time_remaining", BitOffset: 40, BitLength: 16, Kind: FieldUint, Unit: "min"},
			{ID: "ripple_voltage", BitOffset: 56, BitLength: 16, Kind: FieldUint, Resolution: 0.001, Unit: "V"},
		},
	},
	127508: {
		PGN: 127508, Description: "Battery Status",
		Fields: []Field{
			instanceField,
			{ID: "voltage", BitOffset: 8, BitLength: 16, Kind: FieldInt, Resolution: 0.01, Unit: "V"},
			{ID: "current", BitOffset: 24, BitLength: 16, Kind: FieldInt, Resolution: 0.1, Unit: "A"},
			{ID: "temperature", BitOffset: 40, BitLength: 16, Kind: FieldUint, Resolution: 0.01, Unit: "K"},
			{ID: "sid", BitOffset: 56, BitLength: 8, Kind: FieldUint},
		},
	},
	127751: {
		PGN: 127751, Description: "DC Voltage/Current",
		Fields: []Field{
			{ID: "sid", BitOffset: 0, BitLength: 8, Kind: FieldUint},
			instanceField,
			{ID: "voltage", BitOffset: 16, BitLength: 16, Kind: FieldInt, Resolution: 0.1, Unit: "V"},
			{ID: "current", BitOffset: 32, BitLength: 24, Kind: FieldInt, Resolution: 0.001, Unit: "A"},
		},
	},
	129025: {
		PGN: 129025, Description: "Position, Rapid Update",
		Fields: []Field{
			{ID: "latitude", BitOffset: 0, BitLength: 32, Kind: FieldInt, Resolution: 1e-7, Unit: "deg"},
			{ID: "longitude", BitOffset: 32, BitLength: 32, Kind: FieldInt, Resolution: 1e-7, Unit: "deg"},
		},
	},
	129026: {
		PGN: 129026, Description: "COG & SOG, Rapid Update",
		Fields: []Field{
			{ID: "sid", BitOffset: 0, BitLength: 8, Kind: FieldUint},
			{ID: "cog_reference", BitOffset: 8, BitLength: 2, Kind: FieldEnum, Enum: map[uint64]string{0: "True", 1: "Magnetic"}},
			{ID: "cog", BitOffset: 16, BitLength: 16, Kind: FieldUint, Resolution: 0.0001, Unit: "rad"},
			{ID: "sog", BitOffset: 32, BitLength: 16, Kind: FieldUint, Resolution: 0.01, Unit: "m/s"},
		},
	},
	129029: {
		PGN: 129029, Description: "GNSS Position Data",
		Fields: []Field{
			{ID: "sid", BitOffset: 0, BitLength: 8, Kind: FieldUint},
			{ID: "date", BitOffset: 8, BitLength: 16, Kind: FieldDate, Unit: "days"},
			{ID: "time", BitOffset: 24, BitLength: 32, Kind: FieldTimeOfDay, Unit: "s"},
			{ID: "latitude", BitOffset: 56, BitLength: 64, Kind: FieldInt, Resolution: 1e-16, Unit: "deg"},
			{ID: "longitude", BitOffset: 120, BitLength: 64, Kind: FieldInt, Resolution: 1e-16, Unit: "deg"},
			{ID: "altitude", BitOffset: 184, BitLength: 64, Kind: FieldInt, Resolution: 1e-6, Unit: "m"},
			{ID: "gnss_type", BitOffset: 248, BitLength: 4, Kind: FieldEnum, Enum: map[uint64]string{0: "GPS", 1: "GLONASS", 2: "GPS+GLONASS"}},
			{ID: "method", BitOffset: 252, BitLength: 4, Kind: FieldEnum, Enum: map[uint64]string{0: "no GNSS", 1: "GNSS fix", 2: "DGNSS fix"}},
		},
	},
	129283: {
		PGN: 129283, Description: "Cross Track Error",
		Fields: []Field{
			{ID: "sid", BitOffset: 0, BitLength: 8, Kind: FieldUint},
			{ID: "xte_mode", BitOffset: 8, BitLength: 4, Kind: FieldUint},
			{ID: "xte", BitOffset: 16, BitLength: 32, Kind: FieldInt, Resolution: 0.01, Unit: "m"},
		},
	},
	129284: {
		PGN: 129284, Description: "Navigation Data",
		Fields: []Field{
			{ID: "sid", BitOffset: 0, BitLength: 8, Kind: FieldUint},
			{ID: "distance_to_waypoint", BitOffset: 8, BitLength: 32, Kind: FieldUint, Resolution: 0.01, Unit: "m"},
			{ID: "bearing_to_waypoint", BitOffset: 72, BitLength: 16, Kind: FieldUint, Resolution: 0.0001, Unit: "rad"},
			{ID: "waypoint_closing_velocity", BitOffset: 88, BitLength: 16, Kind: FieldInt, Resolution: 0.01, Unit: "m/s"},
		},
	},
	129539: {
		PGN: 129539, Description: "GNSS DOPs",
		Fields: []Field{
			{ID: "sid", BitOffset: 0, BitLength: 8, Kind: FieldUint},
			{ID: "desired_mode", BitOffset: 8, BitLength: 3, Kind: FieldUint},
			{ID: "actual_mode", BitOffset: 11, BitLength: 3, Kind: FieldUint},
			{ID: "hdop", BitOffset: 16, BitLength: 16, Kind: FieldInt, Resolution: 0.01},
			{ID: "vdop", BitOffset: 32, BitLength: 16, Kind: FieldInt, Resolution: 0.01},
			{ID: "tdop", BitOffset: 48, BitLength: 16, Kind: FieldInt, Resolution: 0.01},
		},
	},
	129540: {
		PGN: 129540, Description: "GNSS Satellites in View",
		Fields: []Field{
			{ID: "sid", BitOffset: 0, BitLength: 8, Kind: FieldUint},
			{ID: "range_residual_mode", BitOffset: 8, BitLength: 2, Kind: FieldUint},
			{ID: "satellites_in_view", BitOffset: 16, BitLength: 8, Kind: FieldUint},
		},
	},
	59392: {
		PGN: 59392, Description: "ISO Acknowledgment",
		Fields: []Field{
			{ID: "control", BitOffset: 0, BitLength: 8, Kind: FieldEnum, Enum: map[uint64]string{0: "ACK", 1: "NAK", 2: "Access Denied", 3: "Cannot Respond"}},
			{ID: "group_function", BitOffset: 8, BitLength: 8, Kind: FieldUint},
			{ID: "pgn", BitOffset: 40, BitLength: 24, Kind: FieldUint},
		},
	},
	60928: {
		PGN: 60928, Description: "ISO Address Claim",
		Fields: []Field{
			{ID: "unique_number", BitOffset: 0, BitLength: 21, Kind: FieldUint},
			{ID: "manufacturer_code", BitOffset: 21, BitLength: 11, Kind: FieldUint},
			{ID: "device_instance_lower", BitOffset: 32, BitLength: 3, Kind: FieldUint},
			{ID: "device_instance_upper", BitOffset: 35, BitLength: 5, Kind: FieldUint},
			{ID: "device_function", BitOffset: 40, BitLength: 8, Kind: FieldUint},
			{ID: "device_class", BitOffset: 49, BitLength: 7, Kind: FieldUint},
			{ID: "system_instance", BitOffset: 56, BitLength: 4, Kind: FieldUint},
			{ID: "industry_group", BitOffset: 60, BitLength: 3, Kind: FieldUint},
		},
	},
	65361: {
		PGN: 65361, Description: "Product Information",
		Fields: []Field{
			{ID: "nmea_2000_version", BitOffset: 0, BitLength: 16, Kind: FieldUint},
			{ID: "product_code", BitOffset: 16, BitLength: 16, Kind: FieldUint},
		},
	},
}

// engineStatusBits decodes the 16-bit bitmask of PGN 127489's
// engine_status_1 field into human-readable flags.
func engineStatusBits(raw uint64) []string {
	var flags []string
	for i := 0; i < 16; i++ {
		if raw&(1<<uint(i)) == 0 {
			continue
		}
		if name, ok := engineStatus1Bits[uint64(i)]; ok {
			flags = append(flags, name)
		}
	}
	return flags
}
