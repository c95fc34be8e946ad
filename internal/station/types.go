package station

var serviceDataTypes = map[int]string{
	0:   "Non_Specific",
	1:   "News",
	3:   "Sports",
	29:  "Weather",
	31:  "Emergency",
	65:  "Traffic",
	66:  "Image Maps",
	80:  "Text",
	256: "Advertising",
	257: "Financial",
	258: "Stock Ticker",
	259: "Navigation",
	260: "Electronic Program Guide",
	261: "Audio",
	262: "Private Data Network",
	263: "Service Maintenance",
	264: "HD Radio System Services",
	265: "Audio-Related Objects",
	511: "Test_Str_E",
}

var programTypes = map[int]string{
	0:  "None",
	1:  "News",
	2:  "Information",
	3:  "Sports",
	4:  "Talk",
	5:  "Rock",
	6:  "Classic Rock",
	7:  "Adult Hits",
	8:  "Soft Rock",
	9:  "Top 40",
	10: "Country",
	11: "Oldies",
	12: "Soft",
	13: "Nostalgia",
	14: "Jazz",
	15: "Classical",
	16: "Rhythm and Blues",
	17: "Soft Rhythm and Blues",
	18: "Foreign Language",
	19: "Religious Music",
	20: "Religious Talk",
	21: "Personality",
	22: "Public",
	23: "College",
	24: "Spanish Talk",
	25: "Spanish Music",
	26: "Hip-Hop",
	29: "Weather",
	30: "Emergency Test",
	31: "Emergency",
	65: "Traffic",
	76: "Special Reading Services",
}

// ServiceDataTypeName returns the display name of a data service type code.
func ServiceDataTypeName(code int) (string, bool) {
	name, ok := serviceDataTypes[code]
	return name, ok
}

// ProgramTypeName returns the display name of an audio program type code.
func ProgramTypeName(code int) (string, bool) {
	name, ok := programTypes[code]
	return name, ok
}
