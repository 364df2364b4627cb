package domain

// ReferenceSites returns the five underpasses and junctions monitored in Delhi.
func ReferenceSites() []Site {
	return []Site{
		{Name: "Minto Bridge", Latitude: 28.6327, Longitude: 77.2210, Elevation: 208},
		{Name: "Zakhira Underpass", Latitude: 28.6678, Longitude: 77.1539, Elevation: 210},
		{Name: "Pul Prahladpur", Latitude: 28.5042, Longitude: 77.2913, Elevation: 211},
		{Name: "Lajpat Nagar", Latitude: 28.5677, Longitude: 77.2433, Elevation: 218},
		{Name: "Connaught Place", Latitude: 28.6304, Longitude: 77.2177, Elevation: 215},
	}
}
