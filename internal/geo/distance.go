package geo

import "math"

// EarthRadiusKM is the sphere radius used for great-circle distances.
const EarthRadiusKM = 6367.0

// Distance returns the haversine great-circle distance in kilometers between
// two lat/lon pairs given in degrees. Inputs are not range checked.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1, lon1 = toRadians(lat1), toRadians(lon1)
	lat2, lon2 = toRadians(lat2), toRadians(lon2)

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)

	return EarthRadiusKM * 2 * math.Asin(math.Sqrt(a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
