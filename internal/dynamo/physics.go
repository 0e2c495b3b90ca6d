package dynamo

import "math"

// PlanetaryAlbedo is the area-weighted mean of the three surface albedos.
func PlanetaryAlbedo(p Params, white, black, ground float64) float64 {
	return white*p.AlbedoWhite + black*p.AlbedoBlack + ground*p.AlbedoGround
}

// PlanetaryTemperature returns the radiative-balance temperature in °C.
func PlanetaryTemperature(luminosity, albedo float64) float64 {
	absorbed := luminosity * SolarFlux * (1 - albedo)
	if absorbed < 0 {
		absorbed = 0
	}
	return math.Pow(absorbed/StefanBoltzmann, 0.25) - kelvinOffset
}

// LocalTemperature offsets the planetary mean by the patch's albedo contrast.
// Darker patches run warmer, lighter patches cooler.
func LocalTemperature(planetary, planetaryAlbedo, speciesAlbedo, heating float64) float64 {
	return planetary + heating*(planetaryAlbedo-speciesAlbedo)
}

// GrowthRate is a downward parabola peaking at OptimalTemp. It is exactly zero
// at and outside the viable band [MinTemp, MaxTemp].
func GrowthRate(temp float64) float64 {
	if !(temp > MinTemp && temp < MaxTemp) {
		return 0
	}
	d := OptimalTemp - temp
	return 1 - GrowthCurvature*d*d
}
