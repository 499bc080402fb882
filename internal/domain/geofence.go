package domain

// BoundingBox is an axis-aligned region in decimal degrees. No wraparound
// handling: coordinates outside ±180/±90 are simply outside the box.
type BoundingBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// IndiaCoastalBounds is the default geo-fence: a first-pass box around the
// Indian coastline that excludes most inland submissions.
var IndiaCoastalBounds = BoundingBox{
	MinLon: 68.0,
	MinLat: 6.0,
	MaxLon: 98.0,
	MaxLat: 24.0,
}

// Contains reports whether the (longitude, latitude) pair lies inside the box.
// Non-finite inputs fail fast with ErrInvalidInput rather than silently
// reading as outside.
func (b BoundingBox) Contains(longitude, latitude float64) (bool, error) {
	if err := ValidateCoordinates(longitude, latitude); err != nil {
		return false, err
	}
	inside := longitude >= b.MinLon &&
		longitude <= b.MaxLon &&
		latitude >= b.MinLat &&
		latitude <= b.MaxLat
	return inside, nil
}

// Valid reports whether the box has positive extent on both axes.
func (b BoundingBox) Valid() bool {
	return b.MinLon < b.MaxLon && b.MinLat < b.MaxLat
}
