// README: Common identifier and coordinate types shared across modules.
package types

// ID is an opaque record identifier assigned by the store at creation time.
type ID string

// Point is a WGS84 coordinate pair, used for ambulance pickup/dropoff.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
