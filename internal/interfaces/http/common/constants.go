package common

const (
	// MaxRequestBody limits JSON request bodies for location/review endpoints.
	MaxRequestBody = 1 << 20
	// DefaultMaxDistanceMeters bounds proximity queries when the client
	// does not supply maxDistance.
	DefaultMaxDistanceMeters = 20000
)
