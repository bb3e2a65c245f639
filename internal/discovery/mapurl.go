package discovery

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	mapboxStaticBase = "https://api.mapbox.com/styles/v1/mapbox/streets-v12/static"
	mapZoom          = 12
	mapSize          = "600x400"

	// Mapbox rejects overlays past roughly 8k characters of path.
	maxMapMarkers = 100
)

var markerColors = map[MarkerKind]string{
	MarkerSelf:   "3b82f6",
	MarkerWorker: "06b6d4",
	MarkerTask:   "ec4899",
}

// StaticMapURL renders markers around center as a Mapbox static image URL.
// Markers past the cap are dropped in order.
func StaticMapURL(token string, center Point, markers []Marker) string {
	pins := make([]string, 0, len(markers))
	for _, m := range markers {
		if len(pins) == maxMapMarkers {
			break
		}
		color, ok := markerColors[m.Kind]
		if !ok {
			continue
		}
		pins = append(pins, fmt.Sprintf("pin-s+%s(%.5f,%.5f)", color, m.Point.Lng, m.Point.Lat))
	}

	var path strings.Builder
	path.WriteString(mapboxStaticBase)
	path.WriteByte('/')
	if len(pins) > 0 {
		path.WriteString(strings.Join(pins, ","))
		path.WriteByte('/')
	}
	fmt.Fprintf(&path, "%.5f,%.5f,%d/%s", center.Lng, center.Lat, mapZoom, mapSize)

	q := url.Values{}
	if token != "" {
		q.Set("access_token", token)
	}
	if len(q) == 0 {
		return path.String()
	}
	return path.String() + "?" + q.Encode()
}
