package inventory

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"ftth-viability-be/internal/pkg/logger"
)

// Cabinet is a fixed network cabinet (CTO) read from the inventory source.
// Immutable after load; the inventory is refreshed wholesale, never patched
// record by record.
type Cabinet struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// Snapshot is an immutable inventory value handed to the audit workflow.
// Version identifies when it was fetched so an audit can be traced back to
// the exact inventory it saw.
type Snapshot struct {
	Kind     string    `json:"kind"`
	Version  time.Time `json:"version"`
	Cabinets []Cabinet `json:"cabinets"`
}

// FindCabinet returns the cabinet with the given id, or nil.
func (s *Snapshot) FindCabinet(id string) *Cabinet {
	for i := range s.Cabinets {
		if s.Cabinets[i].ID == id {
			return &s.Cabinets[i]
		}
	}
	return nil
}

type kmlPlacemark struct {
	Name  string `xml:"name"`
	Point struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"Point"`
}

// Parse reads KML placemarks into cabinet records. Best effort: a placemark
// with a missing or malformed coordinate is logged and skipped, never fatal.
// An empty document yields an empty slice and a nil error.
func Parse(r io.Reader, log logger.ILogger) ([]Cabinet, error) {
	decoder := xml.NewDecoder(r)
	cabinets := make([]Cabinet, 0)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "Placemark" {
			continue
		}

		var pm kmlPlacemark
		if err := decoder.DecodeElement(&pm, &start); err != nil {
			if log != nil {
				log.Warn("Inventory", "Skipping unreadable placemark", map[string]interface{}{"error": err.Error()})
			}
			continue
		}

		lat, lon, ok := parseCoordinates(pm.Point.Coordinates)
		if !ok {
			if log != nil {
				log.Warn("Inventory", "Skipping placemark with bad coordinates", map[string]interface{}{
					"name":        pm.Name,
					"coordinates": pm.Point.Coordinates,
				})
			}
			continue
		}

		label := strings.TrimSpace(pm.Name)
		if label == "" {
			if log != nil {
				log.Warn("Inventory", "Skipping unnamed placemark", map[string]interface{}{"lat": lat, "lon": lon})
			}
			continue
		}

		cabinets = append(cabinets, Cabinet{
			ID:    strings.ToUpper(label),
			Label: label,
			Lat:   lat,
			Lon:   lon,
		})
	}

	return cabinets, nil
}

// parseCoordinates handles the KML "lon,lat[,alt]" tuple.
func parseCoordinates(raw string) (lat, lon float64, ok bool) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLon != nil || errLat != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}
