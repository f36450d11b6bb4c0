package canonical

import (
	"encoding/xml"
	"fmt"
	"io"
)

// gpxDocument - минимальная проекция GPX 1.1: нас интересуют только waypoints
type gpxDocument struct {
	XMLName   xml.Name      `xml:"gpx"`
	Waypoints []gpxWaypoint `xml:"wpt"`
}

type gpxWaypoint struct {
	Lat  string `xml:"lat,attr"`
	Lon  string `xml:"lon,attr"`
	Name string `xml:"name"`
	Desc string `xml:"desc"`
}

// ReadGPXRecords читает waypoints из GPX-документа и возвращает их в виде
// записей, готовых для Canonicalize с FormatGPX
func ReadGPXRecords(r io.Reader) ([]map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gpx input: %w", err)
	}

	var doc gpxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse gpx: %w", err)
	}

	records := make([]map[string]string, 0, len(doc.Waypoints))
	for _, wpt := range doc.Waypoints {
		record := map[string]string{
			"lat": wpt.Lat,
			"lon": wpt.Lon,
		}
		if wpt.Name != "" {
			record["name"] = wpt.Name
		}
		if wpt.Desc != "" {
			record["desc"] = wpt.Desc
		}
		records = append(records, record)
	}

	return records, nil
}
