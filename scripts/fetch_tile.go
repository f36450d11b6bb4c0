//go:build ignore

// Ручной смоук-тест тайлового сервиса: вычисляет адрес тайла для заданной
// точки, запрашивает его у работающего сервера и печатает сводку.
//
//	go run scripts/fetch_tile.go -server http://localhost:8080 -lat 47.6097 -lon -122.3331
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/tile"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "tile server base URL")
	lat := flag.Float64("lat", 47.6097, "latitude of the point of interest")
	lon := flag.Float64("lon", -122.3331, "longitude of the point of interest")
	zoom := flag.Uint("zoom", 16, "tile zoom level")
	flag.Parse()

	path := tile.Path(*lat, *lon, uint32(*zoom))
	url := *server + path
	fmt.Printf("GET %s\n", url)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("status %d: %s", resp.StatusCode, body)
	}

	var collection domain.FeatureCollection
	if err := json.Unmarshal(body, &collection); err != nil {
		log.Fatalf("decode tile: %v", err)
	}

	x, y := tile.LatLonToTile(*lat, *lon, uint32(*zoom))
	bounds := tile.TileToBounds(uint32(*zoom), x, y)
	fmt.Printf("tile %d/%d/%d bounds: lat (%.6f, %.6f] lon [%.6f, %.6f)\n",
		*zoom, x, y, bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon)
	fmt.Printf("features: %d\n", len(collection.Features))

	named := 0
	for _, f := range collection.Features {
		if _, ok := f.Properties["name"]; ok {
			named++
		}
	}
	fmt.Printf("with name: %d\n", named)

	if len(collection.Features) > 0 {
		sample, _ := json.MarshalIndent(collection.Features[0], "", "  ")
		fmt.Printf("sample feature:\n%s\n", sample)
	}
}
