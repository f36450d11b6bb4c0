// Package tile реализует преобразования slippy-map тайлов.
//
// Formulas follow the standard scheme documented at
// https://wiki.openstreetmap.org/wiki/Slippy_map_tilenames
package tile

import (
	"fmt"
	"math"

	"github.com/poi-tile-service/internal/domain"
)

// TileToBounds возвращает географический охват тайла (z, x, y).
// Северная и западная границы принадлежат тайлу, южная и восточная - соседям.
func TileToBounds(zoom, x, y uint32) domain.BoundingBox {
	return domain.BoundingBox{
		MinLat: tileLat(y+1, zoom),
		MaxLat: tileLat(y, zoom),
		MinLon: tileLon(x, zoom),
		MaxLon: tileLon(x+1, zoom),
	}
}

// LatLonToTile возвращает адрес тайла, содержащего точку (lat, lon) на уровне
// zoom. Долгота не нормализуется, широты вблизи ±90° вне области определения
// проекции Меркатора - вызывающая сторона валидирует вход заранее.
func LatLonToTile(lat, lon float64, zoom uint32) (x, y uint32) {
	n := math.Exp2(float64(zoom))
	latRad := lat * math.Pi / 180.0

	xf := (lon + 180.0) / 360.0 * n
	yf := (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n

	return uint32(math.Floor(xf)), uint32(math.Floor(yf))
}

// Valid проверяет инвариант 0 ≤ x,y < 2^zoom
func Valid(zoom, x, y uint32) bool {
	if zoom >= 32 {
		return false
	}
	n := uint64(1) << zoom
	return uint64(x) < n && uint64(y) < n
}

// Path возвращает URL-путь тайлового сервера для тайла, содержащего точку
func Path(lat, lon float64, zoom uint32) string {
	x, y := LatLonToTile(lat, lon, zoom)
	return fmt.Sprintf("/%d/%d/%d.json", zoom, x, y)
}

// tileLat - широта северного края строки тайлов y (обратный Меркатор)
func tileLat(y, zoom uint32) float64 {
	n := math.Exp2(float64(zoom))
	latRad := math.Atan(math.Sinh(math.Pi * (1.0 - 2.0*float64(y)/n)))
	return latRad * 180.0 / math.Pi
}

// tileLon - долгота западного края столбца тайлов x
func tileLon(x, zoom uint32) float64 {
	n := math.Exp2(float64(zoom))
	return float64(x)/n*360.0 - 180.0
}
