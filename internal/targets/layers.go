package targets

import "fmt"

// Layer is a base map the viewer can switch to.
type Layer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TileURL     string `json:"tileUrl"`
	Attribution string `json:"attribution"`
}

// DefaultLayer is the layer shown on first load.
const DefaultLayer = "satellite"

var layers = []Layer{
	{
		ID:          "satellite",
		Name:        "Спутник",
		TileURL:     "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
		Attribution: "Esri",
	},
	{
		ID:          "terrain",
		Name:        "Рельеф",
		TileURL:     "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
		Attribution: "OpenTopoMap",
	},
	{
		ID:          "streets",
		Name:        "Улицы",
		TileURL:     "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "OpenStreetMap contributors",
	},
	{
		ID:          "dark",
		Name:        "Ночной",
		TileURL:     "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
		Attribution: "CARTO",
	},
}

// Layers returns the layer catalogue.
func Layers() []Layer {
	out := make([]Layer, len(layers))
	copy(out, layers)
	return out
}

// LayerByID finds a layer in the catalogue.
func LayerByID(id string) (Layer, error) {
	for _, l := range layers {
		if l.ID == id {
			return l, nil
		}
	}
	return Layer{}, fmt.Errorf("layer %q: %w", id, ErrUnknownLayer)
}
