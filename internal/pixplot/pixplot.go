// Package pixplot reads the output files of a PixPlot clustering run:
// the hotspot file describing labeled clusters and the image manifest
// listing every image of the run. Cluster membership is expressed as
// zero-based positions into the manifest, so manifest order is part of
// the contract.
package pixplot

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrClusterNotFound is returned when a requested cluster label does not
// exist in the hotspot file. A typo in the configured labels must abort
// the run instead of yielding a silent empty selection.
var ErrClusterNotFound = errors.New("cluster not found")

// Cluster is one labeled hotspot. Images holds zero-based indices into
// the image manifest of the same run.
type Cluster struct {
	Label  string `json:"label"`
	Images []int  `json:"images"`
}

// Hotspots is the cluster list of one hotspot file, in file order.
type Hotspots []Cluster

// Find returns the first cluster carrying the given label.
func (h Hotspots) Find(label string) (Cluster, bool) {
	for _, c := range h {
		if c.Label == label {
			return c, true
		}
	}
	return Cluster{}, false
}

// Labels returns the cluster labels in file order.
func (h Hotspots) Labels() []string {
	labels := make([]string, 0, len(h))
	for _, c := range h {
		labels = append(labels, c.Label)
	}
	return labels
}

// ParseHotspots decodes a hotspot file. Unknown fields are ignored.
func ParseHotspots(data []byte) (Hotspots, error) {
	var h Hotspots
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse hotspot file: %w", err)
	}
	return h, nil
}

type imageList struct {
	Images []string `json:"images"`
}

// ParseImageList decodes an image manifest and returns the ordered
// filename list. A manifest without an images key is malformed.
func ParseImageList(data []byte) ([]string, error) {
	var m imageList
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse image manifest: %w", err)
	}
	if m.Images == nil {
		return nil, fmt.Errorf("parse image manifest: missing images key")
	}
	return m.Images, nil
}

// HotspotPath returns the hotspot file path of a run, relative to the
// PixPlot output root.
func HotspotPath(runUUID string) string {
	return fmt.Sprintf("hotspots/hotspot-%s.json", runUUID)
}

// ImageListPath returns the image manifest path of a run, relative to
// the PixPlot output root.
func ImageListPath(runUUID string) string {
	return fmt.Sprintf("imagelists/imagelist-%s.json", runUUID)
}
