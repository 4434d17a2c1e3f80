package analysis

import (
	"fmt"

	"github.com/history-unibas/Pix-Plot-Image-Analysis/internal/pixplot"
)

// Resolve projects the clusters of interest onto the annotated manifest.
// Every label must match a cluster (a typo in the configuration must not
// yield a silent empty selection) and every cluster image index must be
// a valid manifest position. Indices occurring in several clusters
// collapse; the selection is the matching subsequence of the manifest in
// manifest order.
func Resolve(hotspots pixplot.Hotspots, manifest []ImageRecord, labels []string) ([]ImageRecord, error) {
	selected := make(map[int]struct{})
	for _, label := range labels {
		cluster, ok := hotspots.Find(label)
		if !ok {
			return nil, fmt.Errorf("label %q: %w", label, pixplot.ErrClusterNotFound)
		}
		for _, idx := range cluster.Images {
			if idx < 0 || idx >= len(manifest) {
				return nil, fmt.Errorf("cluster %q: image index %d outside manifest of %d images", label, idx, len(manifest))
			}
			selected[idx] = struct{}{}
		}
	}

	selection := make([]ImageRecord, 0, len(selected))
	for i, rec := range manifest {
		if _, ok := selected[i]; ok {
			selection = append(selection, rec)
		}
	}
	return selection, nil
}
