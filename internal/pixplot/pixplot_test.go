package pixplot

import "testing"

func TestParseHotspots(t *testing.T) {
	t.Parallel()

	data := []byte(`[
		{"label": "Cluster 8", "images": [3, 0, 7], "layout": "umap"},
		{"label": "Cluster 9", "images": [1]},
		{"label": "Cluster 9", "images": [5]}
	]`)

	h, err := ParseHotspots(data)
	if err != nil {
		t.Fatalf("ParseHotspots: %v", err)
	}
	if len(h) != 3 {
		t.Fatalf("got %d clusters, want 3", len(h))
	}

	c, ok := h.Find("Cluster 8")
	if !ok {
		t.Fatal("Cluster 8 not found")
	}
	if len(c.Images) != 3 || c.Images[0] != 3 || c.Images[1] != 0 || c.Images[2] != 7 {
		t.Fatalf("Cluster 8 images = %v, want [3 0 7]", c.Images)
	}

	// Duplicate labels resolve to the first occurrence.
	c, ok = h.Find("Cluster 9")
	if !ok || len(c.Images) != 1 || c.Images[0] != 1 {
		t.Fatalf("Cluster 9 = %v, %v; want first occurrence [1]", c.Images, ok)
	}

	if _, ok := h.Find("Cluster 99"); ok {
		t.Fatal("unknown label should not be found")
	}
}

func TestParseHotspotsMalformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseHotspots([]byte(`{"label": "not an array"}`)); err == nil {
		t.Fatal("expected error for non-array hotspot file")
	}
}

func TestParseImageList(t *testing.T) {
	t.Parallel()

	data := []byte(`{"images": ["HGB_1_001_002_001.jpg", "HGB_1_001_002_002.jpg"], "cell_sizes": [1]}`)

	images, err := ParseImageList(data)
	if err != nil {
		t.Fatalf("ParseImageList: %v", err)
	}
	if len(images) != 2 || images[0] != "HGB_1_001_002_001.jpg" {
		t.Fatalf("images = %v", images)
	}
}

func TestParseImageListEmpty(t *testing.T) {
	t.Parallel()

	images, err := ParseImageList([]byte(`{"images": []}`))
	if err != nil {
		t.Fatalf("ParseImageList: %v", err)
	}
	if len(images) != 0 {
		t.Fatalf("images = %v, want empty", images)
	}
}

func TestParseImageListMissingKey(t *testing.T) {
	t.Parallel()

	if _, err := ParseImageList([]byte(`{"atlas": {}}`)); err == nil {
		t.Fatal("expected error for manifest without images key")
	}
}

func TestRunPaths(t *testing.T) {
	t.Parallel()

	const id = "26a16624-ce6a-11ed-aadf-0050b6fb31c5"
	if got := HotspotPath(id); got != "hotspots/hotspot-"+id+".json" {
		t.Fatalf("HotspotPath = %q", got)
	}
	if got := ImageListPath(id); got != "imagelists/imagelist-"+id+".json" {
		t.Fatalf("ImageListPath = %q", got)
	}
}
