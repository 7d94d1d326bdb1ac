package dbscan

// FilterMinClusterSize relabels clusters with fewer than minSize members as
// noise and renumbers the survivors 0..k-1 in order of first appearance. The
// input is not modified. minSize <= 1 returns a copy unchanged.
func FilterMinClusterSize(labels []int, minSize int) []int {
	out := make([]int, len(labels))
	copy(out, labels)
	if minSize <= 1 {
		return out
	}

	sizes := make(map[int]int)
	for _, l := range labels {
		if l >= 0 {
			sizes[l]++
		}
	}

	remap := make(map[int]int)
	next := 0
	for i, l := range labels {
		if l < 0 {
			continue
		}
		if sizes[l] < minSize {
			out[i] = Noise
			continue
		}
		id, ok := remap[l]
		if !ok {
			id = next
			remap[l] = id
			next++
		}
		out[i] = id
	}
	return out
}

// Summary describes a label set.
type Summary struct {
	Clusters int   // Number of clusters
	Noise    int   // Number of noise points
	Sizes    []int // Members per cluster id
}

// Summarize counts cluster sizes and noise in labels.
func Summarize(labels []int) Summary {
	var s Summary
	for _, l := range labels {
		if l < 0 {
			s.Noise++
			continue
		}
		for len(s.Sizes) <= l {
			s.Sizes = append(s.Sizes, 0)
		}
		s.Sizes[l]++
	}
	s.Clusters = len(s.Sizes)
	return s
}
