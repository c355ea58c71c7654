package world

// buildVisibility produces the inter-cluster visibility bitset. The bit
// layout of the visibility lump in this format is not understood, so
// unless an external override is supplied every bit is set: all clusters
// see all clusters. Worst-case safe, never fatal.
func buildVisibility(w *World, maxCluster int32, cfg *Config) {
	numClusters := int(maxCluster) + 1
	if numClusters < 1 {
		numClusters = 1
	}
	clusterBytes := (numClusters + 7) >> 3

	w.Vis = VisibilitySet{
		NumClusters:  numClusters,
		ClusterBytes: clusterBytes,
	}

	if cfg.ExternalVis != nil {
		if len(cfg.ExternalVis) >= numClusters*clusterBytes {
			w.Vis.Data = cfg.ExternalVis
			return
		}
		cfg.Logger.Warn("external visibility override too short, ignoring",
			"have", len(cfg.ExternalVis), "need", numClusters*clusterBytes)
	}

	cfg.Logger.Warn("visibility data unsupported, marking all clusters visible",
		"clusters", numClusters)
	data := make([]byte, numClusters*clusterBytes)
	for i := range data {
		data[i] = 0xff
	}
	w.Vis.Data = data
}
