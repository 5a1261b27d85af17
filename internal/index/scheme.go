package index

var (
	bEpisodes = []byte("episodes")   // composite key -> episode JSON
	bOrdinal  = []byte("by_ordinal") // zero-padded ordinal -> composite key
	bSnapshot = []byte("snapshot")   // "current" -> Snapshot JSON
)
