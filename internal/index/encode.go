package index

import (
	"encoding/binary"
	"fmt"
	"math"
	"podarc/internal/domain/catalog"
)

// key = invDate(8) + invOrdinal(8) + 0x00 + title
//
// Both numeric parts are bias-shifted and inverted so that ascending bucket
// iteration walks date descending, then ordinal descending, then title byte
// ascending, which is the canonical listing order. Undated episodes take
// the minimum date value and land last.
func makeEpisodeKey(e catalog.Episode) []byte {
	nano := int64(math.MinInt64)
	if e.HasDate() {
		nano = e.Date.UnixNano()
	}
	invDate := ^(uint64(nano) + 1<<63)
	invOrdinal := ^uint64(e.Ordinal)

	buf := make([]byte, 0, 8+8+1+len(e.Title))
	tmp := make([]byte, 8)

	binary.BigEndian.PutUint64(tmp, invDate)
	buf = append(buf, tmp...)

	binary.BigEndian.PutUint64(tmp, invOrdinal)
	buf = append(buf, tmp...)

	buf = append(buf, 0x00)
	buf = append(buf, []byte(e.Title)...)
	return buf
}

func makeOrdinalKey(ordinal int) []byte {
	return []byte(fmt.Sprintf("%010d", ordinal))
}
