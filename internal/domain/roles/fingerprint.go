package roles

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/okian/playstyle/internal/domain/model"
)

// Fingerprint identifies a player pool: the admitted players with their roles
// and every observation that feeds role statistics. Pools that differ in
// membership or values hash differently; input order does not matter.
func Fingerprint(admitted map[int64]Admission, obs []model.PlayerObservation) uint64 {
	ids := make([]int64, 0, len(admitted))
	for id := range admitted {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	d := xxhash.New()
	var buf [8]byte
	putInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = d.Write(buf[:])
	}
	for _, id := range ids {
		putInt(id)
		_, _ = d.WriteString(string(admitted[id].Role))
	}

	// Observations are folded in order-independently by summing per-row hashes.
	var rows uint64
	for _, o := range obs {
		if _, ok := admitted[o.PlayerID]; !ok {
			continue
		}
		h := xxhash.New()
		var b [8]byte
		for _, v := range []uint64{uint64(o.PlayerID), uint64(o.Key.TeamID), uint64(o.Key.ManagerID), math.Float64bits(o.Value)} {
			binary.LittleEndian.PutUint64(b[:], v)
			_, _ = h.Write(b[:])
		}
		_, _ = h.WriteString(o.Metric)
		rows += h.Sum64()
	}
	putInt(int64(rows))
	return d.Sum64()
}
