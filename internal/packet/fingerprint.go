package packet

import (
	"encoding/binary"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes file names and contents. Packets with the same files,
// regardless of map order or name case, share a fingerprint.
func Fingerprint(files Files) uint64 {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := strings.Compare(strings.ToUpper(a), strings.ToUpper(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	h := xxhash.New()
	var size [8]byte
	for _, name := range names {
		data := files[name]
		_, _ = h.WriteString(strings.ToUpper(name))
		binary.LittleEndian.PutUint64(size[:], uint64(len(data)))
		_, _ = h.Write(size[:])
		_, _ = h.Write(data)
	}
	return h.Sum64()
}
