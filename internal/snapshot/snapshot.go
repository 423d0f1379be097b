package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"Babel/internal/storage"
	"Babel/internal/types"
)

// snapshotVersion is the current snapshot format version.
// Version 2 tags every entry with the store it belongs to.
const snapshotVersion = 2

// Store is one named storage carried by a snapshot.
type Store struct {
	Name string
	DB   *storage.Storage
}

// Info describes an applied snapshot.
type Info struct {
	Version uint32         // Version is the snapshot format version
	Height  uint64         // Height is the progress counter at export time
	Entries int            // Entries is the number of records restored
	Stores  map[string]int // Stores is the number of records restored per store
	Digest  [32]byte       // Digest is the verified checksum
}

// entry holds one storage record.
type entry struct {
	store string
	key   []byte
	value []byte
}

// Create exports every record of the given stores as a checksummed FlatBuffers snapshot.
// Keys are visited in storage order, which makes the output deterministic.
//
// Each store is read from its own point-in-time view, in argument order. A store
// whose writes commit before another's (escrow before market) must come after it,
// so the export never holds a record whose counterpart is missing.
func Create(height uint64, stores ...Store) ([]byte, error) {
	var entries []entry

	seen := make(map[string]bool, len(stores))
	for _, st := range stores {
		if st.Name == "" || seen[st.Name] {
			return nil, fmt.Errorf("invalid store name %q", st.Name)
		}
		seen[st.Name] = true

		collected, err := collectEntries(st)
		if err != nil {
			return nil, fmt.Errorf("collect %s entries:\n%w", st.Name, err)
		}
		entries = append(entries, collected...)
	}

	return buildSnapshot(height, entries), nil
}

// collectEntries copies every key-value pair out of a point-in-time view,
// so concurrent transactions cannot tear the export.
func collectEntries(st Store) ([]entry, error) {
	var entries []entry

	err := st.DB.View(func(v *storage.View) error {
		return v.Scan(nil, func(key, value []byte) error {
			entries = append(entries, entry{
				store: st.Name,
				key:   append([]byte(nil), key...),
				value: append([]byte(nil), value...),
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// buildSnapshot creates the FlatBuffers snapshot with checksum.
func buildSnapshot(height uint64, entries []entry) []byte {
	checksum := computeChecksum(snapshotVersion, height, entries)

	builder := flatbuffers.NewBuilder(1024)

	offsets := make([]flatbuffers.UOffsetT, len(entries))
	for i, e := range entries {
		keyOffset := builder.CreateByteVector(e.key)
		valueOffset := builder.CreateByteVector(e.value)
		storeOffset := builder.CreateString(e.store)

		types.SnapshotEntryStart(builder)
		types.SnapshotEntryAddKey(builder, keyOffset)
		types.SnapshotEntryAddValue(builder, valueOffset)
		types.SnapshotEntryAddStore(builder, storeOffset)
		offsets[i] = types.SnapshotEntryEnd(builder)
	}

	types.SnapshotStartEntriesVector(builder, len(offsets))
	for i := len(offsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(offsets[i])
	}
	entriesVector := builder.EndVector(len(offsets))

	checksumOffset := builder.CreateByteVector(checksum[:])

	types.SnapshotStart(builder)
	types.SnapshotAddVersion(builder, snapshotVersion)
	types.SnapshotAddHeight(builder, height)
	types.SnapshotAddEntries(builder, entriesVector)
	types.SnapshotAddChecksum(builder, checksumOffset)
	builder.Finish(types.SnapshotEnd(builder))

	return builder.FinishedBytes()
}

// computeChecksum computes a blake3 checksum over canonical snapshot data.
// Format: version (4 bytes) + height (8 bytes) + for each entry: store len, store, key len, key, value len, value.
func computeChecksum(version uint32, height uint64, entries []entry) [32]byte {
	hasher := blake3.New()

	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], version)
	hasher.Write(buf[:4])

	binary.BigEndian.PutUint64(buf[:], height)
	hasher.Write(buf[:])

	for _, e := range entries {
		binary.BigEndian.PutUint32(buf[:4], uint32(len(e.store)))
		hasher.Write(buf[:4])
		hasher.Write([]byte(e.store))

		binary.BigEndian.PutUint32(buf[:4], uint32(len(e.key)))
		hasher.Write(buf[:4])
		hasher.Write(e.key)

		binary.BigEndian.PutUint32(buf[:4], uint32(len(e.value)))
		hasher.Write(buf[:4])
		hasher.Write(e.value)
	}

	var checksum [32]byte
	hasher.Sum(checksum[:0])

	return checksum
}

// Compress compresses snapshot data using zstd.
func Compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create encoder:\n%w", err)
	}
	defer encoder.Close()

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses zstd-compressed snapshot data.
func Decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create decoder:\n%w", err)
	}
	defer decoder.Close()

	return decoder.DecodeAll(data, nil)
}

// Apply verifies a snapshot and writes each store's records atomically.
// Every entry must belong to one of the given stores; nothing is written otherwise.
// Existing keys not present in the snapshot are left untouched.
func Apply(data []byte, stores ...Store) (Info, error) {
	if len(data) < 8 {
		return Info{}, fmt.Errorf("snapshot too short: %d bytes", len(data))
	}

	snap := types.GetRootAsSnapshot(data, 0)

	if v := snap.Version(); v != snapshotVersion {
		return Info{}, fmt.Errorf("unsupported snapshot version %d", v)
	}

	entries, err := readEntries(snap)
	if err != nil {
		return Info{}, err
	}

	digest, err := verifyChecksum(snap, entries)
	if err != nil {
		return Info{}, fmt.Errorf("verify checksum:\n%w", err)
	}

	targets := make(map[string]*storage.Storage, len(stores))
	for _, st := range stores {
		targets[st.Name] = st.DB
	}

	pairs := make(map[string][]storage.KeyValue)
	for _, e := range entries {
		if _, ok := targets[e.store]; !ok {
			return Info{}, fmt.Errorf("snapshot holds records for store %q, which is not configured", e.store)
		}
		pairs[e.store] = append(pairs[e.store], storage.KeyValue{Key: e.key, Value: e.value})
	}

	counts := make(map[string]int, len(pairs))
	for _, st := range stores {
		batch := pairs[st.Name]
		if len(batch) == 0 {
			continue
		}

		if err := st.DB.SetBatch(batch); err != nil {
			return Info{}, fmt.Errorf("write %s entries:\n%w", st.Name, err)
		}
		counts[st.Name] = len(batch)
	}

	return Info{
		Version: snap.Version(),
		Height:  snap.Height(),
		Entries: len(entries),
		Stores:  counts,
		Digest:  digest,
	}, nil
}

// readEntries copies the entries out of the FlatBuffers buffer.
func readEntries(snap *types.Snapshot) ([]entry, error) {
	entries := make([]entry, snap.EntriesLength())
	var e types.SnapshotEntry

	for i := range entries {
		if !snap.Entries(&e, i) {
			return nil, fmt.Errorf("read entry %d", i)
		}

		key := make([]byte, len(e.KeyBytes()))
		copy(key, e.KeyBytes())

		value := make([]byte, len(e.ValueBytes()))
		copy(value, e.ValueBytes())

		entries[i] = entry{store: string(e.Store()), key: key, value: value}
	}

	return entries, nil
}

// verifyChecksum recomputes the checksum over the decoded entries.
func verifyChecksum(snap *types.Snapshot, entries []entry) ([32]byte, error) {
	stored := snap.ChecksumBytes()
	if len(stored) != 32 {
		return [32]byte{}, fmt.Errorf("invalid checksum length: %d", len(stored))
	}

	computed := computeChecksum(snap.Version(), snap.Height(), entries)

	if !bytes.Equal(computed[:], stored) {
		return [32]byte{}, fmt.Errorf("checksum mismatch")
	}

	return computed, nil
}
