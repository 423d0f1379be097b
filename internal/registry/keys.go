package registry

import (
	"Babel/internal/market"
)

// Key prefixes for registry records.
var (
	prefixProject     = []byte("p:")  // p:<id> -> Project flatbuffer
	prefixTranslation = []byte("t:")  // t:<id><translator> -> Translation flatbuffer
	prefixVotes       = []byte("tv:") // tv:<id><translator> -> uint64 yes-vote mirror
	keyProjectSeq     = []byte("seq:project")
)

// makeProjectKey creates a key for a project: "p:" + id (8 bytes BE).
func makeProjectKey(id uint64) []byte {
	key := make([]byte, 0, len(prefixProject)+8)
	key = append(key, prefixProject...)

	return market.AppendUint64(key, id)
}

// makeTranslationKey creates a key for a translation: "t:" + id (8 bytes BE) + translator.
func makeTranslationKey(id uint64, translator market.Account) []byte {
	return makePairKey(prefixTranslation, id, translator)
}

// makeVotesKey creates a key for the mirrored yes-vote count of a translation.
func makeVotesKey(id uint64, translator market.Account) []byte {
	return makePairKey(prefixVotes, id, translator)
}

func makePairKey(prefix []byte, id uint64, translator market.Account) []byte {
	key := make([]byte, 0, len(prefix)+8+len(translator))
	key = append(key, prefix...)
	key = market.AppendUint64(key, id)

	return append(key, translator...)
}
