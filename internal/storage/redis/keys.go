package redis

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/mcoot/tetris-showcase/internal/model"
)

// keyspace builds every key under one prefix
type keyspace string

func (k keyspace) join(parts ...string) string {
	key := string(k)
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// record is the JSON document for a LeaderboardRecord
func (k keyspace) record(id model.RecordID) string {
	return k.join("record", string(id))
}

// leaderboard is the ZSET of record ids scored by game score
func (k keyspace) leaderboard() string {
	return k.join("idx", "leaderboard")
}

func (k keyspace) admin(username string) string {
	return k.join("admin", username)
}

// adminToken keys a session by digest so bearer values never appear in the keyspace
func (k keyspace) adminToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return k.join("admintoken", hex.EncodeToString(sum[:]))
}
