package redis

import (
	"fmt"

	"github.com/mcoot/sleuthgame-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "sleuth"

// sessionKey returns the Redis key for a Session snapshot
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%d", keyPrefix, id)
}

// sessionIndexKey returns the Redis key for the SET of all session IDs
func sessionIndexKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}

// playerIndexKey returns the Redis key for the HASH of player ID -> session ID
func playerIndexKey() string {
	return fmt.Sprintf("%s:idx:player_session", keyPrefix)
}

// sessionSeqKey returns the Redis key for the session ID counter
func sessionSeqKey() string {
	return fmt.Sprintf("%s:seq:session", keyPrefix)
}

// playerSeqKey returns the Redis key for the player ID counter
func playerSeqKey() string {
	return fmt.Sprintf("%s:seq:player", keyPrefix)
}
