package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
)

// Backends that produce an Error.
const (
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Op names the command that failed. Badger reuses the Redis names for its
// equivalent key-value calls.
const (
	OpSearch  = "FT.SEARCH"
	OpCount   = "FT.SEARCH LIMIT 0 0"
	OpHGetAll = "HGETALL"
	OpGet     = "GET"
	OpMGet    = "MGET"
	OpSet     = "SET"
	OpPing    = "PING"
)

// Error records which backend failed on which command, and the hadith key
// or index it targeted.
type Error struct {
	Backend string
	Op      string
	Target  string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Backend != "" {
		msg = e.Backend + " " + msg
	}
	if e.Target != "" {
		msg += " " + e.Target
	}
	return msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
