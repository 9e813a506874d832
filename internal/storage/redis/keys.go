package redis

import "fmt"

// snapshotKey returns the Redis key holding the current sealed snapshot
func snapshotKey(prefix string) string {
	return fmt.Sprintf("%s:snapshot", prefix)
}

// historyKey returns the Redis key for the LIST of previous snapshots, newest first
func historyKey(prefix string) string {
	return fmt.Sprintf("%s:snapshot:history", prefix)
}
