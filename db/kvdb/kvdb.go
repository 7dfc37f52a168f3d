package kvdb

type DB interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	Close() error
}

const (
	// RefreshBucket holds metadata about search view rebuilds.
	RefreshBucket = "refresh"
	// RequestsBucket holds the status of individual refresh requests.
	RequestsBucket = "requests"
)

const LastRefreshKey = "__last_refresh_time__"
