package searchdb

import "context"

type DB interface {
	Select(ctx context.Context, query string, args ...any) ([]Row, error)
	InsertPackage(ctx context.Context, pkg Package) error
	RefreshSearchView(ctx context.Context) error
	Close() error
}
