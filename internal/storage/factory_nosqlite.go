//go:build !sqlite

package storage

import "errors"

func defaultStoreKind() string { return KindMemory }

func newSQLiteStore(path string) (Store, error) {
	return nil, errors.New("sqlite backend unavailable in this build; rebuild with -tags sqlite")
}
