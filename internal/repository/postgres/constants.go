package postgres

import (
	"fmt"
	"time"
)

const (
	dbPingTimeout = 5 * time.Second

	errAssetNotFound = "asset not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedCreateAssetFmt  = "failed to create asset"
	errFailedGetAssetFmt     = "failed to get asset"
	errFailedListAssetsFmt   = "failed to list assets"
	errFailedScanAssetFmt    = "failed to scan asset"
	errIterateAssetsFmt      = "error iterating assets"
	errFailedUpdateAssetFmt  = "failed to update asset"
	errFailedDeleteAssetFmt  = "failed to delete asset"
	errConstraintViolatedFmt = "input violates a storage constraint"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
)
