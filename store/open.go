package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mensylisir/ipsprint/config"
	"github.com/mensylisir/ipsprint/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLogger routes gorm's slow-query and error reports into the store log.
func gormLogger(driver string) gormlogger.Interface {
	return gormlogger.New(logger.Log.ForStore(driver), gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Open builds the Store selected by spec. Remote backends get a read cache
// when spec.CacheTTL is positive.
func Open(ctx context.Context, spec config.StoreSpec) (Store, error) {
	var (
		s   Store
		err error
	)
	switch spec.Driver {
	case config.DriverFile:
		s, err = NewFileStore(spec.Path)
	case config.DriverSQLite, config.DriverPostgres:
		s, err = OpenSQL(spec.Driver, spec.DSN, WithGormLogger(gormLogger(spec.Driver)))
	case config.DriverRedis:
		s, err = OpenRedis(ctx, spec.RedisURL)
	default:
		return nil, errors.Wrapf(ErrUnknownDriver, "%q", spec.Driver)
	}
	if err != nil {
		return nil, err
	}

	if spec.CacheTTL > 0 {
		logger.Log.ForStore(spec.Driver).Debugf("caching reads for %s", spec.CacheTTL)
		return NewCached(s, spec.CacheTTL), nil
	}
	return s, nil
}
