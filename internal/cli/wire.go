package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/seqvec/config"
	"github.com/viant/seqvec/encoder"
	"github.com/viant/seqvec/engine"
	"github.com/viant/seqvec/metadata"
	"github.com/viant/seqvec/vectordb"
)

// components are the backends selected by configuration.
type components struct {
	encoder encoder.Encoder
	vectors vectordb.Service
	store   metadata.Store
	closers []func() error
}

func (c *components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	return errors.Join(errs...)
}

func newEncoder(cfg config.EncoderConfig) (encoder.Encoder, error) {
	switch cfg.Provider {
	case "openai":
		opts := []encoder.OpenAIOption{
			encoder.WithModel(cfg.Model),
			encoder.WithOutputDimension(cfg.Dimension),
			encoder.WithRateLimit(cfg.RateLimit, cfg.Burst),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, encoder.WithBaseURL(cfg.BaseURL))
		}
		return encoder.NewOpenAI(cfg.APIKey, opts...), nil
	default:
		return encoder.NewHashing(
			encoder.WithDimension(cfg.Dimension),
			encoder.WithNGramRange(cfg.NGramMin, cfg.NGramMax),
			encoder.WithAlphabet(cfg.Alphabet),
		)
	}
}

// ErrEphemeralBackend is returned for backends that start empty in every
// process. The CLI never writes to the stores, so they could only answer
// with "not found".
var ErrEphemeralBackend = errors.New("cli: backend holds no data across runs")

// checkPersistent rejects index and metadata settings the CLI cannot query.
func checkPersistent(cfg *config.Config) error {
	if cfg.Index.Driver == "memory" {
		return fmt.Errorf(`%w: index.driver "memory" (use "sqlite")`, ErrEphemeralBackend)
	}
	if isMemoryDSN(cfg.Index.DSN) && cfg.Index.Driver == "sqlite" {
		return fmt.Errorf("%w: index.dsn %q", ErrEphemeralBackend, cfg.Index.DSN)
	}
	switch cfg.Metadata.Driver {
	case "badger":
		if cfg.Metadata.Dir == "" {
			return fmt.Errorf("%w: metadata.driver \"badger\" requires metadata.dir", ErrEphemeralBackend)
		}
	case "sqlite":
		if isMemoryDSN(cfg.Metadata.DSN) {
			return fmt.Errorf("%w: metadata.dsn %q", ErrEphemeralBackend, cfg.Metadata.DSN)
		}
	}
	return nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// openComponents opens the configured backends. When index and metadata
// both use SQLite with the same DSN they share one database handle.
func (a *app) openComponents(ctx context.Context) (*components, error) {
	cfg := a.cfg
	if err := checkPersistent(cfg); err != nil {
		return nil, err
	}
	enc, err := newEncoder(cfg.Encoder)
	if err != nil {
		return nil, err
	}
	c := &components{encoder: enc}

	dbs := make(map[string]*sql.DB)
	openDB := func(dsn string) (*sql.DB, error) {
		if db, ok := dbs[dsn]; ok {
			return db, nil
		}
		db, err := engine.Open(dsn)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db.Close)
		dbs[dsn] = db
		return db, nil
	}

	db, err := openDB(cfg.Index.DSN)
	if err != nil {
		return nil, err
	}
	svc, err := vectordb.NewSQLite(ctx, db)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.vectors = svc
	c.closers = append(c.closers, c.vectors.Close)

	switch cfg.Metadata.Driver {
	case "badger":
		store, err := metadata.OpenBadger(metadata.BadgerOptions{
			Dir:    cfg.Metadata.Dir,
			Logger: a.logger,
		})
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.store = store
	default:
		db, err := openDB(cfg.Metadata.DSN)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		store, err := metadata.NewSQLite(db)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.store = store
	}
	c.closers = append(c.closers, c.store.Close)

	a.logger.Debug("components ready",
		"encoder", cfg.Encoder.Provider, "dimension", enc.Dimension(),
		"index", cfg.Index.Driver, "metadata", cfg.Metadata.Driver)
	return c, nil
}
