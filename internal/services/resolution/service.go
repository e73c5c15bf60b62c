package resolution

//go:generate mockgen -destination=mock/mock_service.go -package=mockresolution -source=service.go

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
	"github.com/KirkDiggler/wargame-mechanics/internal/engine"
	"github.com/KirkDiggler/wargame-mechanics/internal/errors"
	"github.com/KirkDiggler/wargame-mechanics/internal/repositories/resolutions"
	"github.com/KirkDiggler/wargame-mechanics/internal/uuid"
)

const defaultBatchLimit = 8

// Repository is an alias for the resolution repository interface
type Repository = resolutions.Repository

// Record is an alias for a stored resolution
type Record = resolutions.Record

// Service defines the resolution service interface
type Service interface {
	// Resolve returns the resolution of a context, computing and storing it on a cache miss
	Resolve(ctx context.Context, combatCtx *combat.Context) (*Record, error)

	// ResolveBatch resolves several contexts concurrently, keeping input order
	ResolveBatch(ctx context.Context, combatCtxs []*combat.Context) ([]*Record, error)

	// Invalidate drops the stored resolution of a context
	Invalidate(ctx context.Context, combatCtx *combat.Context) error
}

// service implements the Service interface
type service struct {
	repository    Repository
	resolver      engine.Resolver
	uuidGenerator uuid.Generator
	logger        *zap.Logger
	batchLimit    int
	ruleset       string
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository    Repository      // Required
	Resolver      engine.Resolver // Required
	UUIDGenerator uuid.Generator  // Optional, will use default if nil
	Logger        *zap.Logger     // Optional
	BatchLimit    int             // Optional, concurrent resolutions in a batch
	Ruleset       string          // Optional, fingerprint of the rules the resolver was built with
}

// NewService creates a new resolution service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.Resolver == nil {
		panic("resolver is required")
	}

	svc := &service{
		repository:    cfg.Repository,
		resolver:      cfg.Resolver,
		uuidGenerator: cfg.UUIDGenerator,
		logger:        cfg.Logger,
		batchLimit:    cfg.BatchLimit,
		ruleset:       cfg.Ruleset,
	}

	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.batchLimit <= 0 {
		svc.batchLimit = defaultBatchLimit
	}

	return svc
}

// Key hashes the ruleset fingerprint and the canonical JSON form of a
// context. Equal contexts resolved under the same rules share a key.
func Key(ruleset string, combatCtx *combat.Context) (string, error) {
	data, err := json.Marshal(combatCtx)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to encode combat context")
	}

	d := xxhash.New()
	_, _ = d.WriteString(ruleset)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(data)
	return fmt.Sprintf("%016x", d.Sum64()), nil
}

// Resolve returns the stored resolution for the context or computes a new one
func (s *service) Resolve(ctx context.Context, combatCtx *combat.Context) (*Record, error) {
	if !combatCtx.IsComplete() {
		return nil, errors.InvalidArgument("select a target")
	}

	key, err := Key(s.ruleset, combatCtx)
	if err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("key", key))

	record, err := s.repository.Get(ctx, key)
	switch {
	case err == nil:
		log.Debug("resolution cache hit")
		return record, nil
	case errors.IsNotFound(err):
		log.Debug("resolution cache miss")
	default:
		// The store is a cache; a failed read only costs a recomputation
		log.Warn("failed to read cached resolution", errors.Field(err))
	}

	res, ok := s.resolver.Resolve(combatCtx)
	if !ok {
		return nil, errors.InvalidArgument("select a target")
	}

	record = &Record{
		ID:         s.uuidGenerator.New(),
		Key:        key,
		Resolution: res,
	}
	if err := s.repository.Put(ctx, record); err != nil {
		log.Error("failed to store resolution", errors.Field(err))
		return nil, errors.Wrap(err, "failed to store resolution")
	}

	return record, nil
}

// ResolveBatch resolves every context, stopping at the first failure
func (s *service) ResolveBatch(ctx context.Context, combatCtxs []*combat.Context) ([]*Record, error) {
	out := make([]*Record, len(combatCtxs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)

	for i, combatCtx := range combatCtxs {
		i, combatCtx := i, combatCtx
		g.Go(func() error {
			record, err := s.Resolve(gctx, combatCtx)
			if err != nil {
				return errors.Wrapf(err, "failed to resolve context %d", i).WithMeta("index", i)
			}
			out[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Invalidate removes the stored resolution of a context. Missing records are not an error.
func (s *service) Invalidate(ctx context.Context, combatCtx *combat.Context) error {
	if combatCtx == nil {
		return errors.InvalidArgument("combat context is required")
	}

	key, err := Key(s.ruleset, combatCtx)
	if err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, key); err != nil && !errors.IsNotFound(err) {
		return errors.Wrap(err, "failed to invalidate resolution")
	}
	return nil
}
