// Package posting implements goods-receipt posting: an idempotent, atomic
// operation that moves a GRN to POSTED, folds its lines into the
// weighted-average stock balances, and records a posting group under the
// caller's idempotency key.
package posting

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	domacc "github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/posting"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionScope runs a function against transactional repositories
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories participating in a
// posting transaction.
type TransactionalRepositories interface {
	GRNs() posting.GRNRepository
	PostingGroups() posting.PostingGroupRepository
	StockBalances() posting.StockBalanceRepository
}

// IdempotencyCache remembers recent (tenant, key) -> posting group mappings.
// It is an optimization in front of the unique constraint, never a substitute
// for it: a miss or an unavailable cache only costs a database lookup.
type IdempotencyCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, key string) (uuid.UUID, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, key string, groupID uuid.UUID) error
}

// PostingService posts goods receipts into stock
type PostingService struct {
	grns    posting.GRNRepository
	groups  posting.PostingGroupRepository
	txScope TransactionScope
	cache   IdempotencyCache
	logger  *zap.Logger
}

// NewPostingService creates a posting service. cache may be nil, in which
// case every request goes straight to the database lookup.
func NewPostingService(
	grns posting.GRNRepository,
	groups posting.PostingGroupRepository,
	txScope TransactionScope,
	cache IdempotencyCache,
	logger *zap.Logger,
) *PostingService {
	return &PostingService{
		grns:    grns,
		groups:  groups,
		txScope: txScope,
		cache:   cache,
		logger:  logger,
	}
}

// PostingResultDTO is the outcome of a post request. Replayed is true when
// the idempotency key had already been used and the stored result was
// returned instead of posting again.
type PostingResultDTO struct {
	PostingGroupID uuid.UUID       `json:"posting_group_id"`
	SourceID       uuid.UUID       `json:"source_id"`
	SourceType     string          `json:"source_type"`
	PostingDate    time.Time       `json:"posting_date"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	TotalValue     decimal.Decimal `json:"total_value"`
	Replayed       bool            `json:"replayed"`
}

// PostGRN posts the GRN identified by grnID under the given idempotency key,
// recording postingDate on the posting group. A zero postingDate defaults to
// the current time. Reposting with the same key returns the original result;
// reposting an already posted GRN under a new key fails with ALREADY_POSTED.
func (s *PostingService) PostGRN(ctx context.Context, scope domacc.Scope, grnID uuid.UUID, postingDate time.Time, idempotencyKey string) (*PostingResultDTO, error) {
	if scope.Role != identity.RoleTenantAdmin && scope.Role != identity.RoleAccountant {
		return nil, shared.ErrForbidden
	}
	if idempotencyKey == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Idempotency key is required")
	}
	if postingDate.IsZero() {
		postingDate = time.Now()
	}

	if result, ok := s.replayFromCache(ctx, scope, idempotencyKey); ok {
		return result, nil
	}

	if group, err := s.groups.FindByIdempotencyKey(ctx, idempotencyKey); err == nil {
		return s.replay(ctx, scope, group), nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed idempotency lookup", zap.Error(err))
		return nil, shared.ErrInternal
	}

	var group *posting.PostingGroup
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		grn, err := repos.GRNs().FindByIDForUpdate(ctx, grnID)
		if err != nil {
			return err
		}
		if err := grn.ValidateForPosting(); err != nil {
			return err
		}

		if err := s.applyLines(ctx, repos, scope, grn); err != nil {
			return err
		}

		if err := grn.MarkPosted(time.Now()); err != nil {
			return err
		}
		if err := repos.GRNs().Update(ctx, grn); err != nil {
			return err
		}

		group, err = posting.NewPostingGroup(scope.TenantID, idempotencyKey, posting.SourceTypeGRN,
			grn.ID, postingDate, grn.TotalQuantity(), grn.TotalValue())
		if err != nil {
			return err
		}
		return repos.PostingGroups().Create(ctx, group)
	})
	if err != nil {
		// A concurrent request won the race on (tenant, key). Its committed
		// group is the result of this request too.
		if errors.Is(err, shared.ErrAlreadyExists) {
			existing, lookupErr := s.groups.FindByIdempotencyKey(ctx, idempotencyKey)
			if lookupErr != nil {
				s.logger.Error("Failed to re-read posting group after conflict", zap.Error(lookupErr))
				return nil, shared.ErrInternal
			}
			return s.replay(ctx, scope, existing), nil
		}
		var de *shared.DomainError
		if errors.As(err, &de) {
			return nil, de
		}
		s.logger.Error("Posting transaction failed", zap.Error(err), zap.String("grn_id", grnID.String()))
		return nil, shared.ErrInternal
	}

	s.cacheResult(ctx, scope, idempotencyKey, group.ID)

	s.logger.Info("GRN posted",
		zap.String("grn_id", grnID.String()),
		zap.String("posting_group_id", group.ID.String()))
	return toResultDTO(group, false), nil
}

// GetGRN returns one GRN of the caller's tenant
func (s *PostingService) GetGRN(ctx context.Context, scope domacc.Scope, id uuid.UUID) (*posting.GRN, error) {
	return s.grns.FindByID(ctx, id)
}

// applyLines folds the GRN lines into the stock balances. Lines are applied
// in (store, item) order so concurrent postings lock balance rows in the
// same sequence.
func (s *PostingService) applyLines(ctx context.Context, repos TransactionalRepositories, scope domacc.Scope, grn *posting.GRN) error {
	lines := make([]posting.GRNLine, len(grn.Lines))
	copy(lines, grn.Lines)
	sort.Slice(lines, func(i, j int) bool {
		if c := bytes.Compare(lines[i].StoreID[:], lines[j].StoreID[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(lines[i].ItemID[:], lines[j].ItemID[:]) < 0
	})

	for _, line := range lines {
		balance, err := repos.StockBalances().FindForUpdate(ctx, line.StoreID, line.ItemID)
		if errors.Is(err, shared.ErrNotFound) {
			balance = posting.NewStockBalance(scope.TenantID, line.StoreID, line.ItemID)
			if err := balance.Receive(line.Quantity, line.UnitCost); err != nil {
				return err
			}
			if err := repos.StockBalances().Create(ctx, balance); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if err := balance.Receive(line.Quantity, line.UnitCost); err != nil {
			return err
		}
		if err := repos.StockBalances().Update(ctx, balance); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostingService) replayFromCache(ctx context.Context, scope domacc.Scope, key string) (*PostingResultDTO, bool) {
	if s.cache == nil {
		return nil, false
	}
	groupID, hit, err := s.cache.Get(ctx, scope.TenantID, key)
	if err != nil {
		s.logger.Warn("Idempotency cache unavailable", zap.Error(err))
		return nil, false
	}
	if !hit {
		return nil, false
	}
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		// Stale cache entry; the database lookup decides.
		return nil, false
	}
	return toResultDTO(group, true), true
}

func (s *PostingService) replay(ctx context.Context, scope domacc.Scope, group *posting.PostingGroup) *PostingResultDTO {
	s.cacheResult(ctx, scope, group.IdempotencyKey, group.ID)
	return toResultDTO(group, true)
}

func (s *PostingService) cacheResult(ctx context.Context, scope domacc.Scope, key string, groupID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, scope.TenantID, key, groupID); err != nil {
		s.logger.Warn("Failed to cache posting result", zap.Error(err))
	}
}

func toResultDTO(group *posting.PostingGroup, replayed bool) *PostingResultDTO {
	return &PostingResultDTO{
		PostingGroupID: group.ID,
		SourceID:       group.SourceID,
		SourceType:     group.SourceType,
		PostingDate:    group.PostingDate,
		TotalQuantity:  group.TotalQuantity,
		TotalValue:     group.TotalValue,
		Replayed:       replayed,
	}
}
