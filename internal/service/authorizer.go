package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"sheetworks-back/internal/apperrors"
	"sheetworks-back/internal/model"
)

const detachedTimeout = 10 * time.Second

const demoCompany = "Demo/Test"

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// AuthorizeInput carries the caller identity plus request metadata that
// feeds the usage log.
type AuthorizeInput struct {
	Key            string
	Email          string
	Tier           Tier
	ClientIP       string
	UserAgent      string
	Origin         string
	Model          string
	Command        string
	SheetOperation string
}

// Decision is the authorization outcome. Reason is populated on deny for
// admin-facing debug detail; it never gates anything.
type Decision struct {
	Granted bool
	Company string
	IsFree  bool
	Reason  error
}

type ActivityRecorder interface {
	Record(ctx context.Context, act Activity) error
}

type AuthorizerService struct {
	log       *zap.Logger
	keys      AuthKeyRepository
	activity  ActivityRecorder
	allowList []string

	detached sync.WaitGroup
}

func NewAuthorizerService(log *zap.Logger, keys AuthKeyRepository, activity ActivityRecorder, allowList []string) *AuthorizerService {
	return &AuthorizerService{
		log:       log,
		keys:      keys,
		activity:  activity,
		allowList: allowList,
	}
}

// Authorize decides premium entitlement. Usage increment, last-used stamp
// and the log write are detached: they run off the critical path, race
// independently and their failures never affect the decision.
func (s *AuthorizerService) Authorize(ctx context.Context, in AuthorizeInput) Decision {
	if in.Tier != TierPremium {
		s.recordDetached(in, model.FreeKeySentinel, model.FreeCompany, true)

		return Decision{Granted: true, Company: model.FreeCompany, IsFree: true}
	}

	if in.Key == "" {
		return Decision{Reason: apperrors.ErrAuthRequired}
	}

	key, err := s.keys.GetByID(ctx, in.Key)

	switch {
	case err == nil && key.IsActive:
		s.detach("usage-increment", func(ctx context.Context) error {
			return s.keys.IncrementUsage(ctx, in.Key)
		})
		s.detach("last-used", func(ctx context.Context) error {
			return s.keys.TouchLastUsed(ctx, in.Key, time.Now().UTC())
		})
		s.recordDetached(in, in.Key, key.Company, false)

		return Decision{Granted: true, Company: key.Company}

	case err == nil:
		// Deactivated keys never grant, not even via the allow-list.
		return Decision{Reason: apperrors.ErrAuthInvalid}

	default:
		if !errors.Is(err, apperrors.ErrKeyDoesNotExist) {
			s.log.Warn("Auth key lookup failed, falling back to allow-list", zap.Error(err))
		}

		if s.allowListed(in.Key) {
			s.recordDetached(in, in.Key, demoCompany, false)

			return Decision{Granted: true, Company: demoCompany}
		}

		return Decision{Reason: apperrors.ErrAuthInvalid}
	}
}

func (s *AuthorizerService) allowListed(key string) bool {
	for _, allowed := range s.allowList {
		if allowed != "" && allowed == key {
			return true
		}
	}

	return false
}

func (s *AuthorizerService) recordDetached(in AuthorizeInput, key, company string, isFree bool) {
	s.detach("activity-log", func(ctx context.Context) error {
		return s.activity.Record(ctx, Activity{
			AuthKey:        key,
			Email:          in.Email,
			Company:        company,
			ClientIP:       in.ClientIP,
			UserAgent:      in.UserAgent,
			Origin:         in.Origin,
			Model:          in.Model,
			Command:        in.Command,
			SheetOperation: in.SheetOperation,
			IsFreeUser:     isFree,
		})
	})
}

// detach launches a fire-and-forget side effect with its own deadline.
// Failures and panics end up in diagnostics only.
func (s *AuthorizerService) detach(name string, fn func(ctx context.Context) error) {
	s.detached.Add(1)

	go func() {
		defer s.detached.Done()

		defer func() {
			if r := recover(); r != nil {
				s.log.Warn("Detached side effect panicked", zap.String("effect", name), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), detachedTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.log.Warn("Detached side effect failed", zap.String("effect", name), zap.Error(err))
		}
	}()
}

// Flush waits for in-flight detached side effects. Used on shutdown and
// in tests; request handling never calls it.
func (s *AuthorizerService) Flush() {
	s.detached.Wait()
}
