package service

import (
	"context"
	"errors"
	"time"

	"teampot/internal/cache"
	"teampot/internal/models"
	"teampot/internal/repository"
)

// billingPeriod is the length granted per successful payment.
const billingPeriod = 30 * 24 * time.Hour

// PaymentEvent is what the external billing collaborator reports. Signature
// verification and provider calls happen outside this core.
type PaymentEvent struct {
	Reference        string
	AmountCents      int
	CustomerID       string
	SubscriptionCode string
}

// SubscriptionService gates premium features per team and keeps the
// capacity and single-owner invariants when teams are attached or removed.
type SubscriptionService struct {
	subRepo  repository.SubscriptionRepository
	roleRepo repository.RoleRepository
	now      func() time.Time
}

// NewSubscriptionService returns a new SubscriptionService.
func NewSubscriptionService(subRepo repository.SubscriptionRepository, roleRepo repository.RoleRepository) *SubscriptionService {
	return &SubscriptionService{
		subRepo:  subRepo,
		roleRepo: roleRepo,
		now:      time.Now,
	}
}

// HasActiveSubscription reports whether the scope currently benefits from
// premium features. The result is cached briefly; every subscription
// mutation invalidates the scope's entry.
func (s *SubscriptionService) HasActiveSubscription(ctx context.Context, scopeID uint) (bool, error) {
	var entitled bool
	err := cache.Aside(ctx, cache.EntitlementKey(scopeID), &entitled, cache.EntitlementTTL, func() error {
		sub, err := s.subRepo.GetByScopeID(ctx, scopeID)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
				entitled = false
				return nil
			}
			return err
		}

		sub, err = s.reconcilePeriod(ctx, sub)
		if err != nil {
			return err
		}
		entitled = sub.EntitlesAt(s.now())
		return nil
	})
	if err != nil {
		return false, err
	}
	return entitled, nil
}

// reconcilePeriod applies a deferred cancellation whose period boundary has
// passed. There is no background scheduler; reconciliation rides on reads.
func (s *SubscriptionService) reconcilePeriod(ctx context.Context, sub *models.Subscription) (*models.Subscription, error) {
	if sub.Status != models.SubscriptionStatusActive || !sub.CancelAtPeriodEnd {
		return sub, nil
	}
	if sub.CurrentPeriodEnd == nil || sub.CurrentPeriodEnd.After(s.now()) {
		return sub, nil
	}

	sub.Status = models.SubscriptionStatusCancelled
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	s.invalidateScopes(ctx, sub.ID)
	return sub, nil
}

// AddTeamToSubscription attaches a team after the three checks, in order:
// capacity, requester admin role, team unclaimed anywhere.
func (s *SubscriptionService) AddTeamToSubscription(ctx context.Context, subscriptionID, scopeID, requestingUserID uint) error {
	count, err := s.subRepo.CountScopes(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if count >= models.MaxScopesPerSubscription {
		return models.ErrMaxTeamsReached
	}

	role, err := s.roleRepo.GetRole(ctx, scopeID, requestingUserID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return models.ErrNotAdmin
		}
		return err
	}
	if role.Role != models.RoleAdmin {
		return models.ErrNotAdmin
	}

	link, err := s.subRepo.GetScopeLink(ctx, scopeID)
	if err != nil {
		return err
	}
	if link != nil {
		return models.ErrTeamAlreadySubscribed
	}

	if err := s.subRepo.AddScope(ctx, &models.SubscriptionScope{
		SubscriptionID: subscriptionID,
		ScopeID:        scopeID,
		AddedByUserID:  requestingUserID,
	}); err != nil {
		return err
	}
	cache.InvalidateEntitlement(ctx, scopeID)
	return nil
}

// RemoveTeamFromSubscription detaches a team. Only the subscription owner
// may do this; there is no capacity check on the way out.
func (s *SubscriptionService) RemoveTeamFromSubscription(ctx context.Context, subscriptionID, scopeID, requestingUserID uint) error {
	sub, err := s.subRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.UserID != requestingUserID {
		return models.NewForbiddenError("only the subscription owner can remove teams")
	}

	if err := s.subRepo.RemoveScope(ctx, subscriptionID, scopeID); err != nil {
		return err
	}
	cache.InvalidateEntitlement(ctx, scopeID)
	return nil
}

// CreateSubscription starts a pending billing relationship for the user.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, userID uint, externalCustomerID string) (*models.Subscription, error) {
	existing, err := s.subRepo.GetByUserID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
		return nil, err
	}

	sub := &models.Subscription{
		UserID:             userID,
		Status:             models.SubscriptionStatusPending,
		ExternalCustomerID: externalCustomerID,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// HandlePaymentSucceeded activates a pending subscription on first payment
// and extends the period on renewals.
func (s *SubscriptionService) HandlePaymentSucceeded(ctx context.Context, event PaymentEvent) error {
	sub, err := s.subRepo.GetByExternalCustomerID(ctx, event.CustomerID)
	if err != nil {
		return err
	}

	now := s.now()
	end := now.Add(billingPeriod)
	sub.Status = models.SubscriptionStatusActive
	sub.CurrentPeriodStart = &now
	sub.CurrentPeriodEnd = &end
	if event.SubscriptionCode != "" {
		sub.ExternalSubscriptionID = event.SubscriptionCode
	}
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return err
	}
	s.invalidateScopes(ctx, sub.ID)
	return nil
}

// HandlePaymentFailed marks the subscription failed. Entitlement checks will
// deny until a later payment succeeds.
func (s *SubscriptionService) HandlePaymentFailed(ctx context.Context, event PaymentEvent) error {
	sub, err := s.subRepo.GetByExternalCustomerID(ctx, event.CustomerID)
	if err != nil {
		return err
	}

	sub.Status = models.SubscriptionStatusFailed
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return err
	}
	s.invalidateScopes(ctx, sub.ID)
	return nil
}

// HandleSubscriptionDisabled cancels the subscription after a
// provider-reported disablement.
func (s *SubscriptionService) HandleSubscriptionDisabled(ctx context.Context, subscriptionCode string) error {
	sub, err := s.subRepo.GetByExternalSubscriptionID(ctx, subscriptionCode)
	if err != nil {
		return err
	}

	sub.Status = models.SubscriptionStatusCancelled
	sub.CancelAtPeriodEnd = false
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return err
	}
	s.invalidateScopes(ctx, sub.ID)
	return nil
}

// Cancel ends the owner's subscription, either immediately or at the end of
// the paid period.
func (s *SubscriptionService) Cancel(ctx context.Context, userID uint, atPeriodEnd bool) (*models.Subscription, error) {
	sub, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if atPeriodEnd && sub.Status == models.SubscriptionStatusActive && sub.CurrentPeriodEnd != nil && sub.CurrentPeriodEnd.After(s.now()) {
		sub.CancelAtPeriodEnd = true
	} else {
		sub.Status = models.SubscriptionStatusCancelled
		sub.CancelAtPeriodEnd = false
	}
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	s.invalidateScopes(ctx, sub.ID)
	return sub, nil
}

func (s *SubscriptionService) invalidateScopes(ctx context.Context, subscriptionID uint) {
	links, err := s.subRepo.ListScopes(ctx, subscriptionID)
	if err != nil {
		return // cache entries expire on their own
	}
	for _, link := range links {
		cache.InvalidateEntitlement(ctx, link.ScopeID)
	}
}
