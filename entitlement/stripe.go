package entitlement

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"
)

// userIDMetadataKey links a Stripe customer back to a BudgetWise user.
const userIDMetadataKey = "user_id"

// trialPeriodDays matches the app-side trial window, so Stripe's trial and
// the profile's trial dates run out together.
const trialPeriodDays = 7

// StripeService implements Service on Stripe subscriptions. Customers are
// looked up by user ID metadata so the mapping lives entirely in Stripe.
type StripeService struct {
	priceID string

	userID     string
	customerID string
}

// NewStripeService configures the Stripe client with secretKey and returns a
// service that subscribes users to priceID.
func NewStripeService(secretKey, priceID string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{priceID: priceID}
}

func (s *StripeService) Configure(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("configure entitlements: empty user id")
	}
	if s.userID == userID && s.customerID != "" {
		return nil
	}

	searchParams := &stripe.CustomerSearchParams{
		SearchParams: stripe.SearchParams{
			Query: fmt.Sprintf("metadata['%s']:'%s'", userIDMetadataKey, userID),
		},
	}
	searchParams.Context = ctx

	iter := customer.Search(searchParams)
	if iter.Next() {
		s.userID = userID
		s.customerID = iter.Customer().ID
		return nil
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("search stripe customer: %w", err)
	}

	createParams := &stripe.CustomerParams{}
	createParams.Context = ctx
	createParams.AddMetadata(userIDMetadataKey, userID)

	cust, err := customer.New(createParams)
	if err != nil {
		return fmt.Errorf("create stripe customer: %w", err)
	}

	log.Debug().Str("customer_id", cust.ID).Msg("created stripe customer")
	s.userID = userID
	s.customerID = cust.ID
	return nil
}

func (s *StripeService) Active(ctx context.Context) (bool, error) {
	if s.customerID == "" {
		return false, nil
	}

	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(s.customerID),
		Status:   stripe.String("all"),
	}
	params.Context = ctx

	iter := subscription.List(params)
	for iter.Next() {
		switch iter.Subscription().Status {
		case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
			return true, nil
		}
	}
	if err := iter.Err(); err != nil {
		return false, fmt.Errorf("list stripe subscriptions: %w", err)
	}
	return false, nil
}

func (s *StripeService) Purchase(ctx context.Context, plan string) (bool, error) {
	if s.customerID == "" {
		return false, fmt.Errorf("purchase: no configured user")
	}
	if plan == "" {
		plan = s.priceID
	}

	params := &stripe.SubscriptionParams{
		Customer: stripe.String(s.customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(plan)},
		},
		TrialPeriodDays: stripe.Int64(trialPeriodDays),
	}
	params.Context = ctx

	sub, err := subscription.New(params)
	if err != nil {
		return false, fmt.Errorf("create stripe subscription: %w", err)
	}

	switch sub.Status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return true, nil
	default:
		log.Warn().Str("status", string(sub.Status)).Msg("stripe subscription created but not active")
		return false, nil
	}
}

func (s *StripeService) Restore(ctx context.Context) (bool, error) {
	return s.Active(ctx)
}

func (s *StripeService) Logout(_ context.Context) error {
	s.userID = ""
	s.customerID = ""
	return nil
}
