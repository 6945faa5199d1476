package authclient

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// Profile is the extended user record served by the backend. Fields the
// client does not model are preserved verbatim in Extra so that newer
// backend fields survive a fetch-update round trip on an older client.
type Profile struct {
	UserID             string     `json:"user_id"`
	Email              string     `json:"email"`
	Name               *string    `json:"name,omitempty"`
	AvatarURL          *string    `json:"avatar_url,omitempty"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialStartDate     *time.Time `json:"trial_start_date,omitempty"`
	TrialEndDate       *time.Time `json:"trial_end_date,omitempty"`
	MonthlyIncome      *float64   `json:"monthly_income,omitempty"`
	SavingsRate        *float64   `json:"savings_rate,omitempty"`
	Currency           string     `json:"currency,omitempty"`
	Bio                *string    `json:"bio,omitempty"`
	BusinessIndustry   string     `json:"business_industry,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Extra map[string]json.RawMessage `json:"-"`
}

var profileKnownKeys = []string{
	"user_id", "email", "name", "avatar_url", "subscription_status",
	"trial_start_date", "trial_end_date", "monthly_income", "savings_rate",
	"currency", "bio", "business_industry", "created_at", "updated_at",
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	type alias Profile
	var known alias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range profileKnownKeys {
		delete(all, k)
	}
	if len(all) == 0 {
		all = nil
	}

	*p = Profile(known)
	p.Extra = all
	return nil
}

func (p Profile) MarshalJSON() ([]byte, error) {
	type alias Profile
	data, err := json.Marshal(alias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, known := merged[k]; !known {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Apply merges a partial update into the profile in place, mirroring how the
// backend merges the same payload. Unknown keys land in Extra.
func (p *Profile) Apply(updates map[string]any) {
	for key, value := range updates {
		switch key {
		case "name":
			if s, ok := value.(string); ok {
				p.Name = &s
			}
		case "avatar_url":
			if s, ok := value.(string); ok {
				p.AvatarURL = &s
			}
		case "subscription_status":
			if s, ok := value.(string); ok {
				p.SubscriptionStatus = s
			}
		case "currency":
			if s, ok := value.(string); ok {
				p.Currency = s
			}
		case "bio":
			if s, ok := value.(string); ok {
				p.Bio = &s
			}
		case "business_industry":
			if s, ok := value.(string); ok {
				p.BusinessIndustry = s
			}
		case "monthly_income":
			if f, ok := toFloat(value); ok {
				p.MonthlyIncome = &f
			}
		case "savings_rate":
			if f, ok := toFloat(value); ok {
				p.SavingsRate = &f
			}
		case "trial_start_date":
			if ts, ok := toTime(value); ok {
				p.TrialStartDate = &ts
			}
		case "trial_end_date":
			if ts, ok := toTime(value); ok {
				p.TrialEndDate = &ts
			}
		case "user_id", "email", "created_at", "updated_at":
			// server-owned fields, never patched locally
		default:
			raw, err := json.Marshal(value)
			if err != nil {
				log.Warn().Str("key", key).Msg("dropping unencodable profile update")
				continue
			}
			if p.Extra == nil {
				p.Extra = make(map[string]json.RawMessage)
			}
			p.Extra[key] = raw
		}
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		ts, err := time.Parse(time.RFC3339, t)
		return ts, err == nil
	default:
		return time.Time{}, false
	}
}
