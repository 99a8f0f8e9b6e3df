package models

import (
	"strings"

	"github.com/gosimple/slug"
)

type TicketTier struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"originalPrice,omitempty"`
	Description   string   `json:"description"`
	Features      []string `json:"features"`
	Popular       bool     `json:"popular,omitempty"`
	Limited       bool     `json:"limited,omitempty"`
}

const DefaultTierID = "standard"

var tiers = []TicketTier{
	{
		ID:            "early-bird",
		Name:          "Early Bird",
		Price:         199,
		OriginalPrice: 299,
		Description:   "Perfect for individual developers and tech enthusiasts",
		Features: []string{
			"Access to all sessions and keynotes",
			"Conference materials and swag bag",
			"Networking breaks and lunch",
			"Access to expo hall",
			"Digital agenda and session recordings",
			"Certificate of attendance",
		},
		Limited: true,
	},
	{
		ID:          "standard",
		Name:        "Standard",
		Price:       299,
		Description: "Great value for professionals looking to expand their knowledge",
		Features: []string{
			"Everything in Early Bird",
			"Priority seating in sessions",
			"Access to speaker meet & greets",
			"Exclusive networking events",
			"Premium conference materials",
			"One-on-one mentorship session",
		},
		Popular: true,
	},
	{
		ID:          "vip",
		Name:        "VIP Experience",
		Price:       599,
		Description: "Ultimate conference experience for executives and team leads",
		Features: []string{
			"Everything in Standard",
			"VIP lounge access",
			"Private dinner with speakers",
			"Front-row seating at all events",
			"Exclusive workshop sessions",
			"Personal conference concierge",
			"Premium gift package",
			"Post-conference video library access",
		},
	},
}

func Tiers() []TicketTier {
	out := make([]TicketTier, len(tiers))
	copy(out, tiers)
	return out
}

// FindTier matches a tier by id or by the slug of its display name.
func FindTier(key string) (TicketTier, bool) {
	k := slug.Make(strings.TrimSpace(key))
	if k == "" {
		return TicketTier{}, false
	}
	for _, t := range tiers {
		if t.ID == k || slug.Make(t.Name) == k {
			return t, true
		}
	}
	return TicketTier{}, false
}

// ResolveTier falls back to the standard tier for an empty or unknown key.
func ResolveTier(key string) TicketTier {
	if t, ok := FindTier(key); ok {
		return t
	}
	t, _ := FindTier(DefaultTierID)
	return t
}
