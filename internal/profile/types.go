package profile

import "strings"

// Rank is the backend-assigned skill rank. Unknown values from the backend
// are kept verbatim.
type Rank string

const (
	RankNewbie Rank = "NEWBIE"
	RankJunior Rank = "JUNIOR"
	RankPro    Rank = "PRO"
	RankElite  Rank = "ELITE"
)

// League is one of the ten weekly competition tiers.
type League string

const (
	LeagueBronze   League = "BRONZE"
	LeagueSilver   League = "SILVER"
	LeagueGold     League = "GOLD"
	LeagueSapphire League = "SAPPHIRE"
	LeagueRuby     League = "RUBY"
	LeagueEmerald  League = "EMERALD"
	LeagueAmethyst League = "AMETHYST"
	LeaguePearl    League = "PEARL"
	LeagueObsidian League = "OBSIDIAN"
	LeagueDiamond  League = "DIAMOND"
)

// Leagues lists all tiers from lowest to highest.
var Leagues = []League{
	LeagueBronze, LeagueSilver, LeagueGold, LeagueSapphire, LeagueRuby,
	LeagueEmerald, LeagueAmethyst, LeaguePearl, LeagueObsidian, LeagueDiamond,
}

// Tier returns the zero-based position of l in Leagues, or -1 if unknown.
func (l League) Tier() int {
	for i, v := range Leagues {
		if v == l {
			return i
		}
	}
	return -1
}

// PlaceholderName is the display name the backend gives users it creates
// on first lookup.
const PlaceholderName = "Dev User"

// Badge is an achievement shown on the profile.
type Badge struct {
	Name     string `json:"name"`
	Unlocked bool   `json:"unlocked"`
	Icon     string `json:"icon,omitempty"`
}

// UserProfile is the locally held copy of the user's account state.
type UserProfile struct {
	ID               string         `json:"id,omitempty"`
	Email            string         `json:"email"`
	Name             string         `json:"name,omitempty"`
	Position         string         `json:"position,omitempty"`
	Phone            string         `json:"phone,omitempty"`
	ProfilePic       string         `json:"profilePic,omitempty"`
	TotalXP          int            `json:"totalXp"`
	QuestionsSolved  int            `json:"questionsSolved"`
	CurrentStreak    int            `json:"currentStreak"`
	LongestStreak    int            `json:"longestStreak"`
	Rank             Rank           `json:"rank"`
	WeeklyXP         int            `json:"weeklyXp"`
	CurrentLeague    League         `json:"currentLeague"`
	LeagueGroupID    string         `json:"leagueGroupId,omitempty"`
	Mastery          map[string]int `json:"mastery"`
	Badges           []Badge        `json:"badges,omitempty"`
	LastActivityDate string         `json:"lastActivityDate,omitempty"`
}

// New returns a profile for email with every backend default applied.
func New(email string) UserProfile {
	return UserProfile{
		Email:         email,
		Rank:          RankNewbie,
		CurrentLeague: LeagueBronze,
		Mastery:       map[string]int{},
	}
}

// Clone returns a deep copy of p.
func (p UserProfile) Clone() UserProfile {
	out := p
	if p.Mastery != nil {
		out.Mastery = make(map[string]int, len(p.Mastery))
		for k, v := range p.Mastery {
			out.Mastery[k] = v
		}
	}
	if p.Badges != nil {
		out.Badges = append([]Badge(nil), p.Badges...)
	}
	return out
}

// HasIdentity reports whether the profile carries a usable email.
func (p UserProfile) HasIdentity() bool {
	return p.Email != ""
}

// DisplayName returns the first word of the name, or "Dev" when unset.
func (p UserProfile) DisplayName() string {
	parts := strings.Fields(p.Name)
	if len(parts) == 0 {
		return "Dev"
	}
	return parts[0]
}

// MasteryFor returns the mastery percentage for topic, clamped to 0..100.
func (p UserProfile) MasteryFor(topic string) int {
	v := p.Mastery[topic]
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// UnlockedBadges returns the badges that have been earned.
func (p UserProfile) UnlockedBadges() []Badge {
	var out []Badge
	for _, b := range p.Badges {
		if b.Unlocked {
			out = append(out, b)
		}
	}
	return out
}

// Field names a profile attribute, using the backend's JSON key.
type Field string

const (
	FieldID               Field = "id"
	FieldEmail            Field = "email"
	FieldName             Field = "name"
	FieldPosition         Field = "position"
	FieldPhone            Field = "phone"
	FieldProfilePic       Field = "profilePic"
	FieldTotalXP          Field = "totalXp"
	FieldQuestionsSolved  Field = "questionsSolved"
	FieldCurrentStreak    Field = "currentStreak"
	FieldLongestStreak    Field = "longestStreak"
	FieldRank             Field = "rank"
	FieldWeeklyXP         Field = "weeklyXp"
	FieldCurrentLeague    Field = "currentLeague"
	FieldLeagueGroupID    Field = "leagueGroupId"
	FieldMastery          Field = "mastery"
	FieldBadges           Field = "badges"
	FieldLastActivityDate Field = "lastActivityDate"
)

// FieldSet is a set of profile fields.
type FieldSet map[Field]struct{}

// NewFieldSet returns a set containing fields.
func NewFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether f is in the set. A nil set is empty.
func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}

// Union returns a new set with the members of s and o.
func (s FieldSet) Union(o FieldSet) FieldSet {
	out := make(FieldSet, len(s)+len(o))
	for f := range s {
		out[f] = struct{}{}
	}
	for f := range o {
		out[f] = struct{}{}
	}
	return out
}

// Record is what the local cache stores: the profile plus the fields edited
// locally that the backend has not acknowledged yet.
type Record struct {
	Profile UserProfile `json:"profile"`
	Pending []Field     `json:"pending,omitempty"`
}

// PendingSet returns the pending fields as a set.
func (r Record) PendingSet() FieldSet {
	return NewFieldSet(r.Pending...)
}
