package profile

import "sort"

// Remote is a user payload decoded from the backend. Every field is
// optional so that a missing key can be told apart from a zero value.
type Remote struct {
	ID               *string        `json:"id"`
	Email            *string        `json:"email"`
	Name             *string        `json:"name"`
	Position         *string        `json:"position"`
	Phone            *string        `json:"phone"`
	ProfilePic       *string        `json:"profilePic"`
	TotalXP          *int           `json:"totalXp"`
	QuestionsSolved  *int           `json:"questionsSolved"`
	CurrentStreak    *int           `json:"currentStreak"`
	LongestStreak    *int           `json:"longestStreak"`
	Rank             *string        `json:"rank"`
	WeeklyXP         *int           `json:"weeklyXp"`
	CurrentLeague    *string        `json:"currentLeague"`
	LeagueGroupID    *string        `json:"leagueGroupId"`
	Mastery          map[string]int `json:"mastery"`
	Badges           []Badge        `json:"badges"`
	LastActivityDate *string        `json:"lastActivityDate"`
}

// RemoteFrom builds a fully populated Remote from p. Used for tests and for
// echoing a profile back as if the backend had returned it.
func RemoteFrom(p UserProfile) Remote {
	rank := string(p.Rank)
	league := string(p.CurrentLeague)
	return Remote{
		ID:               &p.ID,
		Email:            &p.Email,
		Name:             &p.Name,
		Position:         &p.Position,
		Phone:            &p.Phone,
		ProfilePic:       &p.ProfilePic,
		TotalXP:          &p.TotalXP,
		QuestionsSolved:  &p.QuestionsSolved,
		CurrentStreak:    &p.CurrentStreak,
		LongestStreak:    &p.LongestStreak,
		Rank:             &rank,
		WeeklyXP:         &p.WeeklyXP,
		CurrentLeague:    &league,
		LeagueGroupID:    &p.LeagueGroupID,
		Mastery:          p.Clone().Mastery,
		Badges:           p.Clone().Badges,
		LastActivityDate: &p.LastActivityDate,
	}
}

// Merge combines the cached profile with a freshly fetched backend profile.
//
// The backend is authoritative for progress fields: a missing value becomes
// its default, never the cached one. Descriptive fields take the backend
// value when present and fall back to the cached value, except for fields
// in pending, which hold unsynced local edits and keep the cached value.
// The backend ID replaces the cached one only when non-empty, and the
// cached email is never replaced.
//
// Merge is idempotent: Merge(Merge(l, r, p), r, p) equals Merge(l, r, p).
func Merge(local UserProfile, remote Remote, pending FieldSet) UserProfile {
	out := local.Clone()

	if remote.ID != nil && *remote.ID != "" {
		out.ID = *remote.ID
	}
	if out.Email == "" && remote.Email != nil {
		out.Email = *remote.Email
	}

	out.TotalXP = intOr(remote.TotalXP, 0)
	out.QuestionsSolved = intOr(remote.QuestionsSolved, 0)
	out.CurrentStreak = intOr(remote.CurrentStreak, 0)
	out.WeeklyXP = intOr(remote.WeeklyXP, 0)
	out.LongestStreak = intOr(remote.LongestStreak, local.LongestStreak)

	out.Rank = RankNewbie
	if remote.Rank != nil && *remote.Rank != "" {
		out.Rank = Rank(*remote.Rank)
	}
	out.CurrentLeague = LeagueBronze
	if remote.CurrentLeague != nil && *remote.CurrentLeague != "" {
		out.CurrentLeague = League(*remote.CurrentLeague)
	}
	out.LeagueGroupID = stringOr(remote.LeagueGroupID, "")

	out.Mastery = map[string]int{}
	for k, v := range remote.Mastery {
		out.Mastery[k] = v
	}

	mergeDescriptive(&out, local, remote, pending)
	return out
}

func mergeDescriptive(out *UserProfile, local UserProfile, remote Remote, pending FieldSet) {
	pick := func(f Field, dst *string, localV string, remoteV *string) {
		if pending.Has(f) || remoteV == nil {
			*dst = localV
			return
		}
		*dst = *remoteV
	}
	pick(FieldName, &out.Name, local.Name, remote.Name)
	pick(FieldPosition, &out.Position, local.Position, remote.Position)
	pick(FieldPhone, &out.Phone, local.Phone, remote.Phone)
	pick(FieldProfilePic, &out.ProfilePic, local.ProfilePic, remote.ProfilePic)
	pick(FieldLastActivityDate, &out.LastActivityDate, local.LastActivityDate, remote.LastActivityDate)

	if remote.Badges != nil && !pending.Has(FieldBadges) {
		out.Badges = append([]Badge(nil), remote.Badges...)
	}
}

// mergedFields are the fields Merge may rewrite.
var mergedFields = []Field{
	FieldID, FieldTotalXP, FieldQuestionsSolved, FieldCurrentStreak,
	FieldLongestStreak, FieldRank, FieldWeeklyXP, FieldCurrentLeague,
	FieldLeagueGroupID, FieldMastery, FieldBadges, FieldName, FieldPosition,
	FieldPhone, FieldProfilePic, FieldLastActivityDate,
}

// MergeAt is Merge for a response whose request took ticket. Fields that a
// newer response already wrote (watermark above ticket) keep the local
// value; every other merged field advances its watermark to ticket.
func MergeAt(local UserProfile, remote Remote, ticket uint64, marks Watermarks, pending FieldSet) UserProfile {
	out := Merge(local, remote, pending)
	for _, f := range mergedFields {
		if marks[f] > ticket {
			copyField(&out, local, f)
			continue
		}
		if !pending.Has(f) {
			marks[f] = ticket
		}
	}
	return out
}

func copyField(dst *UserProfile, src UserProfile, f Field) {
	src = src.Clone()
	switch f {
	case FieldID:
		dst.ID = src.ID
	case FieldEmail:
		dst.Email = src.Email
	case FieldName:
		dst.Name = src.Name
	case FieldPosition:
		dst.Position = src.Position
	case FieldPhone:
		dst.Phone = src.Phone
	case FieldProfilePic:
		dst.ProfilePic = src.ProfilePic
	case FieldTotalXP:
		dst.TotalXP = src.TotalXP
	case FieldQuestionsSolved:
		dst.QuestionsSolved = src.QuestionsSolved
	case FieldCurrentStreak:
		dst.CurrentStreak = src.CurrentStreak
	case FieldLongestStreak:
		dst.LongestStreak = src.LongestStreak
	case FieldRank:
		dst.Rank = src.Rank
	case FieldWeeklyXP:
		dst.WeeklyXP = src.WeeklyXP
	case FieldCurrentLeague:
		dst.CurrentLeague = src.CurrentLeague
	case FieldLeagueGroupID:
		dst.LeagueGroupID = src.LeagueGroupID
	case FieldMastery:
		dst.Mastery = src.Mastery
	case FieldBadges:
		dst.Badges = src.Badges
	case FieldLastActivityDate:
		dst.LastActivityDate = src.LastActivityDate
	}
}

// Watermarks records, per field, the ticket of the backend response that
// last wrote it.
type Watermarks map[Field]uint64

// Overlay applies the fields present in a backend response onto p.
//
// Each response carries the ticket taken when its request was issued. A
// field is written only if ticket is at least the field's watermark, so a
// response that completes late never rolls a field back to an older value.
// The newest response is authoritative even when it lowers a counter.
// Pending fields are skipped and the email is never touched.
func Overlay(p UserProfile, remote Remote, ticket uint64, marks Watermarks, pending FieldSet) UserProfile {
	out := p.Clone()
	if marks == nil {
		marks = Watermarks{}
	}
	fresh := func(f Field) bool {
		if ticket < marks[f] {
			return false
		}
		marks[f] = ticket
		return true
	}

	if remote.ID != nil && *remote.ID != "" && fresh(FieldID) {
		out.ID = *remote.ID
	}
	if remote.TotalXP != nil && fresh(FieldTotalXP) {
		out.TotalXP = *remote.TotalXP
	}
	if remote.QuestionsSolved != nil && fresh(FieldQuestionsSolved) {
		out.QuestionsSolved = *remote.QuestionsSolved
	}
	if remote.LongestStreak != nil && fresh(FieldLongestStreak) {
		out.LongestStreak = *remote.LongestStreak
	}
	if remote.CurrentStreak != nil && fresh(FieldCurrentStreak) {
		out.CurrentStreak = *remote.CurrentStreak
	}
	if remote.WeeklyXP != nil && fresh(FieldWeeklyXP) {
		out.WeeklyXP = *remote.WeeklyXP
	}
	if remote.Rank != nil && *remote.Rank != "" && fresh(FieldRank) {
		out.Rank = Rank(*remote.Rank)
	}
	if remote.CurrentLeague != nil && *remote.CurrentLeague != "" && fresh(FieldCurrentLeague) {
		out.CurrentLeague = League(*remote.CurrentLeague)
	}
	if remote.LeagueGroupID != nil && fresh(FieldLeagueGroupID) {
		out.LeagueGroupID = *remote.LeagueGroupID
	}
	if remote.Mastery != nil && fresh(FieldMastery) {
		out.Mastery = make(map[string]int, len(remote.Mastery))
		for k, v := range remote.Mastery {
			out.Mastery[k] = v
		}
	}
	if remote.Badges != nil && !pending.Has(FieldBadges) && fresh(FieldBadges) {
		out.Badges = append([]Badge(nil), remote.Badges...)
	}

	overlayString := func(f Field, dst *string, v *string) {
		if v != nil && !pending.Has(f) && fresh(f) {
			*dst = *v
		}
	}
	overlayString(FieldName, &out.Name, remote.Name)
	overlayString(FieldPosition, &out.Position, remote.Position)
	overlayString(FieldPhone, &out.Phone, remote.Phone)
	overlayString(FieldProfilePic, &out.ProfilePic, remote.ProfilePic)
	overlayString(FieldLastActivityDate, &out.LastActivityDate, remote.LastActivityDate)

	return out
}

// Sorted returns the members of s in a stable order.
func (s FieldSet) Sorted() []Field {
	out := make([]Field, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}
