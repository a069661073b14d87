package models

import "time"

// Mood is one of the eight check-in moods
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodSad      Mood = "sad"
	MoodCalm     Mood = "calm"
	MoodStressed Mood = "stressed"
	MoodExcited  Mood = "excited"
	MoodTired    Mood = "tired"
	MoodAnxious  Mood = "anxious"
	MoodGrateful Mood = "grateful"
)

// Moods lists every valid mood in display order
var Moods = []Mood{
	MoodHappy, MoodSad, MoodCalm, MoodStressed,
	MoodExcited, MoodTired, MoodAnxious, MoodGrateful,
}

// Valid reports whether m is a known mood
func (m Mood) Valid() bool {
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}

// Emoji returns the emoji shown next to a mood
func (m Mood) Emoji() string {
	switch m {
	case MoodHappy:
		return "😊"
	case MoodSad:
		return "😢"
	case MoodCalm:
		return "😌"
	case MoodStressed:
		return "😣"
	case MoodExcited:
		return "🤩"
	case MoodTired:
		return "😴"
	case MoodAnxious:
		return "😰"
	case MoodGrateful:
		return "🙏"
	default:
		return "😊"
	}
}

// ReactionType is one of the six post reactions
type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionHaha  ReactionType = "haha"
	ReactionWow   ReactionType = "wow"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

// ReactionTypes lists every valid reaction type
var ReactionTypes = []ReactionType{
	ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry,
}

// Valid reports whether t is a known reaction type
func (t ReactionType) Valid() bool {
	for _, known := range ReactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Gender is an optional profile tag
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// QuoteSource tells whether a daily quote came from the store or the fallback table
type QuoteSource string

const (
	QuoteSourcePersisted QuoteSource = "persisted"
	QuoteSourceFallback  QuoteSource = "fallback"
)

// User represents a registered user
type User struct {
	ID           string
	Name         string
	Email        string
	Image        *string
	Gender       *Gender
	PasswordHash *string
	CreatedAt    time.Time
}

// Couple represents two (or, while waiting, one) linked users.
// MemberIDs[0] is the creator.
type Couple struct {
	ID         string
	MemberIDs  []string
	InviteCode string
	StartDate  *string
	CreatedAt  time.Time
}

// CreatorID returns the first member, or "" for an empty couple
func (c *Couple) CreatorID() string {
	if len(c.MemberIDs) == 0 {
		return ""
	}
	return c.MemberIDs[0]
}

// HasMember reports whether userID belongs to the couple
func (c *Couple) HasMember(userID string) bool {
	for _, id := range c.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// PartnerID returns the other member of the couple, or "" when alone
func (c *Couple) PartnerID(userID string) string {
	for _, id := range c.MemberIDs {
		if id != userID {
			return id
		}
	}
	return ""
}

// MoodEvent is one mood check-in
type MoodEvent struct {
	ID        string
	CoupleID  string
	UserID    string
	Date      string
	Mood      Mood
	Intensity int
	Note      string
	CreatedAt time.Time
}

// PostImage references an uploaded image
type PostImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
}

// Post is a journal entry written by one member of a couple
type Post struct {
	ID        string
	CoupleID  string
	AuthorID  string
	Date      string
	Content   string
	Images    []PostImage
	Starred   bool
	CreatedAt time.Time
}

// Comment is a reply on a post
type Comment struct {
	ID              string
	PostID          string
	UserID          string
	Text            string
	ParentCommentID *string
	CreatedAt       time.Time
}

// Reaction is a single user's reaction to a post
type Reaction struct {
	ID        string
	PostID    string
	UserID    string
	Type      ReactionType
	CreatedAt time.Time
}

// Message is a chat message inside a couple
type Message struct {
	ID        string
	CoupleID  string
	SenderID  string
	Text      *string
	ImageURL  *string
	AudioURL  *string
	CreatedAt time.Time
}

// DailyQuote is the quote shown to a couple on a given date
type DailyQuote struct {
	ID        string
	CoupleID  string
	Date      string
	Text      string
	Source    QuoteSource
	CreatedAt time.Time
}
