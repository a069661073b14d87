// Package memstore holds in-memory implementations of the repository
// interfaces used by the services. They enforce the same uniqueness and
// cardinality rules as the database schema and are meant for tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"love-journal-backend/internal/models"
	"love-journal-backend/internal/repository"
)
// Users is an in-memory UserStore
type Users struct {
	mu    sync.Mutex
	Items map[string]*models.User
	Fail  error
}

// NewUsers seeds the store with users
func NewUsers(users ...*models.User) *Users {
	m := &Users{Items: map[string]*models.User{}}
	for _, u := range users {
		m.Items[u.ID] = u
	}
	return m
}

func (m *Users) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	for _, u := range m.Items {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	m.Items[user.ID] = &cp
	return nil
}

func (m *Users) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	u, ok := m.Items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	for _, u := range m.Items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Users) GetByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	out := map[string]*models.User{}
	for _, id := range ids {
		if u, ok := m.Items[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (m *Users) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, u := range m.Items {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	m.Items[user.ID] = &cp
	return nil
}

// Couples is an in-memory CoupleStore enforcing the same constraints as the schema
type Couples struct {
	mu    sync.Mutex
	Items map[string]*models.Couple
	Fail  error
}

func NewCouples() *Couples {
	return &Couples{Items: map[string]*models.Couple{}}
}

func cloneCouple(c *models.Couple) *models.Couple {
	cp := *c
	cp.MemberIDs = append([]string(nil), c.MemberIDs...)
	return &cp
}

func (m *Couples) find(pred func(*models.Couple) bool) (*models.Couple, error) {
	if m.Fail != nil {
		return nil, m.Fail
	}
	for _, c := range m.Items {
		if pred(c) {
			return cloneCouple(c), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Couples) GetByID(_ context.Context, id string) (*models.Couple, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(func(c *models.Couple) bool { return c.ID == id })
}

func (m *Couples) GetByUserID(_ context.Context, userID string) (*models.Couple, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(func(c *models.Couple) bool { return c.HasMember(userID) })
}

func (m *Couples) GetByInviteCode(_ context.Context, code string) (*models.Couple, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(func(c *models.Couple) bool { return c.InviteCode == code })
}

func (m *Couples) memberOfAny(userID string) bool {
	for _, c := range m.Items {
		if c.HasMember(userID) {
			return true
		}
	}
	return false
}

func (m *Couples) Create(_ context.Context, couple *models.Couple) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	if m.memberOfAny(couple.MemberIDs[0]) {
		return repository.ErrAlreadyMember
	}
	for _, c := range m.Items {
		if c.InviteCode == couple.InviteCode {
			return repository.ErrDuplicate
		}
	}
	m.Items[couple.ID] = cloneCouple(couple)
	return nil
}

func (m *Couples) AddMember(_ context.Context, coupleID, userID string) (*models.Couple, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	c, ok := m.Items[coupleID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if len(c.MemberIDs) >= 2 {
		return nil, repository.ErrCoupleFull
	}
	if m.memberOfAny(userID) {
		return nil, repository.ErrAlreadyMember
	}
	c.MemberIDs = append(c.MemberIDs, userID)
	return cloneCouple(c), nil
}

func (m *Couples) RemoveMember(_ context.Context, coupleID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return false, m.Fail
	}
	c, ok := m.Items[coupleID]
	if !ok || !c.HasMember(userID) {
		return false, repository.ErrNotFound
	}
	remaining := c.MemberIDs[:0:0]
	for _, id := range c.MemberIDs {
		if id != userID {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) == 0 {
		delete(m.Items, coupleID)
		return true, nil
	}
	c.MemberIDs = remaining
	return false, nil
}

func (m *Couples) UpdateStartDate(_ context.Context, coupleID, startDate, inviteCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	c, ok := m.Items[coupleID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, other := range m.Items {
		if id != coupleID && other.InviteCode == inviteCode {
			return repository.ErrDuplicate
		}
	}
	c.StartDate = &startDate
	c.InviteCode = inviteCode
	return nil
}

// Moods is an in-memory MoodStore
type Moods struct {
	mu     sync.Mutex
	Events []*models.MoodEvent
	Fail   error
}

func (m *Moods) Create(_ context.Context, event *models.MoodEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	cp := *event
	m.Events = append(m.Events, &cp)
	return nil
}

func (m *Moods) GetForUser(_ context.Context, id, userID string) (*models.MoodEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id && e.UserID == userID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Moods) Update(_ context.Context, event *models.MoodEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == event.ID && e.UserID == event.UserID {
			e.Mood, e.Intensity, e.Note = event.Mood, event.Intensity, event.Note
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Moods) ListByUserDate(_ context.Context, userID, date string) ([]*models.MoodEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	out := []*models.MoodEvent{}
	for _, e := range m.Events {
		if e.UserID == userID && e.Date == date {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Intensity != out[j].Intensity {
			return out[i].Intensity > out[j].Intensity
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Moods) ListByUserRange(_ context.Context, coupleID, userID, from, to string) ([]*models.MoodEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	out := []*models.MoodEvent{}
	for _, e := range m.Events {
		if e.CoupleID == coupleID && e.UserID == userID && e.Date >= from && e.Date <= to {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Intensity != out[j].Intensity {
			return out[i].Intensity > out[j].Intensity
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Posts is an in-memory PostStore
type Posts struct {
	mu        sync.Mutex
	Items     []*models.Post
	Comments  *Comments
	Reactions *Reactions
	Fail      error
}

func (m *Posts) Create(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	cp := *post
	m.Items = append(m.Items, &cp)
	return nil
}

func (m *Posts) UpdateContent(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Items {
		if p.ID == post.ID && p.CoupleID == post.CoupleID && p.AuthorID == post.AuthorID {
			p.Content, p.Images = post.Content, post.Images
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Posts) GetByID(_ context.Context, coupleID, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	for _, p := range m.Items {
		if p.ID == id && p.CoupleID == coupleID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Posts) filter(pred func(*models.Post) bool) []*models.Post {
	out := []*models.Post{}
	for _, p := range m.Items {
		if pred(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *Posts) ListSince(_ context.Context, coupleID, since, authorID string) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(p *models.Post) bool {
		return p.CoupleID == coupleID && p.Date >= since && (authorID == "" || p.AuthorID == authorID)
	}), nil
}

func (m *Posts) ListByDate(_ context.Context, coupleID, date string) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	return m.filter(func(p *models.Post) bool { return p.CoupleID == coupleID && p.Date == date }), nil
}

func (m *Posts) ListStarred(_ context.Context, coupleID string) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(p *models.Post) bool { return p.CoupleID == coupleID && p.Starred }), nil
}

func (m *Posts) SetStarred(_ context.Context, coupleID, id string, starred *bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Items {
		if p.ID == id && p.CoupleID == coupleID {
			if starred == nil {
				p.Starred = !p.Starred
			} else {
				p.Starred = *starred
			}
			return p.Starred, nil
		}
	}
	return false, repository.ErrNotFound
}

func (m *Posts) Delete(_ context.Context, coupleID, authorID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.Items {
		if p.ID == id && p.CoupleID == coupleID && p.AuthorID == authorID {
			m.Items = append(m.Items[:i], m.Items[i+1:]...)
			if m.Comments != nil {
				m.Comments.deletePost(id)
			}
			if m.Reactions != nil {
				m.Reactions.deletePost(id)
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

// Comments is an in-memory CommentStore
type Comments struct {
	mu    sync.Mutex
	Items []*models.Comment
}

func (m *Comments) Create(_ context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *comment
	m.Items = append(m.Items, &cp)
	return nil
}

func (m *Comments) GetByID(_ context.Context, postID, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Items {
		if c.ID == id && c.PostID == postID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Comments) ListByPost(_ context.Context, postID string) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Comment{}
	for _, c := range m.Items {
		if c.PostID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *Comments) deletePost(postID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Items[:0]
	for _, c := range m.Items {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	m.Items = kept
}

// Reactions is an in-memory ReactionStore keyed by (post, user)
type Reactions struct {
	mu    sync.Mutex
	Items []*models.Reaction
}

func (m *Reactions) Upsert(_ context.Context, reaction *models.Reaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Items {
		if r.PostID == reaction.PostID && r.UserID == reaction.UserID {
			r.Type = reaction.Type
			reaction.ID, reaction.CreatedAt = r.ID, r.CreatedAt
			return nil
		}
	}
	cp := *reaction
	m.Items = append(m.Items, &cp)
	return nil
}

func (m *Reactions) ListByPost(_ context.Context, postID string) ([]*models.Reaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Reaction{}
	for _, r := range m.Items {
		if r.PostID == postID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *Reactions) Delete(_ context.Context, postID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Items[:0]
	for _, r := range m.Items {
		if !(r.PostID == postID && r.UserID == userID) {
			kept = append(kept, r)
		}
	}
	m.Items = kept
	return nil
}

func (m *Reactions) deletePost(postID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Items[:0]
	for _, r := range m.Items {
		if r.PostID != postID {
			kept = append(kept, r)
		}
	}
	m.Items = kept
}

// Messages is an in-memory MessageStore
type Messages struct {
	mu    sync.Mutex
	Items []*models.Message
}

func (m *Messages) Create(_ context.Context, message *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *message
	m.Items = append(m.Items, &cp)
	return nil
}

func (m *Messages) ListBefore(_ context.Context, coupleID string, before *time.Time, limit int) ([]*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Message{}
	for _, msg := range m.Items {
		if msg.CoupleID == coupleID && (before == nil || msg.CreatedAt.Before(*before)) {
			cp := *msg
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Quotes is an in-memory QuoteStore
type Quotes struct {
	mu      sync.Mutex
	Items   []*models.DailyQuote
	Fail    error
	Creates int
}

func (m *Quotes) GetByCoupleDate(_ context.Context, coupleID, date string) (*models.DailyQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	for _, q := range m.Items {
		if q.CoupleID == coupleID && q.Date == date {
			cp := *q
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Quotes) Create(_ context.Context, quote *models.DailyQuote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.Creates++
	for _, q := range m.Items {
		if q.CoupleID == quote.CoupleID && q.Date == quote.Date {
			return nil
		}
	}
	cp := *quote
	m.Items = append(m.Items, &cp)
	return nil
}

// Set bundles one of each store, with post deletes cascading to comments
// and reactions the way the schema does
type Set struct {
	Users     *Users
	Couples   *Couples
	Moods     *Moods
	Posts     *Posts
	Comments  *Comments
	Reactions *Reactions
	Messages  *Messages
	Quotes    *Quotes
}

// New returns an empty Set
func New() *Set {
	comments := &Comments{}
	reactions := &Reactions{}
	return &Set{
		Users:     NewUsers(),
		Couples:   NewCouples(),
		Moods:     &Moods{},
		Posts:     &Posts{Comments: comments, Reactions: reactions},
		Comments:  comments,
		Reactions: reactions,
		Messages:  &Messages{},
		Quotes:    &Quotes{},
	}
}
