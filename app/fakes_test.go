package app

import (
	"context"
	"database/sql"
	"strconv"
	"sync"

	"github.com/aviatehq/aviate/domain/billing"
	"github.com/aviatehq/aviate/domain/chat"
	"github.com/aviatehq/aviate/domain/note"
	"github.com/aviatehq/aviate/domain/project"
	"github.com/aviatehq/aviate/ports"
)

// In-memory fakes for app service tests. All return sql.ErrNoRows on
// missing rows, matching the SQLite adapters.

type fakeIDGen struct {
	mu sync.Mutex
	n  int
}

func (f *fakeIDGen) New() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return "id-" + strconv.Itoa(f.n)
}

type fakeUserStore struct {
	users map[string]ports.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]ports.User)}
}

func (f *fakeUserStore) Get(_ context.Context, id string) (ports.User, error) {
	u, ok := f.users[id]
	if !ok {
		return ports.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (ports.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return ports.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) GetByStripeID(_ context.Context, stripeID string) (ports.User, error) {
	for _, u := range f.users {
		if u.StripeID == stripeID {
			return u, nil
		}
	}
	return ports.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) Create(_ context.Context, u ports.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, u ports.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	delete(f.users, id)
	return nil
}

type fakeNoteStore struct {
	notes map[string]note.Note
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[string]note.Note)}
}

func (f *fakeNoteStore) Get(_ context.Context, id string) (note.Note, error) {
	n, ok := f.notes[id]
	if !ok {
		return note.Note{}, sql.ErrNoRows
	}
	return n, nil
}

func (f *fakeNoteStore) ListByUser(_ context.Context, userID string) ([]note.Note, error) {
	var out []note.Note
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNoteStore) Create(_ context.Context, n note.Note) error {
	f.notes[n.ID] = n
	return nil
}

func (f *fakeNoteStore) Update(_ context.Context, n note.Note) error {
	f.notes[n.ID] = n
	return nil
}

func (f *fakeNoteStore) Delete(_ context.Context, id string) error {
	delete(f.notes, id)
	return nil
}

type fakeProjectStore struct {
	projects map[string]project.Project
	members  *fakeMemberStore
}

func newFakeProjectStore(members *fakeMemberStore) *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[string]project.Project), members: members}
}

func (f *fakeProjectStore) Get(_ context.Context, id string) (project.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return project.Project{}, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeProjectStore) ListByUser(ctx context.Context, userID string) ([]project.Project, error) {
	var out []project.Project
	for _, p := range f.projects {
		if p.OwnerID == userID {
			out = append(out, p)
			continue
		}
		if _, err := f.members.Get(ctx, p.ID, userID); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjectStore) Create(_ context.Context, p project.Project) error {
	f.projects[p.ID] = p
	return nil
}

func (f *fakeProjectStore) Update(_ context.Context, p project.Project) error {
	f.projects[p.ID] = p
	return nil
}

func (f *fakeProjectStore) Delete(_ context.Context, id string) error {
	delete(f.projects, id)
	for key, m := range f.members.members {
		if m.ProjectID == id {
			delete(f.members.members, key)
		}
	}
	return nil
}

type fakeMemberStore struct {
	members map[string]project.Member // key projectID+"/"+userID
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{members: make(map[string]project.Member)}
}

func (f *fakeMemberStore) Get(_ context.Context, projectID, userID string) (project.Member, error) {
	m, ok := f.members[projectID+"/"+userID]
	if !ok {
		return project.Member{}, sql.ErrNoRows
	}
	return m, nil
}

func (f *fakeMemberStore) List(_ context.Context, projectID string) ([]project.Member, error) {
	var out []project.Member
	for _, m := range f.members {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMemberStore) Add(_ context.Context, m project.Member) error {
	f.members[m.ProjectID+"/"+m.UserID] = m
	return nil
}

func (f *fakeMemberStore) Remove(_ context.Context, projectID, userID string) error {
	delete(f.members, projectID+"/"+userID)
	return nil
}

type fakeConversationStore struct {
	conversations map[string]ports.Conversation
	messages      map[string][]ports.StoredMessage
	appendErr     error
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{
		conversations: make(map[string]ports.Conversation),
		messages:      make(map[string][]ports.StoredMessage),
	}
}

func (f *fakeConversationStore) Get(_ context.Context, id string) (ports.Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return ports.Conversation{}, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeConversationStore) FindOrCreate(_ context.Context, c ports.Conversation) (ports.Conversation, error) {
	for _, existing := range f.conversations {
		if existing.UserID == c.UserID && existing.ProjectID == c.ProjectID {
			return existing, nil
		}
	}
	f.conversations[c.ID] = c
	return c, nil
}

func (f *fakeConversationStore) AppendMessages(_ context.Context, conversationID string, msgs []ports.StoredMessage) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.messages[conversationID] = append(f.messages[conversationID], msgs...)
	return nil
}

func (f *fakeConversationStore) Messages(_ context.Context, conversationID string, limit int) ([]ports.StoredMessage, error) {
	msgs := f.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

type fakeChatProvider struct {
	reply string
	err   error
	calls int
	last  []chat.Message
}

func (f *fakeChatProvider) Complete(_ context.Context, messages []chat.Message) (chat.Completion, error) {
	f.calls++
	f.last = messages
	if f.err != nil {
		return chat.Completion{}, f.err
	}
	return chat.Completion{
		Message: chat.Message{Role: chat.RoleAssistant, Content: f.reply},
		Usage:   chat.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

type fakeSubscriptionStore struct {
	subs map[string]billing.Subscription
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{subs: make(map[string]billing.Subscription)}
}

func (f *fakeSubscriptionStore) Get(_ context.Context, id string) (billing.Subscription, error) {
	s, ok := f.subs[id]
	if !ok {
		return billing.Subscription{}, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeSubscriptionStore) GetByProviderID(_ context.Context, providerID string) (billing.Subscription, error) {
	for _, s := range f.subs {
		if s.ProviderID == providerID {
			return s, nil
		}
	}
	return billing.Subscription{}, sql.ErrNoRows
}

func (f *fakeSubscriptionStore) GetByUser(_ context.Context, userID string) (billing.Subscription, error) {
	for _, s := range f.subs {
		if s.UserID == userID {
			return s, nil
		}
	}
	return billing.Subscription{}, sql.ErrNoRows
}

func (f *fakeSubscriptionStore) Create(_ context.Context, s billing.Subscription) error {
	f.subs[s.ID] = s
	return nil
}

func (f *fakeSubscriptionStore) Update(_ context.Context, s billing.Subscription) error {
	f.subs[s.ID] = s
	return nil
}

// Compile-time checks that the fakes satisfy their ports.
var (
	_ ports.UserStore         = (*fakeUserStore)(nil)
	_ ports.NoteStore         = (*fakeNoteStore)(nil)
	_ ports.ProjectStore      = (*fakeProjectStore)(nil)
	_ ports.MemberStore       = (*fakeMemberStore)(nil)
	_ ports.ConversationStore = (*fakeConversationStore)(nil)
	_ ports.ChatProvider      = (*fakeChatProvider)(nil)
	_ ports.SubscriptionStore = (*fakeSubscriptionStore)(nil)
)
