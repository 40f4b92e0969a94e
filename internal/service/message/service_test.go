package message

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/message"
	"github.com/chub-app/chub-backend-go/internal/domain/user"
	"github.com/chub-app/chub-backend-go/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============= fakes =============

type fakeMessageRepo struct {
	messages map[string]message.Message
	nextID   int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[string]message.Message)}
}

func (f *fakeMessageRepo) Create(ctx context.Context, m message.Message) (message.Message, error) {
	f.nextID++
	m.ID = fmt.Sprintf("msg-%d", f.nextID)
	m.CreatedAt = time.Now().UTC()
	m.IsRead = false
	f.messages[m.ID] = m
	return m, nil
}

func (f *fakeMessageRepo) GetByID(ctx context.Context, id string) (message.Message, error) {
	m, ok := f.messages[id]
	if !ok {
		return message.Message{}, message.ErrMessageNotFound
	}
	return m, nil
}

func (f *fakeMessageRepo) ListByRecipient(ctx context.Context, userID string, filter message.MessageFilter) ([]message.Message, int64, error) {
	var out []message.Message
	for _, m := range f.messages {
		if m.UserID != userID {
			continue
		}
		if filter.Unread != nil && m.IsRead == *filter.Unread {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMessageRepo) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	for _, m := range f.messages {
		if m.UserID == userID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeMessageRepo) MarkAsRead(ctx context.Context, id string) error {
	m, ok := f.messages[id]
	if !ok {
		return message.ErrMessageNotFound
	}
	if !m.IsRead {
		m.IsRead = true
		now := time.Now().UTC()
		m.ReadAt = &now
		f.messages[id] = m
	}
	return nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	m := make(map[string]user.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) ListActiveMembers(ctx context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u user.User) error {
	f.users[u.ID] = u
	return nil
}

// ============= helpers =============

func authedCtx(t *testing.T, userID string, role user.Role) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func member(id, firstName string) user.User {
	return user.User{ID: id, Email: id + "@example.com", FirstName: firstName, Role: user.RoleMember, IsActive: true}
}

func newTestService(msgRepo *fakeMessageRepo, userRepo *fakeUserRepo, hub *sse.Hub) message.Service {
	return NewMessageService(msgRepo, userRepo, hub, testLogger())
}

// ============= send tests =============

func TestMessageService_Send_Success(t *testing.T) {
	msgRepo := newFakeMessageRepo()
	userRepo := newFakeUserRepo(member("member-1", "Ana"))
	svc := newTestService(msgRepo, userRepo, sse.NewHub())
	ctx := authedCtx(t, "leader-1", user.RoleLeader)

	resp, err := svc.Send(ctx, message.SendMessageRequest{
		UserID:  "member-1",
		Type:    "GENERAL",
		Title:   "Welcome",
		Content: "Glad to have you!",
	})

	require.NoError(t, err)
	assert.Equal(t, "member-1", resp.UserID)
	assert.Equal(t, "leader-1", resp.SenderID)
	assert.Equal(t, "normal", resp.Priority)
	assert.False(t, resp.IsRead)
}

func TestMessageService_Send_RequiresSendPermission(t *testing.T) {
	userRepo := newFakeUserRepo(member("member-2", "Ben"))
	svc := newTestService(newFakeMessageRepo(), userRepo, sse.NewHub())
	ctx := authedCtx(t, "member-1", user.RoleMember)

	_, err := svc.Send(ctx, message.SendMessageRequest{
		UserID:  "member-2",
		Type:    "GENERAL",
		Title:   "Hi",
		Content: "Hello",
	})

	assert.ErrorIs(t, err, user.ErrPermissionDenied)
}

func TestMessageService_Send_UnknownRecipient(t *testing.T) {
	svc := newTestService(newFakeMessageRepo(), newFakeUserRepo(), sse.NewHub())
	ctx := authedCtx(t, "leader-1", user.RoleLeader)

	_, err := svc.Send(ctx, message.SendMessageRequest{
		UserID:  "ghost",
		Type:    "GENERAL",
		Title:   "Hi",
		Content: "Hello",
	})

	assert.ErrorIs(t, err, message.ErrRecipientMissing)
}

// The recipient's open connections get a new_message event after the insert.
func TestMessageService_Send_PublishesToHub(t *testing.T) {
	hub := sse.NewHub()
	ch, cleanup := hub.Subscribe("member-1")
	defer cleanup()

	userRepo := newFakeUserRepo(member("member-1", "Ana"))
	svc := newTestService(newFakeMessageRepo(), userRepo, hub)
	ctx := authedCtx(t, "leader-1", user.RoleLeader)

	_, err := svc.Send(ctx, message.SendMessageRequest{
		UserID:  "member-1",
		Type:    "GENERAL",
		Title:   "Welcome",
		Content: "Glad to have you!",
	})
	require.NoError(t, err)

	select {
	case event := <-ch:
		assert.Equal(t, "new_message", event.Event)
	case <-time.After(time.Second):
		t.Fatal("expected new_message event on subscriber channel")
	}
}

// A subscriber that stopped draining its channel must not block or fail the
// write path.
func TestMessageService_Send_FullSubscriberChannelDoesNotFailWrite(t *testing.T) {
	hub := sse.NewHub()
	ch, cleanup := hub.Subscribe("member-1")
	defer cleanup()

	// Saturate the buffered channel
	for i := 0; i < cap(ch); i++ {
		hub.Publish("member-1", sse.Event{UserID: "member-1", Event: "ping"})
	}

	userRepo := newFakeUserRepo(member("member-1", "Ana"))
	msgRepo := newFakeMessageRepo()
	svc := newTestService(msgRepo, userRepo, hub)
	ctx := authedCtx(t, "leader-1", user.RoleLeader)

	_, err := svc.Send(ctx, message.SendMessageRequest{
		UserID:  "member-1",
		Type:    "GENERAL",
		Title:   "Welcome",
		Content: "Glad to have you!",
	})

	require.NoError(t, err)
	assert.Len(t, msgRepo.messages, 1)
}

// ============= follow-up tests =============

func TestMessageService_SendFollowUp_TemplateMapping(t *testing.T) {
	tests := []struct {
		kind         string
		wantType     string
		wantPriority string
	}{
		{kind: "REMINDER", wantType: "GENERAL", wantPriority: "normal"},
		{kind: "CONCERN", wantType: "PASTORAL", wantPriority: "normal"},
		{kind: "PASTORAL", wantType: "PASTORAL", wantPriority: "high"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			userRepo := newFakeUserRepo(member("member-1", "Ana"))
			svc := newTestService(newFakeMessageRepo(), userRepo, sse.NewHub())
			ctx := authedCtx(t, "leader-1", user.RoleLeader)

			resp, err := svc.SendFollowUp(ctx, message.FollowUpRequest{
				TargetUserID: "member-1",
				TemplateKind: tt.kind,
				MissedCount:  4,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantType, resp.Type)
			assert.Equal(t, tt.wantPriority, resp.Priority)
			assert.Contains(t, resp.Content, "Ana")
			assert.Contains(t, resp.Content, "4")
		})
	}
}

func TestMessageService_SendFollowUp_UnknownTemplate(t *testing.T) {
	userRepo := newFakeUserRepo(member("member-1", "Ana"))
	svc := newTestService(newFakeMessageRepo(), userRepo, sse.NewHub())
	ctx := authedCtx(t, "leader-1", user.RoleLeader)

	_, err := svc.SendFollowUp(ctx, message.FollowUpRequest{
		TargetUserID: "member-1",
		TemplateKind: "NONSENSE",
		MissedCount:  2,
	})

	assert.Error(t, err)
}

// ============= inbox tests =============

func TestMessageService_MarkAsRead_Idempotent(t *testing.T) {
	msgRepo := newFakeMessageRepo()
	userRepo := newFakeUserRepo(member("member-1", "Ana"))
	svc := newTestService(msgRepo, userRepo, sse.NewHub())

	sent, err := svc.Send(authedCtx(t, "leader-1", user.RoleLeader), message.SendMessageRequest{
		UserID:  "member-1",
		Type:    "GENERAL",
		Title:   "Hi",
		Content: "Hello",
	})
	require.NoError(t, err)

	recipientCtx := authedCtx(t, "member-1", user.RoleMember)
	require.NoError(t, svc.MarkAsRead(recipientCtx, sent.ID))

	first := msgRepo.messages[sent.ID]
	require.True(t, first.IsRead)
	require.NotNil(t, first.ReadAt)
	firstReadAt := *first.ReadAt

	// Second call is a no-op
	require.NoError(t, svc.MarkAsRead(recipientCtx, sent.ID))
	second := msgRepo.messages[sent.ID]
	assert.Equal(t, firstReadAt, *second.ReadAt)
}

func TestMessageService_MarkAsRead_OnlyRecipient(t *testing.T) {
	msgRepo := newFakeMessageRepo()
	userRepo := newFakeUserRepo(member("member-1", "Ana"))
	svc := newTestService(msgRepo, userRepo, sse.NewHub())

	sent, err := svc.Send(authedCtx(t, "leader-1", user.RoleLeader), message.SendMessageRequest{
		UserID:  "member-1",
		Type:    "GENERAL",
		Title:   "Hi",
		Content: "Hello",
	})
	require.NoError(t, err)

	err = svc.MarkAsRead(authedCtx(t, "member-2", user.RoleMember), sent.ID)
	assert.ErrorIs(t, err, message.ErrNotRecipient)
}

func TestMessageService_UnreadCount(t *testing.T) {
	msgRepo := newFakeMessageRepo()
	userRepo := newFakeUserRepo(member("member-1", "Ana"))
	svc := newTestService(msgRepo, userRepo, sse.NewHub())
	leaderCtx := authedCtx(t, "leader-1", user.RoleLeader)

	for i := 0; i < 3; i++ {
		_, err := svc.Send(leaderCtx, message.SendMessageRequest{
			UserID:  "member-1",
			Type:    "GENERAL",
			Title:   "Hi",
			Content: "Hello",
		})
		require.NoError(t, err)
	}

	recipientCtx := authedCtx(t, "member-1", user.RoleMember)
	resp, err := svc.GetUnreadCount(recipientCtx)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.UnreadCount)

	require.NoError(t, svc.MarkAsRead(recipientCtx, "msg-1"))
	resp, err = svc.GetUnreadCount(recipientCtx)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.UnreadCount)
}

func TestMessageService_Reply_GoesBackToSender(t *testing.T) {
	msgRepo := newFakeMessageRepo()
	userRepo := newFakeUserRepo(member("member-1", "Ana"))
	svc := newTestService(msgRepo, userRepo, sse.NewHub())

	sent, err := svc.Send(authedCtx(t, "leader-1", user.RoleLeader), message.SendMessageRequest{
		UserID:  "member-1",
		Type:    "PASTORAL",
		Title:   "Checking in",
		Content: "How are you?",
	})
	require.NoError(t, err)

	reply, err := svc.Reply(authedCtx(t, "member-1", user.RoleMember), message.ReplyRequest{
		MessageID: sent.ID,
		Content:   "Doing well, thanks!",
	})

	require.NoError(t, err)
	assert.Equal(t, "leader-1", reply.UserID)
	assert.Equal(t, "member-1", reply.SenderID)
	require.NotNil(t, reply.ReplyToID)
	assert.Equal(t, sent.ID, *reply.ReplyToID)
	assert.False(t, reply.IsRead)
}

func TestMessageService_Reply_OnlyRecipientMayReply(t *testing.T) {
	msgRepo := newFakeMessageRepo()
	userRepo := newFakeUserRepo(member("member-1", "Ana"))
	svc := newTestService(msgRepo, userRepo, sse.NewHub())

	sent, err := svc.Send(authedCtx(t, "leader-1", user.RoleLeader), message.SendMessageRequest{
		UserID:  "member-1",
		Type:    "GENERAL",
		Title:   "Hi",
		Content: "Hello",
	})
	require.NoError(t, err)

	_, err = svc.Reply(authedCtx(t, "member-2", user.RoleMember), message.ReplyRequest{
		MessageID: sent.ID,
		Content:   "Not my message",
	})

	assert.ErrorIs(t, err, message.ErrNotRecipient)
}

func TestMessageService_GetMyMessages_ScopedToRecipient(t *testing.T) {
	msgRepo := newFakeMessageRepo()
	userRepo := newFakeUserRepo(member("member-1", "Ana"), member("member-2", "Ben"))
	svc := newTestService(msgRepo, userRepo, sse.NewHub())
	leaderCtx := authedCtx(t, "leader-1", user.RoleLeader)

	_, err := svc.Send(leaderCtx, message.SendMessageRequest{
		UserID: "member-1", Type: "GENERAL", Title: "A", Content: "for Ana",
	})
	require.NoError(t, err)
	_, err = svc.Send(leaderCtx, message.SendMessageRequest{
		UserID: "member-2", Type: "GENERAL", Title: "B", Content: "for Ben",
	})
	require.NoError(t, err)

	resp, err := svc.GetMyMessages(authedCtx(t, "member-1", user.RoleMember), message.MessageFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "member-1", resp.Messages[0].UserID)
	assert.Equal(t, 1, resp.UnreadCount)
}
