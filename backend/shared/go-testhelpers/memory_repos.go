package testhelpers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-repositories"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

var (
	_ repositories.UserRepository     = (*MemoryUserRepo)(nil)
	_ repositories.EmailOTPRepository = (*MemoryEmailOTPRepo)(nil)
	_ repositories.ChatRepository     = (*MemoryChatRepo)(nil)
	_ repositories.PointRepository    = (*MemoryPointRepo)(nil)
	_ repositories.ContactRepository  = (*MemoryContactRepo)(nil)
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type MemoryUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: map[uuid.UUID]*models.User{}}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *MemoryUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = utils.NormalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return utils.ErrEmailExists
		}
		if strings.EqualFold(existing.Username, u.Username) {
			return utils.ErrUsernameExists
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	u.IsVerified = false
	u.RowVersion = 1
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findLocked(func(u *models.User) bool { return u.Email == utils.NormalizeEmail(email) }), nil
}

func (r *MemoryUserRepo) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	ident := strings.ToLower(strings.TrimSpace(identifier))
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.findLocked(func(u *models.User) bool { return u.Email == ident }); u != nil {
		return u, nil
	}
	return r.findLocked(func(u *models.User) bool { return strings.ToLower(u.Username) == ident }), nil
}

func (r *MemoryUserRepo) findLocked(match func(*models.User) bool) *models.User {
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u)
		}
	}
	return nil
}

func (r *MemoryUserRepo) MarkVerified(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == utils.NormalizeEmail(email) {
			u.IsVerified = true
			u.UpdatedAt = time.Now().UTC()
			u.RowVersion++
			return nil
		}
	}
	return utils.ErrUserNotFound
}

func (r *MemoryUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return utils.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	u.RowVersion++
	return nil
}

func (r *MemoryUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, upd models.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return utils.ErrUserNotFound
	}
	if upd.Empty() {
		return nil
	}
	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		for otherID, other := range r.users {
			if otherID != id && strings.EqualFold(other.Username, name) {
				return utils.ErrUsernameExists
			}
		}
		u.Username = name
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.AvatarPath != nil {
		u.AvatarPath = upd.AvatarPath
	}
	u.UpdatedAt = time.Now().UTC()
	u.RowVersion++
	return nil
}

// ---------------------------------------------------------------------------
// Email OTPs
// ---------------------------------------------------------------------------

type otpKey struct {
	email   string
	purpose models.OTPPurpose
}

type MemoryEmailOTPRepo struct {
	mu   sync.Mutex
	rows map[otpKey]*models.EmailOTP
	// Now is used by CleanupExpired; nil means time.Now.
	Now func() time.Time
}

func NewMemoryEmailOTPRepo() *MemoryEmailOTPRepo {
	return &MemoryEmailOTPRepo{rows: map[otpKey]*models.EmailOTP{}}
}

func (r *MemoryEmailOTPRepo) key(email string, purpose models.OTPPurpose) otpKey {
	return otpKey{email: utils.NormalizeEmail(email), purpose: purpose}
}

func (r *MemoryEmailOTPRepo) Upsert(_ context.Context, otp *models.EmailOTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	otp.Email = utils.NormalizeEmail(otp.Email)
	otp.Attempts = 0
	c := *otp
	r.rows[r.key(otp.Email, otp.Purpose)] = &c
	return nil
}

func (r *MemoryEmailOTPRepo) Get(_ context.Context, email string, purpose models.OTPPurpose) (*models.EmailOTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[r.key(email, purpose)]; ok {
		c := *row
		return &c, nil
	}
	return nil, nil
}

func (r *MemoryEmailOTPRepo) ReserveAttempt(_ context.Context, email string, purpose models.OTPPurpose, codeHash string, maxAttempts int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[r.key(email, purpose)]
	if !ok || row.CodeHash != codeHash || row.Attempts >= maxAttempts {
		return false, nil
	}
	row.Attempts++
	return true, nil
}

func (r *MemoryEmailOTPRepo) Consume(_ context.Context, email string, purpose models.OTPPurpose, codeHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := r.key(email, purpose)
	row, ok := r.rows[k]
	if !ok || row.CodeHash != codeHash {
		return false, nil
	}
	delete(r.rows, k)
	return true, nil
}

func (r *MemoryEmailOTPRepo) CleanupExpired(_ context.Context) error {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, row := range r.rows {
		if row.ExpiresAt.Before(now) {
			delete(r.rows, k)
		}
	}
	return nil
}

// Len reports the number of stored codes.
func (r *MemoryEmailOTPRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// ---------------------------------------------------------------------------
// Chats
// ---------------------------------------------------------------------------

type MemoryChatRepo struct {
	mu       sync.Mutex
	chats    map[uuid.UUID]*models.Chat
	messages map[uuid.UUID][]*models.ChatMessage
	nextID   int64
}

func NewMemoryChatRepo() *MemoryChatRepo {
	return &MemoryChatRepo{
		chats:    map[uuid.UUID]*models.Chat{},
		messages: map[uuid.UUID][]*models.ChatMessage{},
	}
}

func (r *MemoryChatRepo) Create(_ context.Context, c *models.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	cp := *c
	r.chats[c.ID] = &cp
	return nil
}

func (r *MemoryChatRepo) GetOwned(_ context.Context, chatID, userID uuid.UUID) (*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[chatID]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryChatRepo) userChatsLocked(userID uuid.UUID) []*models.Chat {
	var out []*models.Chat
	for _, c := range r.chats {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out
}

func (r *MemoryChatRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.userChatsLocked(userID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *MemoryChatRepo) FirstByUser(_ context.Context, userID uuid.UUID) (*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.userChatsLocked(userID)
	if len(out) == 0 {
		return nil, nil
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out[0], nil
}

func (r *MemoryChatRepo) Touch(_ context.Context, chatID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.chats[chatID]; ok {
		c.UpdatedAt = at
	}
	return nil
}

func (r *MemoryChatRepo) AddMessage(_ context.Context, m *models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	cp := *m
	r.messages[m.ChatID] = append(r.messages[m.ChatID], &cp)
	return nil
}

func (r *MemoryChatRepo) ListMessages(_ context.Context, chatID uuid.UUID) ([]*models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyMessages(r.messages[chatID]), nil
}

func (r *MemoryChatRepo) RecentMessages(_ context.Context, chatID uuid.UUID, limit int) ([]*models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[chatID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return copyMessages(msgs), nil
}

func copyMessages(in []*models.ChatMessage) []*models.ChatMessage {
	out := make([]*models.ChatMessage, 0, len(in))
	for _, m := range in {
		cp := *m
		out = append(out, &cp)
	}
	return out
}

// ---------------------------------------------------------------------------
// Points
// ---------------------------------------------------------------------------

type MemoryPointRepo struct {
	mu     sync.Mutex
	points []*models.Point
}

func NewMemoryPointRepo(points ...*models.Point) *MemoryPointRepo {
	r := &MemoryPointRepo{}
	_ = r.CreateBatch(context.Background(), points)
	return r
}

func (r *MemoryPointRepo) ListAll(_ context.Context) ([]*models.Point, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Point, 0, len(r.points))
	for _, p := range r.points {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryPointRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.points), nil
}

func (r *MemoryPointRepo) CreateBatch(_ context.Context, points []*models.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range points {
		p.ID = int64(len(r.points) + 1)
		p.UpdatedAt = time.Now().UTC()
		cp := *p
		r.points = append(r.points, &cp)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

type MemoryContactRepo struct {
	mu       sync.Mutex
	Messages []models.ContactMessage
}

func (r *MemoryContactRepo) Create(_ context.Context, m *models.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = int64(len(r.Messages) + 1)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	r.Messages = append(r.Messages, *m)
	return nil
}

// ---------------------------------------------------------------------------
// Refresh tokens
// ---------------------------------------------------------------------------

type MemoryTokenRepo struct {
	mu   sync.Mutex
	rows map[string]models.RefreshToken
}

var _ repositories.TokenRepository = (*MemoryTokenRepo)(nil)

func NewMemoryTokenRepo() *MemoryTokenRepo {
	return &MemoryTokenRepo{rows: map[string]models.RefreshToken{}}
}

func (r *MemoryTokenRepo) Store(_ context.Context, rawToken string, userID uuid.UUID, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := utils.HashToken(rawToken)
	r.rows[h] = models.RefreshToken{TokenHash: h, UserID: userID, ExpiresAt: expiresAt, CreatedAt: time.Now().UTC()}
	return nil
}

func (r *MemoryTokenRepo) Lookup(_ context.Context, rawToken string, now time.Time) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.rows[utils.HashToken(rawToken)]
	if !ok || rt.IsExpired(now) {
		return nil, nil
	}
	return &rt, nil
}

func (r *MemoryTokenRepo) Consume(_ context.Context, rawToken string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := utils.HashToken(rawToken)
	rt, ok := r.rows[h]
	if !ok || rt.IsExpired(now) {
		return false, nil
	}
	delete(r.rows, h)
	return true, nil
}

func (r *MemoryTokenRepo) Revoke(_ context.Context, rawToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, utils.HashToken(rawToken))
	return nil
}

func (r *MemoryTokenRepo) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, rt := range r.rows {
		if rt.UserID == userID {
			delete(r.rows, h)
		}
	}
	return nil
}

func (r *MemoryTokenRepo) CleanupExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for h, rt := range r.rows {
		if rt.IsExpired(now) {
			delete(r.rows, h)
		}
	}
	return nil
}

// Len reports the number of stored tokens.
func (r *MemoryTokenRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
