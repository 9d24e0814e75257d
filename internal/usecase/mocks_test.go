package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
	"github.com/saralhq/admin-backend/internal/repository"
)

// busMock records dispatched events so tests can assert on post-commit
// delivery without a real dispatcher.
type busMock struct {
	mu         sync.Mutex
	dispatched []domain.Event
}

func (b *busMock) Subscribe(string, port.EventHandler) {}

func (b *busMock) Dispatch(_ context.Context, events []domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dispatched = append(b.dispatched, events...)
}

func (b *busMock) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.dispatched))
	for _, event := range b.dispatched {
		out = append(out, event.EventName())
	}
	return out
}

type userRepoMock struct {
	mu    sync.Mutex
	users map[string]*domain.User

	createErr         error
	updateErr         error
	updatePasswordErr error
	listErr           error
}

func newUserRepoMock() *userRepoMock {
	return &userRepoMock{users: make(map[string]*domain.User)}
}

func (m *userRepoMock) Create(_ context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrConflict
		}
	}
	clone := *user
	clone.Events = domain.Events{}
	m.users[user.ID] = &clone
	return nil
}

func (m *userRepoMock) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *userRepoMock) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) List(context.Context) ([]domain.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *userRepoMock) Update(_ context.Context, user *domain.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *user
	clone.Events = domain.Events{}
	m.users[user.ID] = &clone
	return nil
}

func (m *userRepoMock) UpdatePassword(_ context.Context, id, passwordHash string, temporary bool) error {
	if m.updatePasswordErr != nil {
		return m.updatePasswordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.IsTemporaryPassword = temporary
	return nil
}

type roleRepoMock struct {
	mu        sync.Mutex
	roles     map[string]*domain.Role
	userRoles map[string][]string
	rolePerms map[string][]string

	createErr error
	updateErr error
	deleteErr error
	grantErr  error
	assignErr error
	countErr  error
}

func newRoleRepoMock() *roleRepoMock {
	return &roleRepoMock{
		roles:     make(map[string]*domain.Role),
		userRoles: make(map[string][]string),
		rolePerms: make(map[string][]string),
	}
}

func (m *roleRepoMock) Create(_ context.Context, role *domain.Role) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.roles {
		if existing.Name == role.Name {
			return repository.ErrConflict
		}
	}
	clone := *role
	clone.Events = domain.Events{}
	m.roles[role.ID] = &clone
	return nil
}

func (m *roleRepoMock) GetByID(_ context.Context, id string) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *role
	return &clone, nil
}

func (m *roleRepoMock) GetByName(_ context.Context, name string) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, role := range m.roles {
		if role.Name == name {
			clone := *role
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) List(context.Context) ([]domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Role, 0, len(m.roles))
	for _, role := range m.roles {
		out = append(out, *role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *roleRepoMock) Update(_ context.Context, role *domain.Role) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[role.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *role
	clone.Events = domain.Events{}
	m.roles[role.ID] = &clone
	return nil
}

func (m *roleRepoMock) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.roles, id)
	delete(m.rolePerms, id)
	return nil
}

func (m *roleRepoMock) ExistingIDs(_ context.Context, ids []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := m.roles[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *roleRepoMock) CountUsers(_ context.Context, roleID string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, assigned := range m.userRoles {
		for _, id := range assigned {
			if id == roleID {
				count++
			}
		}
	}
	return count, nil
}

func (m *roleRepoMock) GrantPermissions(_ context.Context, roleID string, permissionIDs []string) (int, error) {
	if m.grantErr != nil {
		return 0, m.grantErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	held := make(map[string]struct{}, len(m.rolePerms[roleID]))
	for _, id := range m.rolePerms[roleID] {
		held[id] = struct{}{}
	}
	inserted := 0
	for _, id := range permissionIDs {
		if _, ok := held[id]; ok {
			continue
		}
		m.rolePerms[roleID] = append(m.rolePerms[roleID], id)
		inserted++
	}
	return inserted, nil
}

func (m *roleRepoMock) RevokePermissions(_ context.Context, roleID string, permissionIDs []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := make(map[string]struct{}, len(permissionIDs))
	for _, id := range permissionIDs {
		drop[id] = struct{}{}
	}
	kept := make([]string, 0, len(m.rolePerms[roleID]))
	removed := 0
	for _, id := range m.rolePerms[roleID] {
		if _, ok := drop[id]; ok {
			removed++
			continue
		}
		kept = append(kept, id)
	}
	m.rolePerms[roleID] = kept
	return removed, nil
}

func (m *roleRepoMock) AssignToUser(_ context.Context, userID string, roleIDs []string) error {
	if m.assignErr != nil {
		return m.assignErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	held := make(map[string]struct{}, len(m.userRoles[userID]))
	for _, id := range m.userRoles[userID] {
		held[id] = struct{}{}
	}
	for _, id := range roleIDs {
		if _, ok := held[id]; ok {
			continue
		}
		m.userRoles[userID] = append(m.userRoles[userID], id)
	}
	return nil
}

func (m *roleRepoMock) RemoveAllFromUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.userRoles, userID)
	return nil
}

func (m *roleRepoMock) ListByUser(_ context.Context, userID string) ([]domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Role, 0)
	for _, id := range m.userRoles[userID] {
		if role, ok := m.roles[id]; ok {
			out = append(out, *role)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type permissionRepoMock struct {
	mu          sync.Mutex
	permissions map[string]domain.Permission
	keysByUser  map[string][]string

	listErr       error
	keysByUserErr error
}

func newPermissionRepoMock() *permissionRepoMock {
	return &permissionRepoMock{
		permissions: make(map[string]domain.Permission),
		keysByUser:  make(map[string][]string),
	}
}

func (m *permissionRepoMock) CreateMany(_ context.Context, permissions []domain.Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, permission := range permissions {
		m.permissions[permission.ID] = permission
	}
	return nil
}

func (m *permissionRepoMock) List(context.Context) ([]domain.Permission, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Permission, 0, len(m.permissions))
	for _, permission := range m.permissions {
		out = append(out, permission)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func (m *permissionRepoMock) ListKeys(ctx context.Context) ([]string, error) {
	permissions, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		keys = append(keys, permission.Key)
	}
	return keys, nil
}

func (m *permissionRepoMock) ExistingIDs(_ context.Context, ids []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := m.permissions[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *permissionRepoMock) ListByRole(_ context.Context, _ string) ([]domain.Permission, error) {
	return nil, nil
}

func (m *permissionRepoMock) KeysByUser(_ context.Context, userID string) ([]string, error) {
	if m.keysByUserErr != nil {
		return nil, m.keysByUserErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.keysByUser[userID]...), nil
}

type efaConfigRepoMock struct {
	mu      sync.Mutex
	configs map[string]*domain.EfaConfiguration

	createErr error
	updateErr error
	deleteErr error
	listErr   error
}

func newEfaConfigRepoMock() *efaConfigRepoMock {
	return &efaConfigRepoMock{configs: make(map[string]*domain.EfaConfiguration)}
}

func (m *efaConfigRepoMock) Create(_ context.Context, config *domain.EfaConfiguration) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.configs {
		if existing.Year == config.Year {
			return repository.ErrConflict
		}
	}
	clone := *config
	clone.Events = domain.Events{}
	m.configs[config.ID] = &clone
	return nil
}

func (m *efaConfigRepoMock) GetByID(_ context.Context, id string) (*domain.EfaConfiguration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	config, ok := m.configs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *config
	return &clone, nil
}

func (m *efaConfigRepoMock) List(context.Context) ([]domain.EfaConfiguration, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EfaConfiguration, 0, len(m.configs))
	for _, config := range m.configs {
		out = append(out, *config)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (m *efaConfigRepoMock) ListByYears(_ context.Context, years []int) ([]domain.EfaConfiguration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[int]struct{}, len(years))
	for _, year := range years {
		wanted[year] = struct{}{}
	}
	out := make([]domain.EfaConfiguration, 0)
	for _, config := range m.configs {
		if _, ok := wanted[config.Year]; ok {
			out = append(out, *config)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (m *efaConfigRepoMock) YearExists(_ context.Context, year int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, config := range m.configs {
		if config.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (m *efaConfigRepoMock) Update(_ context.Context, config *domain.EfaConfiguration) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.configs[config.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *config
	clone.Events = domain.Events{}
	m.configs[config.ID] = &clone
	return nil
}

func (m *efaConfigRepoMock) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.configs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.configs, id)
	return nil
}

type fileRepoMock struct {
	mu    sync.Mutex
	files map[string]*domain.UploadedFile

	createErr error
	deleteErr error
}

func newFileRepoMock() *fileRepoMock {
	return &fileRepoMock{files: make(map[string]*domain.UploadedFile)}
}

func (m *fileRepoMock) Create(_ context.Context, file *domain.UploadedFile) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *file
	clone.Events = domain.Events{}
	m.files[file.ID] = &clone
	return nil
}

func (m *fileRepoMock) GetByID(_ context.Context, id string) (*domain.UploadedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *file
	return &clone, nil
}

func (m *fileRepoMock) List(context.Context) ([]domain.UploadedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.UploadedFile, 0, len(m.files))
	for _, file := range m.files {
		out = append(out, *file)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *fileRepoMock) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.files, id)
	return nil
}

// workMock implements port.Work over the repository mocks. SaveChanges
// mirrors the production unit of work: pending events are pulled from
// registered carriers in registration order and handed to the bus only
// when the save succeeds.
type workMock struct {
	users   *userRepoMock
	roles   *roleRepoMock
	perms   *permissionRepoMock
	configs *efaConfigRepoMock
	files   *fileRepoMock
	bus     *busMock

	carriers   []domain.EventCarrier
	saved      int
	rolledBack int
	saveErr    error
}

func (w *workMock) Users() port.UserRepository { return w.users }
func (w *workMock) Roles() port.RoleRepository { return w.roles }
func (w *workMock) Permissions() port.PermissionRepository { return w.perms }
func (w *workMock) EfaConfigurations() port.EfaConfigurationRepository { return w.configs }
func (w *workMock) Files() port.FileRepository { return w.files }

func (w *workMock) Register(carrier domain.EventCarrier) {
	for _, existing := range w.carriers {
		if existing == carrier {
			return
		}
	}
	w.carriers = append(w.carriers, carrier)
}

func (w *workMock) SaveChanges(ctx context.Context) (int, error) {
	if w.saveErr != nil {
		return 0, w.saveErr
	}
	w.saved++
	var pending []domain.Event
	for _, carrier := range w.carriers {
		pending = append(pending, carrier.PullEvents()...)
	}
	if w.bus != nil {
		w.bus.Dispatch(ctx, pending)
	}
	return len(pending), nil
}

func (w *workMock) Rollback(context.Context) error {
	w.rolledBack++
	return nil
}

type uowMock struct {
	work     *workMock
	beginErr error
}

func newUOWMock(bus *busMock) *uowMock {
	return &uowMock{work: &workMock{
		users:   newUserRepoMock(),
		roles:   newRoleRepoMock(),
		perms:   newPermissionRepoMock(),
		configs: newEfaConfigRepoMock(),
		files:   newFileRepoMock(),
		bus:     bus,
	}}
}

func (u *uowMock) Begin(context.Context) (port.Work, error) {
	if u.beginErr != nil {
		return nil, u.beginErr
	}
	return u.work, nil
}

type hasherMock struct {
	hashErr   error
	verifyErr error
}

func (h *hasherMock) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *hasherMock) Verify(password, encoded string) (bool, error) {
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return encoded == "hashed:"+password, nil
}

type tokenManagerMock struct {
	issueErr error
	parseErr error
	userID   string
}

func (t *tokenManagerMock) Issue(userID string) (string, time.Time, error) {
	if t.issueErr != nil {
		return "", time.Time{}, t.issueErr
	}
	return "token-" + userID, time.Now().Add(time.Hour), nil
}

func (t *tokenManagerMock) Parse(token string) (string, error) {
	if t.parseErr != nil {
		return "", t.parseErr
	}
	if t.userID != "" {
		return t.userID, nil
	}
	return strings.TrimPrefix(token, "token-"), nil
}

type permissionCacheMock struct {
	mu      sync.Mutex
	sets    map[string][]string
	reads   int
	writes  int
	flushes int

	readErr  error
	writeErr error
	flushErr error
}

func newPermissionCacheMock() *permissionCacheMock {
	return &permissionCacheMock{sets: make(map[string][]string)}
}

func (c *permissionCacheMock) EffectiveSet(_ context.Context, userID string) ([]string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	keys, ok := c.sets[userID]
	return keys, ok, nil
}

func (c *permissionCacheMock) StoreSet(_ context.Context, userID string, keys []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	if c.writeErr != nil {
		return c.writeErr
	}
	c.sets[userID] = append([]string(nil), keys...)
	return nil
}

func (c *permissionCacheMock) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushes++
	if c.flushErr != nil {
		return c.flushErr
	}
	c.sets = make(map[string][]string)
	return nil
}
