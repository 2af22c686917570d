package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"stock_backend/internal/models"
	"stock_backend/internal/repositories"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// snapshotter is implemented by fakes that take part in fake transactions.
type snapshotter interface {
	snapshot() (restore func())
}

// fakeTransactor serialises units of work and restores every participant
// when fn fails, mirroring a rollback.
type fakeTransactor struct {
	mu           sync.Mutex
	participants []snapshotter
}

func newFakeTransactor(participants ...snapshotter) *fakeTransactor {
	return &fakeTransactor{participants: participants}
}

func (t *fakeTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	restores := make([]func(), 0, len(t.participants))
	for _, p := range t.participants {
		restores = append(restores, p.snapshot())
	}
	if err := fn(nil); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

func paginate[T any](items []T, page models.PageParams) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return append([]T{}, items[start:end]...)
}

// --- work records ---

type fakeWorkRecordRepo struct {
	mu      sync.Mutex
	records map[string]models.WorkRecord
}

func newFakeWorkRecordRepo() *fakeWorkRecordRepo {
	return &fakeWorkRecordRepo{records: map[string]models.WorkRecord{}}
}

func cloneRecord(r models.WorkRecord) models.WorkRecord {
	r.Description = append(models.Notes{}, r.Description...)
	if r.EndTime != nil {
		t := *r.EndTime
		r.EndTime = &t
	}
	if r.TotalHours != nil {
		s := *r.TotalHours
		r.TotalHours = &s
	}
	return r
}

func (f *fakeWorkRecordRepo) snapshot() func() {
	f.mu.Lock()
	saved := make(map[string]models.WorkRecord, len(f.records))
	for k, v := range f.records {
		saved[k] = cloneRecord(v)
	}
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.records = saved
		f.mu.Unlock()
	}
}

func (f *fakeWorkRecordRepo) put(rec models.WorkRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[rec.ID] = cloneRecord(rec)
}

func (f *fakeWorkRecordRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func (f *fakeWorkRecordRepo) Create(ctx context.Context, exec repositories.SQLExecutor, rec *models.WorkRecord) (*models.WorkRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.UserID == rec.UserID && r.IsActive() && rec.IsActive() {
			return nil, repositories.ErrDuplicateKey
		}
	}
	f.records[rec.ID] = cloneRecord(*rec)
	out := cloneRecord(*rec)
	return &out, nil
}

func (f *fakeWorkRecordRepo) findWhere(match func(models.WorkRecord) bool) (*models.WorkRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if match(r) {
			out := cloneRecord(r)
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeWorkRecordRepo) FindByID(ctx context.Context, id string) (*models.WorkRecord, error) {
	return f.findWhere(func(r models.WorkRecord) bool { return r.ID == id })
}

func (f *fakeWorkRecordRepo) FindActiveByUser(ctx context.Context, userID string) (*models.WorkRecord, error) {
	return f.findWhere(func(r models.WorkRecord) bool { return r.UserID == userID && r.IsActive() })
}

func (f *fakeWorkRecordRepo) FindActiveByIDAndUser(ctx context.Context, recordID, userID string) (*models.WorkRecord, error) {
	return f.findWhere(func(r models.WorkRecord) bool {
		return r.ID == recordID && r.UserID == userID && r.IsActive()
	})
}

func (f *fakeWorkRecordRepo) AppendNote(ctx context.Context, exec repositories.SQLExecutor, id string, note models.Note) (*models.WorkRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	r.Description = append(r.Description, note)
	f.records[id] = r
	out := cloneRecord(r)
	return &out, nil
}

func (f *fakeWorkRecordRepo) Close(ctx context.Context, exec repositories.SQLExecutor, id string, endTime time.Time, totalHours string) (*models.WorkRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok || !r.IsActive() {
		return nil, repositories.ErrNotFound
	}
	r.EndTime = &endTime
	r.TotalHours = &totalHours
	r.Status = models.WorkRecordClosed
	f.records[id] = r
	out := cloneRecord(r)
	return &out, nil
}

func (f *fakeWorkRecordRepo) list(match func(models.WorkRecord) bool, page models.PageParams) ([]models.WorkRecord, int, error) {
	f.mu.Lock()
	var matched []models.WorkRecord
	for _, r := range f.records {
		if match(r) {
			matched = append(matched, cloneRecord(r))
		}
	}
	f.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].WorkDate.Equal(matched[j].WorkDate) {
			return matched[i].WorkDate.After(matched[j].WorkDate)
		}
		return matched[i].StartTime.After(matched[j].StartTime)
	})
	return paginate(matched, page), len(matched), nil
}

func (f *fakeWorkRecordRepo) ListByStatus(ctx context.Context, status models.WorkRecordStatus, page models.PageParams) ([]models.WorkRecord, int, error) {
	return f.list(func(r models.WorkRecord) bool { return r.Status == status }, page)
}

func (f *fakeWorkRecordRepo) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time, page models.PageParams) ([]models.WorkRecord, int, error) {
	return f.list(func(r models.WorkRecord) bool {
		return r.UserID == userID && !r.WorkDate.Before(from) && r.WorkDate.Before(to)
	}, page)
}

// --- users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[string]models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) snapshot() func() {
	f.mu.Lock()
	saved := make(map[string]models.User, len(f.users))
	for k, v := range f.users {
		saved[k] = v
	}
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.users = saved
		f.mu.Unlock()
	}
}

func (f *fakeUserRepo) get(id string) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id]
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Documents == user.Documents {
			return nil, repositories.ErrDuplicateKey
		}
	}
	f.users[user.ID] = *user
	out := *user
	return &out, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) FindByDocuments(ctx context.Context, documents string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Documents == documents {
			out := u
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) sorted(match func(models.User) bool) []models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if match(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeUserRepo) List(ctx context.Context, page models.PageParams) ([]models.User, int, error) {
	all := f.sorted(func(models.User) bool { return true })
	return paginate(all, page), len(all), nil
}

func (f *fakeUserRepo) SearchByName(ctx context.Context, prefix string, page models.PageParams) ([]models.User, int, error) {
	prefix = strings.ToLower(prefix)
	all := f.sorted(func(u models.User) bool { return strings.HasPrefix(strings.ToLower(u.Name), prefix) })
	return paginate(all, page), len(all), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.users[user.ID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for _, u := range f.users {
		if u.ID != user.ID && u.Documents == user.Documents {
			return nil, repositories.ErrDuplicateKey
		}
	}
	cur.Name, cur.SurName, cur.Documents, cur.Role = user.Name, user.SurName, user.Documents, user.Role
	f.users[user.ID] = cur
	return &cur, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SetActive(ctx context.Context, exec repositories.SQLExecutor, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.IsActive = active
	f.users[id] = u
	return nil
}

// --- audit ---

type recordedLog struct {
	Actor models.Actor
	Entry LogEntry
}

type fakeGlobalLogService struct {
	mu      sync.Mutex
	entries []recordedLog
}

func (f *fakeGlobalLogService) Record(ctx context.Context, actor models.Actor, entry LogEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, recordedLog{Actor: actor, Entry: entry})
}

func (f *fakeGlobalLogService) ListCurrentMonth(ctx context.Context, page models.PageParams) (*models.GlobalLogsPage, error) {
	return &models.GlobalLogsPage{Data: []models.GlobalLog{}}, nil
}

func (f *fakeGlobalLogService) SearchByMonth(ctx context.Context, month string, page models.PageParams) (*models.GlobalLogsMonthPage, error) {
	return &models.GlobalLogsMonthPage{Data: []models.GlobalLog{}}, nil
}

func (f *fakeGlobalLogService) all() []recordedLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedLog{}, f.entries...)
}

func (f *fakeGlobalLogService) last() recordedLog {
	all := f.all()
	if len(all) == 0 {
		return recordedLog{}
	}
	return all[len(all)-1]
}

type fakeGlobalLogRepo struct {
	mu   sync.Mutex
	logs []models.GlobalLog
	err  error
}

func (f *fakeGlobalLogRepo) Create(ctx context.Context, entry *models.GlobalLog) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, *entry)
	return nil
}

func (f *fakeGlobalLogRepo) ListByRange(ctx context.Context, from, to time.Time, page models.PageParams) ([]models.GlobalLog, int, error) {
	f.mu.Lock()
	var matched []models.GlobalLog
	for _, l := range f.logs {
		if !l.Date.Before(from) && l.Date.Before(to) {
			matched = append(matched, l)
		}
	}
	f.mu.Unlock()
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })
	return paginate(matched, page), len(matched), nil
}

// --- products ---

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]models.Product
}

func newFakeProductRepo(products ...models.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: map[string]models.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = *p
	out := *p
	return &out, nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProductRepo) sorted(match func(models.Product) bool) []models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.products {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeProductRepo) List(ctx context.Context, page models.PageParams) ([]models.Product, int, error) {
	all := f.sorted(func(models.Product) bool { return true })
	return paginate(all, page), len(all), nil
}

func (f *fakeProductRepo) Search(ctx context.Context, field repositories.ProductSearchField, prefix string, page models.PageParams) ([]models.Product, int, error) {
	prefix = strings.ToLower(prefix)
	all := f.sorted(func(p models.Product) bool {
		v := p.Name
		if field == repositories.ProductSearchByDimension {
			v = p.Dimension
		}
		return strings.HasPrefix(strings.ToLower(v), prefix)
	})
	return paginate(all, page), len(all), nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return nil, repositories.ErrNotFound
	}
	f.products[p.ID] = *p
	out := *p
	return &out, nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) AdjustQuantity(ctx context.Context, id string, delta int) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return 0, 0, repositories.ErrNotFound
	}
	if p.Quantity+delta < 0 {
		return p.Quantity, p.Quantity, repositories.ErrConflict
	}
	before := p.Quantity
	p.Quantity += delta
	f.products[id] = p
	return before, p.Quantity, nil
}

// --- admins ---

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[string]models.AdminUser
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[string]models.AdminUser{}}
}

func (f *fakeAdminRepo) Create(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.admins[admin.Username]; ok {
		return nil, repositories.ErrDuplicateKey
	}
	f.admins[admin.Username] = *admin
	out := *admin
	return &out, nil
}

func (f *fakeAdminRepo) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAdminRepo) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.admins), nil
}
