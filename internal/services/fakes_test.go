package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"estatehub_backend/internal/email"
	"estatehub_backend/internal/models"
	"estatehub_backend/internal/repositories"
	"estatehub_backend/internal/search"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ============================================
// Categories
// ============================================

// memCategories enforces slug uniqueness the way the unique index does.
type memCategories struct {
	mu        sync.Mutex
	items     map[primitive.ObjectID]*models.Category
	activeErr error
}

func newMemCategories() *memCategories {
	return &memCategories{items: map[primitive.ObjectID]*models.Category{}}
}

func (r *memCategories) sorted(activeOnly bool) []models.Category {
	out := make([]models.Category, 0, len(r.items))
	for _, c := range r.items {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *memCategories) ListActive(ctx context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.activeErr != nil {
		return nil, r.activeErr
	}
	return r.sorted(true), nil
}

func (r *memCategories) ListAll(ctx context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(false), nil
}

func (r *memCategories) FindByID(ctx context.Context, id string) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCategories) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memCategories) Create(ctx context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Slug == c.Slug {
			return repositories.ErrDuplicate
		}
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *memCategories) Update(ctx context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	for id, existing := range r.items {
		if id != c.ID && existing.Slug == c.Slug {
			return repositories.ErrDuplicate
		}
	}
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *memCategories) AdjustSubcategoryCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok || c.SubcategoryCount+delta < 0 {
		return repositories.ErrNotFound
	}
	c.SubcategoryCount += delta
	return nil
}

func (r *memCategories) DeleteIfUnreferenced(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[oid]
	if !ok {
		return repositories.ErrNotFound
	}
	if c.SubcategoryCount > 0 {
		return repositories.ErrHasDependents
	}
	delete(r.items, oid)
	return nil
}

func (r *memCategories) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

// memSubcategories enforces (categoryId, slug) uniqueness.
type memSubcategories struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Subcategory
}

func newMemSubcategories() *memSubcategories {
	return &memSubcategories{items: map[primitive.ObjectID]*models.Subcategory{}}
}

func (r *memSubcategories) ListByCategory(ctx context.Context, categoryID primitive.ObjectID, activeOnly bool) ([]models.Subcategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Subcategory{}
	for _, s := range r.items {
		if s.CategoryID != categoryID || (activeOnly && !s.IsActive) {
			continue
		}
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memSubcategories) FindByID(ctx context.Context, id string) (*models.Subcategory, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSubcategories) FindBySlug(ctx context.Context, categoryID primitive.ObjectID, slug string) (*models.Subcategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.items {
		if s.CategoryID == categoryID && s.Slug == slug {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memSubcategories) Create(ctx context.Context, sub *models.Subcategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.items {
		if s.CategoryID == sub.CategoryID && s.Slug == sub.Slug {
			return repositories.ErrDuplicate
		}
	}
	sub.ID = primitive.NewObjectID()
	cp := *sub
	r.items[sub.ID] = &cp
	return nil
}

func (r *memSubcategories) Update(ctx context.Context, sub *models.Subcategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[sub.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *sub
	r.items[sub.ID] = &cp
	return nil
}

func (r *memSubcategories) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memSubcategories) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.items {
		if s.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// ============================================
// Properties
// ============================================

type memProperties struct {
	mu         sync.Mutex
	items      map[primitive.ObjectID]*models.Property
	promotions []models.PackageType
	updates    int
}

func newMemProperties(props ...*models.Property) *memProperties {
	r := &memProperties{items: map[primitive.ObjectID]*models.Property{}}
	for _, p := range props {
		r.items[p.ID] = p
	}
	return r
}

func (r *memProperties) get(id primitive.ObjectID) (*models.Property, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return p, nil
}

func (r *memProperties) FindByID(ctx context.Context, id string) (*models.Property, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.get(oid)
	if err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (r *memProperties) List(ctx context.Context, f repositories.PropertyFilter) ([]models.Property, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Property{}
	for _, p := range r.items {
		if f.PublicOnly && !p.IsPublic() {
			continue
		}
		if f.OwnerID != nil && p.OwnerID != *f.OwnerID {
			continue
		}
		if f.ApprovalStatus != "" && p.ApprovalStatus != f.ApprovalStatus {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *memProperties) Create(ctx context.Context, p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *memProperties) Update(ctx context.Context, p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.get(p.ID); err != nil {
		return err
	}
	cp := *p
	r.items[p.ID] = &cp
	r.updates++
	return nil
}

func (r *memProperties) Updates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates
}

func (r *memProperties) SetApproval(ctx context.Context, id primitive.ObjectID, status models.ApprovalStatus, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.get(id)
	if err != nil {
		return err
	}
	p.ApprovalStatus = status
	p.RejectionReason = reason
	return nil
}

func (r *memProperties) SetStatus(ctx context.Context, id primitive.ObjectID, status models.PropertyStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.get(id)
	if err != nil {
		return err
	}
	p.Status = status
	return nil
}

func (r *memProperties) SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.get(id)
	if err != nil {
		return err
	}
	p.Featured = featured
	p.FeaturedUntil = nil
	return nil
}

func (r *memProperties) ApplyPromotion(ctx context.Context, id primitive.ObjectID, kind models.PackageType, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.get(id)
	if err != nil {
		return err
	}
	p.Promote(kind, until)
	r.promotions = append(r.promotions, kind)
	return nil
}

func (r *memProperties) Promotions() []models.PackageType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.PackageType(nil), r.promotions...)
}

func (r *memProperties) ClearExpiredPromotions(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.items {
		if p.FeaturedUntil != nil && !p.FeaturedUntil.After(now) {
			p.Featured, p.FeaturedUntil = false, nil
			n++
		}
		if p.PremiumUntil != nil && !p.PremiumUntil.After(now) {
			p.Premium, p.PremiumUntil = false, nil
			n++
		}
	}
	return n, nil
}

func (r *memProperties) AddImage(ctx context.Context, id primitive.ObjectID, image models.PropertyImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.get(id)
	if err != nil {
		return err
	}
	p.Images = append(p.Images, image)
	return nil
}

func (r *memProperties) ForEachPublic(ctx context.Context, fn func(models.Property) error) error {
	r.mu.Lock()
	list := make([]models.Property, 0, len(r.items))
	for _, p := range r.items {
		if p.IsPublic() {
			list = append(list, *p)
		}
	}
	r.mu.Unlock()
	for _, p := range list {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

// ============================================
// Chat
// ============================================

type memChats struct {
	mu            sync.Mutex
	conversations []*models.Conversation
	messages      []*models.Message
}

func (r *memChats) FindOrCreateConversation(ctx context.Context, property, buyer, seller primitive.ObjectID) (*models.Conversation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conversations {
		if c.Property == property && c.Buyer == buyer && c.Seller == seller {
			cp := *c
			return &cp, false, nil
		}
	}
	c := &models.Conversation{ID: primitive.NewObjectID(), Property: property, Buyer: buyer, Seller: seller, CreatedAt: time.Now()}
	r.conversations = append(r.conversations, c)
	cp := *c
	return &cp, true, nil
}

func (r *memChats) FindConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conversations {
		if c.ID.Hex() == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memChats) ListConversations(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Conversation{}
	for _, c := range r.conversations {
		if c.HasParticipant(userID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memChats) CreateMessage(ctx context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	cp := *msg
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *memChats) ListMessages(ctx context.Context, conversationID primitive.ObjectID, page, pageSize int) ([]models.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memChats) MarkRead(ctx context.Context, conversationID, userID primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (r *memChats) CountUnread(ctx context.Context, conversationID, userID primitive.ObjectID) (int64, error) {
	return 0, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	pushed []string
}

func (n *recordingNotifier) Notify(userID string, event interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushed = append(n.pushed, userID)
}

// ============================================
// Payments
// ============================================

// memTransactions implements Transition as a compare-and-set on pending.
type memTransactions struct {
	mu       sync.Mutex
	items    map[string]*models.Transaction
	failures []models.WebhookFailure
}

func newMemTransactions() *memTransactions {
	return &memTransactions{items: map[string]*models.Transaction{}}
}

func (r *memTransactions) Create(ctx context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[tx.MerchantTransactionID]; ok {
		return repositories.ErrDuplicate
	}
	tx.ID = primitive.NewObjectID()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	cp := *tx
	r.items[tx.MerchantTransactionID] = &cp
	return nil
}

func (r *memTransactions) FindByMerchantID(ctx context.Context, mtid string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.items[mtid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *memTransactions) SetGatewayOrderID(ctx context.Context, mtid, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.items[mtid]
	if !ok {
		return repositories.ErrNotFound
	}
	tx.GatewayOrderID = orderID
	return nil
}

func (r *memTransactions) Transition(ctx context.Context, mtid string, to models.TransactionStatus, patch repositories.TransitionPatch) (*models.Transaction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.items[mtid]
	if !ok {
		return nil, false, repositories.ErrNotFound
	}
	if tx.Status != models.TransactionStatusPending {
		cp := *tx
		return &cp, false, nil
	}
	now := time.Now()
	tx.Status = to
	tx.CompletedAt = &now
	if patch.GatewayOrderID != "" {
		tx.GatewayOrderID = patch.GatewayOrderID
	}
	if patch.GatewayPaymentID != "" {
		tx.GatewayPaymentID = patch.GatewayPaymentID
	}
	tx.FailureReason = patch.FailureReason
	cp := *tx
	return &cp, true, nil
}

func (r *memTransactions) List(ctx context.Context, f repositories.TransactionFilter) ([]models.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Transaction{}
	for _, tx := range r.items {
		if f.UserID != nil && tx.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && tx.Status != f.Status {
			continue
		}
		out = append(out, *tx)
	}
	return out, int64(len(out)), nil
}

func (r *memTransactions) ListPendingOlderThan(ctx context.Context, gateway models.PaymentGateway, cutoff time.Time, limit int64) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Transaction{}
	for _, tx := range r.items {
		if tx.Gateway != gateway || tx.Status != models.TransactionStatusPending || tx.CreatedAt.After(cutoff) {
			continue
		}
		if int64(len(out)) == limit {
			break
		}
		out = append(out, *tx)
	}
	return out, nil
}

func (r *memTransactions) RecordWebhookFailure(ctx context.Context, failure *models.WebhookFailure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, *failure)
	return nil
}

func (r *memTransactions) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures)
}

type memPackages struct {
	items map[primitive.ObjectID]*models.Package
}

func newMemPackages(pkgs ...*models.Package) *memPackages {
	r := &memPackages{items: map[primitive.ObjectID]*models.Package{}}
	for _, p := range pkgs {
		r.items[p.ID] = p
	}
	return r
}

func (r *memPackages) List(ctx context.Context, activeOnly bool) ([]models.Package, error) {
	out := []models.Package{}
	for _, p := range r.items {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPackages) FindByID(ctx context.Context, id string) (*models.Package, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	p, ok := r.items[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPackages) Create(ctx context.Context, p *models.Package) error {
	p.ID = primitive.NewObjectID()
	r.items[p.ID] = p
	return nil
}

func (r *memPackages) Update(ctx context.Context, p *models.Package) error {
	if _, ok := r.items[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.items[p.ID] = p
	return nil
}

func (r *memPackages) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrNotFound
	}
	if _, ok := r.items[oid]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, oid)
	return nil
}

type memUsers struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.User
}

func newMemUsers(users ...*models.User) *memUsers {
	r := &memUsers{items: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		r.items[u.ID] = u
	}
	return r
}

func (r *memUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) FindByEmail(ctx context.Context, addr string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Email == addr {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUsers) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	if u.Status == "" {
		u.Status = models.UserStatusActive
	}
	cp := *u
	r.items[u.ID] = &cp
	return nil
}

func (r *memUsers) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Status = status
	return nil
}

func (r *memUsers) List(ctx context.Context, f repositories.UserFilter) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.items {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

type recordingMailer struct {
	mu       sync.Mutex
	receipts []string
	welcomes []string
}

func (m *recordingMailer) Send(ctx context.Context, e *email.Email) error { return nil }

func (m *recordingMailer) SendReceipt(ctx context.Context, to string, data email.ReceiptData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, to)
	return nil
}

func (m *recordingMailer) SendWelcome(ctx context.Context, to string, data email.WelcomeData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, to)
	return nil
}

func (m *recordingMailer) Receipts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.receipts)
}

// ============================================
// Storage and search
// ============================================

// memStorage fails Save for any key ending in failSuffix.
type memStorage struct {
	mu         sync.Mutex
	files      map[string][]byte
	deleted    []string
	failSuffix string
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}}
}

func (m *memStorage) Save(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if m.failSuffix != "" && strings.HasSuffix(key, m.failSuffix) {
		return errors.New("disk full")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = data
	return nil
}

func (m *memStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memStorage) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[key]
	return ok, nil
}

func (m *memStorage) URL(key string) string {
	return "/uploads/" + key
}

func (m *memStorage) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for k := range m.files {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// recordingIndex keeps the ids currently indexed.
type recordingIndex struct {
	mu  sync.Mutex
	ids map[string]bool
}

func newRecordingIndex() *recordingIndex {
	return &recordingIndex{ids: map[string]bool{}}
}

func (x *recordingIndex) Enabled() bool                  { return true }
func (x *recordingIndex) Init(ctx context.Context) error { return nil }

func (x *recordingIndex) Upsert(ctx context.Context, docs ...search.Document) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, d := range docs {
		x.ids[d.ID] = true
	}
	return nil
}

func (x *recordingIndex) Remove(ctx context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.ids, id)
	return nil
}

func (x *recordingIndex) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	return &search.Result{}, nil
}

func (x *recordingIndex) Has(id string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.ids[id]
}
