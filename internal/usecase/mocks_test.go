package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mini-ecom/internal/challenge"
	"mini-ecom/internal/client/oauth"
	"mini-ecom/internal/data/entity"
	"mini-ecom/internal/data/repository"
	"mini-ecom/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory fakes behind the repository interfaces. Each carries an
// err field to force the failure path. Methods take the lock because
// Register delivers its email code on a goroutine.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok || user.DeletedAt != nil {
		return nil, nil
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, user := range f.users {
		if user.Email == email && user.DeletedAt == nil {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, user := range f.users {
		if user.Username == username && user.DeletedAt == nil {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByVerifiedPhone(ctx context.Context, phone string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, user := range f.users {
		if user.Phone != nil && *user.Phone == phone && user.PhoneVerified && user.DeletedAt == nil {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]*entity.User, 0, len(f.users))
	for _, user := range f.users {
		if user.DeletedAt == nil {
			users = append(users, user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) CountAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		now := time.Now()
		user.DeletedAt = &now
	}
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
	err      error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*entity.Session{}}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sessions[session.Token.String()] = session
	return nil
}

func (f *fakeSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[token]
	if !ok || session.RevokedAt != nil || time.Now().After(session.ExpiresAt) {
		return nil, nil
	}
	return session, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session, ok := f.sessions[token]; ok {
		now := time.Now()
		session.RevokedAt = &now
	}
	return nil
}

func (f *fakeSessionRepo) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, session := range f.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			session.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeSessionRepo) CleanExpiredSessions(ctx context.Context) error {
	return nil
}

func (f *fakeSessionRepo) activeCount(userID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, session := range f.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			count++
		}
	}
	return count
}

type fakeOTPRepo struct {
	mu   sync.Mutex
	otps []*entity.OTP
	err  error
}

func newFakeOTPRepo() *fakeOTPRepo { return &fakeOTPRepo{} }

func (f *fakeOTPRepo) Create(ctx context.Context, otp *entity.OTP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.otps = append(f.otps, otp)
	return nil
}

func (f *fakeOTPRepo) FindValidOTP(ctx context.Context, email, codeHash, otpType string) (*entity.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.otps) - 1; i >= 0; i-- {
		otp := f.otps[i]
		if otp.Email == email && otp.CodeHash == codeHash && string(otp.OTPType) == otpType &&
			!otp.IsUsed && time.Now().Before(otp.ExpiresAt) {
			return otp, nil
		}
	}
	return nil, nil
}

func (f *fakeOTPRepo) MarkAsUsed(ctx context.Context, otpID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, otp := range f.otps {
		if otp.ID == otpID {
			otp.IsUsed = true
		}
	}
	return nil
}

func (f *fakeOTPRepo) InvalidatePending(ctx context.Context, email, otpType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, otp := range f.otps {
		if otp.Email == email && string(otp.OTPType) == otpType {
			otp.IsUsed = true
		}
	}
	return nil
}

type fakeTOTPDeviceRepo struct {
	mu      sync.Mutex
	devices map[uuid.UUID]*entity.TOTPDevice
	err     error
}

func newFakeTOTPDeviceRepo() *fakeTOTPDeviceRepo {
	return &fakeTOTPDeviceRepo{devices: map[uuid.UUID]*entity.TOTPDevice{}}
}

func (f *fakeTOTPDeviceRepo) Create(ctx context.Context, device *entity.TOTPDevice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.devices[device.ID] = device
	return nil
}

func (f *fakeTOTPDeviceRepo) FindConfirmedByUserID(ctx context.Context, userID uuid.UUID) (*entity.TOTPDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, device := range f.devices {
		if device.UserID == userID && device.Confirmed {
			return device, nil
		}
	}
	return nil, nil
}

func (f *fakeTOTPDeviceRepo) FindPendingByUserID(ctx context.Context, userID uuid.UUID) (*entity.TOTPDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, device := range f.devices {
		if device.UserID == userID && !device.Confirmed {
			return device, nil
		}
	}
	return nil, nil
}

func (f *fakeTOTPDeviceRepo) Confirm(ctx context.Context, deviceID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	device, ok := f.devices[deviceID]
	if !ok || device.Confirmed {
		return fmt.Errorf("device %s not found or already confirmed", deviceID)
	}
	device.Confirmed = true
	return nil
}

func (f *fakeTOTPDeviceRepo) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, device := range f.devices {
		if device.UserID == userID {
			delete(f.devices, id)
		}
	}
	return nil
}

type fakeBackupCodeRepo struct {
	mu    sync.Mutex
	codes []*entity.BackupCode
	err   error
}

func newFakeBackupCodeRepo() *fakeBackupCodeRepo { return &fakeBackupCodeRepo{} }

func (f *fakeBackupCodeRepo) CreateBatch(ctx context.Context, codes []*entity.BackupCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.codes = append(f.codes, codes...)
	return nil
}

func (f *fakeBackupCodeRepo) Consume(ctx context.Context, userID uuid.UUID, codeHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for i, code := range f.codes {
		if code.UserID == userID && code.CodeHash == codeHash {
			f.codes = append(f.codes[:i], f.codes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBackupCodeRepo) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, code := range f.codes {
		if code.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBackupCodeRepo) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.codes[:0]
	for _, code := range f.codes {
		if code.UserID != userID {
			kept = append(kept, code)
		}
	}
	f.codes = kept
	return nil
}

type fakeSocialAccountRepo struct {
	mu       sync.Mutex
	accounts []*entity.SocialAccount
	err      error
}

func newFakeSocialAccountRepo() *fakeSocialAccountRepo { return &fakeSocialAccountRepo{} }

func (f *fakeSocialAccountRepo) Create(ctx context.Context, account *entity.SocialAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.accounts = append(f.accounts, account)
	return nil
}

func (f *fakeSocialAccountRepo) FindByProviderUID(ctx context.Context, provider entity.SocialProvider, uid string) (*entity.SocialAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Provider == provider && account.ProviderUID == uid {
			return account, nil
		}
	}
	return nil, nil
}

func (f *fakeSocialAccountRepo) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entity.SocialAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	accounts := []*entity.SocialAccount{}
	for _, account := range f.accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

type fakePhoneVerificationRepo struct {
	mu            sync.Mutex
	verifications []*entity.PhoneVerification
	err           error
}

func newFakePhoneVerificationRepo() *fakePhoneVerificationRepo { return &fakePhoneVerificationRepo{} }

func (f *fakePhoneVerificationRepo) Create(ctx context.Context, verification *entity.PhoneVerification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.verifications = append(f.verifications, verification)
	return nil
}

func (f *fakePhoneVerificationRepo) FindLatest(ctx context.Context, userID uuid.UUID, phone string) (*entity.PhoneVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.verifications) - 1; i >= 0; i-- {
		v := f.verifications[i]
		if v.UserID == userID && v.Phone == phone {
			return v, nil
		}
	}
	return nil, nil
}

func (f *fakePhoneVerificationRepo) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.verifications {
		if v.ID == id {
			v.Attempts++
		}
	}
	return nil
}

func (f *fakePhoneVerificationRepo) MarkVerified(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.verifications {
		if v.ID == id && v.VerifiedAt == nil {
			now := time.Now()
			v.VerifiedAt = &now
			return nil
		}
	}
	return fmt.Errorf("verification %s not found or already verified", id)
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*entity.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[uuid.UUID]*entity.Category{}}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	category, ok := f.categories[id]
	if !ok || category.DeletedAt != nil {
		return nil, nil
	}
	return category, nil
}

func (f *fakeCategoryRepo) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, category := range f.categories {
		if category.Slug == slug && category.DeletedAt == nil {
			return category, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) FindAllActive(ctx context.Context) ([]*entity.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	categories := []*entity.Category{}
	for _, category := range f.categories {
		if category.DeletedAt == nil && category.IsActive {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if category, ok := f.categories[id]; ok {
		now := time.Now()
		category.DeletedAt = &now
	}
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
	err      error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uuid.UUID]*entity.Product{}}
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	product, ok := f.products[id]
	if !ok || product.DeletedAt != nil {
		return nil, nil
	}
	return product, nil
}

func (f *fakeProductRepo) FindBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, product := range f.products {
		if product.Slug == slug && product.DeletedAt == nil {
			return product, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) FindBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, product := range f.products {
		if product.SKU == sku && product.DeletedAt == nil {
			return product, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) FindAll(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	products := []*entity.Product{}
	for _, product := range f.products {
		if product.DeletedAt != nil || !product.IsActive {
			continue
		}
		if filter.FeaturedOnly && !product.IsFeatured {
			continue
		}
		if filter.InStockOnly && product.StockQuantity <= 0 {
			continue
		}
		if filter.CategoryID != nil && (product.CategoryID == nil || *product.CategoryID != *filter.CategoryID) {
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

func (f *fakeProductRepo) CountAll(ctx context.Context, filter repository.ProductFilter) (int64, error) {
	products, _ := f.FindAll(ctx, filter, 0, 0)
	return int64(len(products)), nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok || product.StockQuantity < quantity {
		return fmt.Errorf("insufficient stock for product %s", id)
	}
	product.StockQuantity -= quantity
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if product, ok := f.products[id]; ok {
		now := time.Now()
		product.DeletedAt = &now
	}
	return nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*entity.Cart
	err   error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[uuid.UUID]*entity.Cart{}}
}

func (f *fakeCartRepo) Create(ctx context.Context, cart *entity.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.carts[cart.ID] = cart
	return nil
}

func (f *fakeCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[id]
	if !ok {
		return nil, nil
	}
	return cart, nil
}

func (f *fakeCartRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cart := range f.carts {
		if cart.UserID != nil && *cart.UserID == userID {
			return cart, nil
		}
	}
	return nil, nil
}

func (f *fakeCartRepo) AttachUser(ctx context.Context, cartID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[cartID]
	if !ok || cart.UserID != nil {
		return fmt.Errorf("cart %s not found or already owned", cartID)
	}
	cart.UserID = &userID
	return nil
}

func (f *fakeCartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, id)
	return nil
}

type fakeCartItemRepo struct {
	mu    sync.Mutex
	items map[string]*entity.CartItem
	err   error
}

func newFakeCartItemRepo() *fakeCartItemRepo {
	return &fakeCartItemRepo{items: map[string]*entity.CartItem{}}
}

func cartItemKey(cartID, productID uuid.UUID) string {
	return cartID.String() + "/" + productID.String()
}

func (f *fakeCartItemRepo) Upsert(ctx context.Context, item *entity.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	key := cartItemKey(item.CartID, item.ProductID)
	if existing, ok := f.items[key]; ok {
		existing.Quantity += item.Quantity
		return nil
	}
	f.items[key] = item
	return nil
}

func (f *fakeCartItemRepo) FindByCartAndProduct(ctx context.Context, cartID, productID uuid.UUID) (*entity.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[cartItemKey(cartID, productID)]
	if !ok {
		return nil, nil
	}
	return item, nil
}

func (f *fakeCartItemRepo) FindAllByCart(ctx context.Context, cartID uuid.UUID) ([]*entity.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []*entity.CartItem{}
	for _, item := range f.items {
		if item.CartID == cartID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeCartItemRepo) UpdateQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[cartItemKey(cartID, productID)]
	if !ok {
		return fmt.Errorf("cart item not found")
	}
	item.Quantity = quantity
	return nil
}

func (f *fakeCartItemRepo) Remove(ctx context.Context, cartID, productID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, cartItemKey(cartID, productID))
	return nil
}

func (f *fakeCartItemRepo) RemoveAll(ctx context.Context, cartID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, item := range f.items {
		if item.CartID == cartID {
			delete(f.items, key)
		}
	}
	return nil
}

type fakeOrderRepo struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*entity.Order
	items    map[uuid.UUID][]*entity.OrderItem
	products *fakeProductRepo
	err      error
}

func newFakeOrderRepo(products *fakeProductRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   map[uuid.UUID]*entity.Order{},
		items:    map[uuid.UUID][]*entity.OrderItem{},
		products: products,
	}
}

func (f *fakeOrderRepo) CreateWithItems(ctx context.Context, order *entity.Order, items []*entity.OrderItem) error {
	if f.err != nil {
		return f.err
	}
	// Mirror the transactional repo: stock decrements happen with the insert
	for _, item := range items {
		if err := f.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[order.ID] = order
	f.items[order.ID] = items
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	return order, nil
}

func (f *fakeOrderRepo) FindItems(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[orderID], nil
}

func (f *fakeOrderRepo) FindAllByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	orders := []*entity.Order{}
	for _, order := range f.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (f *fakeOrderRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	orders, _ := f.FindAllByUser(ctx, userID, 0, 0)
	return int64(len(orders)), nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order, ok := f.orders[id]; ok {
		order.Status = status
	}
	return nil
}

// fakeChallengeStore keeps pending challenges in a map with the same
// consume-once contract as the Redis store.
type fakeChallengeStore struct {
	mu      sync.Mutex
	pending map[string]challenge.Pending
	err     error
}

func newFakeChallengeStore() *fakeChallengeStore {
	return &fakeChallengeStore{pending: map[string]challenge.Pending{}}
}

func (f *fakeChallengeStore) Create(ctx context.Context, pending challenge.Pending) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	token := uuid.New().String()
	f.pending[token] = pending
	return token, nil
}

func (f *fakeChallengeStore) Consume(ctx context.Context, token string) (*challenge.Pending, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pending, ok := f.pending[token]
	if !ok {
		return nil, nil
	}
	delete(f.pending, token)
	return &pending, nil
}

func (f *fakeChallengeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

type fakeRateLimiter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeRateLimiter() *fakeRateLimiter {
	return &fakeRateLimiter{counts: map[string]int{}}
}

func (f *fakeRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key] <= limit, nil
}

type sentSMS struct {
	Phone string
	Code  string
}

type fakeSMSSender struct {
	mu   sync.Mutex
	sent []sentSMS
	err  error
}

func newFakeSMSSender() *fakeSMSSender { return &fakeSMSSender{} }

func (f *fakeSMSSender) SendCode(ctx context.Context, phone, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{Phone: phone, Code: code})
	return nil
}

func (f *fakeSMSSender) lastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Code
}

type fakeGoogleVerifier struct {
	identity *oauth.Identity
	err      error
}

func (f *fakeGoogleVerifier) Verify(ctx context.Context, idToken string) (*oauth.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type fakeFacebookVerifier struct {
	identity *oauth.Identity
	err      error
}

func (f *fakeFacebookVerifier) Verify(ctx context.Context, accessToken string) (*oauth.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

// testEnv bundles the fakes with a fully wired Service.
type testEnv struct {
	users       *fakeUserRepo
	sessions    *fakeSessionRepo
	otps        *fakeOTPRepo
	devices     *fakeTOTPDeviceRepo
	backupCodes *fakeBackupCodeRepo
	socials     *fakeSocialAccountRepo
	phoneCodes  *fakePhoneVerificationRepo
	categories  *fakeCategoryRepo
	products    *fakeProductRepo
	carts       *fakeCartRepo
	cartItems   *fakeCartItemRepo
	orders      *fakeOrderRepo
	challenges  *fakeChallengeStore
	limiter     *fakeRateLimiter
	smsSender   *fakeSMSSender
	google      *fakeGoogleVerifier
	facebook    *fakeFacebookVerifier
	config      *utils.Config
	repo        *repository.Repository
	svc         *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:       newFakeUserRepo(),
		sessions:    newFakeSessionRepo(),
		otps:        newFakeOTPRepo(),
		devices:     newFakeTOTPDeviceRepo(),
		backupCodes: newFakeBackupCodeRepo(),
		socials:     newFakeSocialAccountRepo(),
		phoneCodes:  newFakePhoneVerificationRepo(),
		categories:  newFakeCategoryRepo(),
		products:    newFakeProductRepo(),
		carts:       newFakeCartRepo(),
		cartItems:   newFakeCartItemRepo(),
		challenges:  newFakeChallengeStore(),
		limiter:     newFakeRateLimiter(),
		smsSender:   newFakeSMSSender(),
		google:      &fakeGoogleVerifier{},
		facebook:    &fakeFacebookVerifier{},
		config: &utils.Config{
			JWT: utils.JWTConfig{Secret: "test-secret-key", ExpiryHours: 1},
			TOTP: utils.TOTPConfig{
				Issuer:           "mini-ecom-test",
				ChallengeTTLMins: 5,
				BackupCodeCount:  8,
			},
			OTP: utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
			SMS: utils.SMSConfig{MaxSendsPerHour: 3, MaxVerifyPerMin: 5},
		},
	}
	env.orders = newFakeOrderRepo(env.products)

	env.repo = &repository.Repository{
		User:              env.users,
		Session:           env.sessions,
		OTP:               env.otps,
		TOTPDevice:        env.devices,
		BackupCode:        env.backupCodes,
		SocialAccount:     env.socials,
		PhoneVerification: env.phoneCodes,
		Category:          env.categories,
		Product:           env.products,
		Cart:              env.carts,
		CartItem:          env.cartItems,
		Order:             env.orders,
	}

	env.svc = NewService(
		env.repo,
		env.challenges,
		env.limiter,
		env.smsSender,
		env.google,
		env.facebook,
		env.config,
		zap.NewNop(),
	)

	return env
}

func (e *testEnv) addUser(email, username, password string) *entity.User {
	hash, err := utils.HashPassword(password)
	if err != nil {
		panic(err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:      username,
		Email:         email,
		PasswordHash:  hash,
		Role:          entity.RoleCustomer,
		EmailVerified: true,
		IsActive:      true,
	}
	e.users.users[user.ID] = user
	return user
}

func (e *testEnv) addConfirmedDevice(userID uuid.UUID, secret string) *entity.TOTPDevice {
	now := time.Now()
	device := &entity.TOTPDevice{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:    userID,
		Name:      "authenticator",
		Secret:    secret,
		Confirmed: true,
	}
	e.devices.devices[device.ID] = device
	return device
}

func (e *testEnv) addProduct(name, slug string, price float64, stock int) *entity.Product {
	now := time.Now()
	product := &entity.Product{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:          name,
		Slug:          slug,
		Description:   "test product",
		Price:         price,
		SKU:           "SKU-" + slug,
		StockQuantity: stock,
		IsActive:      true,
	}
	e.products.products[product.ID] = product
	return product
}

func (e *testEnv) addCart(userID *uuid.UUID) *entity.Cart {
	now := time.Now()
	cart := &entity.Cart{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID: userID,
	}
	e.carts.carts[cart.ID] = cart
	return cart
}
