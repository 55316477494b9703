package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"coursecart/metrics"
	"coursecart/middleware"
	"coursecart/models"
	"coursecart/services"
	"coursecart/store"
)

const testSecret = "test-secret"

// memStore is an in-memory store.Store for handler tests.
type memStore struct {
	mu    sync.Mutex
	seq   int
	users map[string]*models.User
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*models.User)}
}

func (m *memStore) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email || u.Username == username {
			return nil, store.ErrDuplicateEmail
		}
	}

	m.seq++
	u := &models.User{
		ID:           fmt.Sprintf("u%d", m.seq),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Wishlist:     []models.WishlistItem{},
		CreatedAt:    time.Now(),
	}
	m.users[u.ID] = u
	return &models.User{ID: u.ID, Username: username, Email: email}, nil
}

func (m *memStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *u
	cp.PasswordHash = ""
	return &cp, nil
}

func (m *memStore) ListWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return append([]models.WishlistItem{}, u.Wishlist...), nil
}

func (m *memStore) AddWishlistItem(ctx context.Context, userID, courseID, title string) ([]models.WishlistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	for _, it := range u.Wishlist {
		if it.CourseID == courseID {
			return nil, store.ErrDuplicateCourse
		}
	}
	u.Wishlist = append(u.Wishlist, models.WishlistItem{CourseID: courseID, Title: title})
	return append([]models.WishlistItem{}, u.Wishlist...), nil
}

func (m *memStore) RemoveWishlistItem(ctx context.Context, userID, courseID string) ([]models.WishlistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	kept := u.Wishlist[:0]
	for _, it := range u.Wishlist {
		if it.CourseID != courseID {
			kept = append(kept, it)
		}
	}
	u.Wishlist = kept
	return append([]models.WishlistItem{}, u.Wishlist...), nil
}

// fakeGateway records the orders it was asked to open.
type fakeGateway struct {
	mu      sync.Mutex
	orders  []string
	err     error
	session string
}

func (g *fakeGateway) CreateOrder(ctx context.Context, orderID string, amount float64, customerEmail string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.orders = append(g.orders, orderID)
	if g.session == "" {
		return "session_test", nil
	}
	return g.session, nil
}

type sentMail struct {
	Email  string
	Title  string
	Coupon string
}

// fakeMailer pushes dispatched mails onto a channel so tests can wait for the
// async fulfillment goroutine.
type fakeMailer struct {
	sent chan sentMail
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan sentMail, 8)}
}

func (m *fakeMailer) SendCoupon(email, courseTitle, coupon string) error {
	if m.err != nil {
		return m.err
	}
	m.sent <- sentMail{Email: email, Title: courseTitle, Coupon: coupon}
	return nil
}

func (m *fakeMailer) waitForMail(t *testing.T) sentMail {
	t.Helper()
	select {
	case mail := <-m.sent:
		return mail
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for coupon email")
		return sentMail{}
	}
}

func (m *fakeMailer) assertNoMail(t *testing.T) {
	t.Helper()
	select {
	case mail := <-m.sent:
		t.Fatalf("unexpected coupon email to %s", mail.Email)
	case <-time.After(100 * time.Millisecond):
	}
}

type testEnv struct {
	router  *gin.Engine
	users   *memStore
	pending *services.PendingStore
	gateway *fakeGateway
	mailer  *fakeMailer
	payment *PaymentHandler
}

// newTestEnv wires the handlers the same way main.go does, with fakes for the
// external pieces.
func newTestEnv(webhookSecret []byte) *testEnv {
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		users:   newMemStore(),
		pending: services.NewPendingStore(time.Hour),
		gateway: &fakeGateway{},
		mailer:  newFakeMailer(),
	}

	authHandler := &AuthHandler{
		Users:     env.users,
		JWTSecret: []byte(testSecret),
		TokenTTL:  time.Hour,
	}
	wishlistHandler := &WishlistHandler{Users: env.users}
	env.payment = &PaymentHandler{
		Gateway:       env.gateway,
		Mailer:        env.mailer,
		Pending:       env.pending,
		WebhookSecret: webhookSecret,
		Metrics:       metrics.New(),
	}

	r := gin.New()
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)

	wl := r.Group("/wishlist", middleware.AuthRequired([]byte(testSecret), env.users))
	{
		wl.GET("", wishlistHandler.List)
		wl.POST("", wishlistHandler.Add)
		wl.DELETE("/:courseId", wishlistHandler.Remove)
	}

	r.POST("/createOrder", env.payment.CreateOrder)
	r.POST("/payment-webhook", env.payment.Webhook)

	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signupAndLogin registers a user and returns a valid bearer token.
func (e *testEnv) signupAndLogin(t *testing.T, username, email, password string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/signup", "", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}
