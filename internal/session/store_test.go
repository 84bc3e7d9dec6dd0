package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	apperrors "nestquest/internal/errors"
	"nestquest/internal/identity"
	"nestquest/internal/models"
	"nestquest/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger(io.Discard, "ERROR")
	os.Exit(m.Run())
}

// fakeProvider is an in-memory identity.Provider that emits session-change
// events the way the real one does: synchronously, on auth transitions.
type fakeProvider struct {
	mu         sync.Mutex
	subscriber func(identity.SessionEvent)

	signUpErr  error
	signInErr  error
	updateErr  error
	refreshErr error
	consentErr error
	signOutErr error

	account *identity.Account
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		account: &identity.Account{
			UID:     "uid-1",
			Email:   "lena@example.com",
			IDToken: "provider-token",
		},
	}
}

func (p *fakeProvider) emit(account *identity.Account) {
	p.mu.Lock()
	subscriber := p.subscriber
	p.mu.Unlock()
	if subscriber != nil {
		subscriber(identity.SessionEvent{Account: account})
	}
}

func (p *fakeProvider) SignUp(_ context.Context, email, _ string) (*identity.Account, error) {
	if p.signUpErr != nil {
		return nil, p.signUpErr
	}
	account := *p.account
	account.Email = email
	p.emit(&account)
	return &account, nil
}

func (p *fakeProvider) SignIn(_ context.Context, email, _ string) (*identity.Account, error) {
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	account := *p.account
	account.Email = email
	p.emit(&account)
	return &account, nil
}

func (p *fakeProvider) UpdateProfile(_ context.Context, _, displayName, photoURL string) error {
	if p.updateErr != nil {
		return p.updateErr
	}
	p.account.DisplayName = displayName
	p.account.PhotoURL = photoURL
	return nil
}

func (p *fakeProvider) Refresh(_ context.Context) (*identity.Account, error) {
	if p.refreshErr != nil {
		return nil, p.refreshErr
	}
	account := *p.account
	account.IDToken = "refreshed-token"
	p.emit(&account)
	return &account, nil
}

func (p *fakeProvider) BeginConsent(_ context.Context) (*identity.Account, error) {
	if p.consentErr != nil {
		return nil, p.consentErr
	}
	account := *p.account
	p.emit(&account)
	return &account, nil
}

func (p *fakeProvider) SignOut(_ context.Context) error {
	p.emit(nil)
	return p.signOutErr
}

func (p *fakeProvider) Subscribe(handler func(identity.SessionEvent)) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.subscriber != nil {
		return nil, errors.New("already subscribed")
	}
	p.subscriber = handler
	return func() {
		p.mu.Lock()
		p.subscriber = nil
		p.mu.Unlock()
	}, nil
}

// fakeBackend is an in-memory session.Backend.
type fakeBackend struct {
	mu          sync.Mutex
	records     map[string]*models.RoleRecord
	getErr      error
	createErr   error
	mintErr     error
	mintedFor   []string
	createCalls int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{records: make(map[string]*models.RoleRecord)}
}

func (b *fakeBackend) GetUser(_ context.Context, uid string) (*models.RoleRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return nil, b.getErr
	}
	record, ok := b.records[uid]
	if !ok {
		return nil, &apperrors.FetchError{Operation: "get_user", StatusCode: 404, Err: errors.New("not found")}
	}
	return record, nil
}

func (b *fakeBackend) CreateUser(_ context.Context, record *models.RoleRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createCalls++
	if b.createErr != nil {
		return b.createErr
	}
	b.records[record.UID] = record
	return nil
}

func (b *fakeBackend) MintToken(_ context.Context, record *models.RoleRecord) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mintErr != nil {
		return "", b.mintErr
	}
	b.mintedFor = append(b.mintedFor, record.UID)
	return fmt.Sprintf("backend-token-%s", record.UID), nil
}

func newStartedStore(t *testing.T, provider *fakeProvider, backend *fakeBackend) *Store {
	t.Helper()
	store, err := NewStore(provider, backend, NewMemoryCredentialStore())
	require.NoError(t, err)
	require.NoError(t, store.Start())
	t.Cleanup(store.Close)
	return store
}

func TestStartSettlesAnonymous(t *testing.T) {
	store := newStartedStore(t, newFakeProvider(), newFakeBackend())
	assert.Equal(t, PhaseAnonymous, store.Phase())

	current, signedIn := store.Current()
	assert.Nil(t, current)
	assert.False(t, signedIn)
}

func TestStartTwiceFails(t *testing.T) {
	store := newStartedStore(t, newFakeProvider(), newFakeBackend())
	assert.Error(t, store.Start())
}

func TestRegisterMintsAndStoresCredential(t *testing.T) {
	provider := newFakeProvider()
	backend := newFakeBackend()
	store := newStartedStore(t, provider, backend)

	got, err := store.Register(context.Background(), "lena@example.com", "secret123", "Lena", "https://example.com/lena.png")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", got.UID)
	assert.Equal(t, "Lena", got.DisplayName)

	assert.Equal(t, PhaseAuthenticated, store.Phase())
	assert.Equal(t, "backend-token-uid-1", store.Credential())

	record := backend.records["uid-1"]
	require.NotNil(t, record)
	assert.Equal(t, models.RoleUser, record.Role)
	assert.Equal(t, "Lena", record.Name)
}

func TestRegisterFailsWhenRecordSaveFails(t *testing.T) {
	provider := newFakeProvider()
	backend := newFakeBackend()
	backend.createErr = errors.New("write rejected")
	store := newStartedStore(t, provider, backend)

	_, err := store.Register(context.Background(), "lena@example.com", "secret123", "Lena", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.AuthNetwork, apperrors.AuthKindOf(err))
}

func TestLoginStoresBackendCredential(t *testing.T) {
	provider := newFakeProvider()
	backend := newFakeBackend()
	backend.records["uid-1"] = &models.RoleRecord{UID: "uid-1", Email: "lena@example.com", Role: models.RoleAgent}
	store := newStartedStore(t, provider, backend)

	got, err := store.Login(context.Background(), "lena@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", got.UID)
	assert.Equal(t, "backend-token-uid-1", store.Credential())
	assert.Empty(t, store.Warning())
}

func TestLoginFallsBackToLocalCredential(t *testing.T) {
	provider := newFakeProvider()
	backend := newFakeBackend()
	backend.mintErr = errors.New("token endpoint down")
	store := newStartedStore(t, provider, backend)

	_, err := store.Login(context.Background(), "lena@example.com", "secret123")
	require.NoError(t, err)

	// A locally-issued credential fills the slot and a warning is surfaced.
	credential := store.Credential()
	assert.NotEmpty(t, credential)
	assert.NotContains(t, credential, "backend-token")
	assert.Equal(t, apperrors.MsgSyncWarning, store.Warning())

	// Warning reads clear.
	assert.Empty(t, store.Warning())
}

func TestLoginProviderFailure(t *testing.T) {
	provider := newFakeProvider()
	provider.signInErr = apperrors.NewAuthError(apperrors.AuthCredentialInvalid, errors.New("wrong password"))
	store := newStartedStore(t, provider, newFakeBackend())

	_, err := store.Login(context.Background(), "lena@example.com", "bad")
	require.Error(t, err)
	assert.Equal(t, apperrors.AuthCredentialInvalid, apperrors.AuthKindOf(err))
	assert.Empty(t, store.Credential())
	assert.Equal(t, PhaseAnonymous, store.Phase())
}

func TestLoginWithProviderCreatesRecordOnFirstSignIn(t *testing.T) {
	provider := newFakeProvider()
	provider.account.DisplayName = ""
	backend := newFakeBackend()
	store := newStartedStore(t, provider, backend)

	got, err := store.LoginWithProvider(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "uid-1", got.UID)

	record := backend.records["uid-1"]
	require.NotNil(t, record)
	assert.Equal(t, models.RoleUser, record.Role)
	// Name falls back to the email local part when the profile has none.
	assert.Equal(t, "lena", record.Name)

	// A later provider sign-in finds the record and creates nothing new.
	createCalls := backend.createCalls
	_, err = store.LoginWithProvider(context.Background())
	require.NoError(t, err)
	assert.Equal(t, createCalls, backend.createCalls)
}

func TestLoginWithProviderSyncFailureIsNonFatal(t *testing.T) {
	provider := newFakeProvider()
	backend := newFakeBackend()
	backend.getErr = errors.New("backend unreachable")
	backend.mintErr = errors.New("backend unreachable")
	store := newStartedStore(t, provider, backend)

	got, err := store.LoginWithProvider(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, PhaseAuthenticated, store.Phase())
	assert.Equal(t, apperrors.MsgSyncWarning, store.Warning())
	assert.NotEmpty(t, store.Credential())
}

func TestLoginWithProviderCancelled(t *testing.T) {
	provider := newFakeProvider()
	provider.consentErr = apperrors.NewAuthError(apperrors.AuthCancelled, errors.New("user declined"))
	store := newStartedStore(t, provider, newFakeBackend())

	_, err := store.LoginWithProvider(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.AuthCancelled, apperrors.AuthKindOf(err))
	assert.Empty(t, store.Credential())
}

func TestLoginWithProviderRejectsConcurrentConsent(t *testing.T) {
	// Hold the first consent open by blocking inside BeginConsent.
	holding := &holdingProvider{
		fakeProvider: newFakeProvider(),
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	store, err := NewStore(holding, newFakeBackend(), NewMemoryCredentialStore())
	require.NoError(t, err)
	require.NoError(t, store.Start())
	defer store.Close()

	done := make(chan error, 1)
	go func() {
		_, err := store.LoginWithProvider(context.Background())
		done <- err
	}()
	<-holding.entered

	_, err = store.LoginWithProvider(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.AuthConcurrentPopup, apperrors.AuthKindOf(err))

	close(holding.release)
	require.NoError(t, <-done)
}

// holdingProvider blocks BeginConsent until released, to model a consent
// page waiting for the user.
type holdingProvider struct {
	*fakeProvider
	entered chan struct{}
	release chan struct{}
}

func (p *holdingProvider) BeginConsent(ctx context.Context) (*identity.Account, error) {
	close(p.entered)
	<-p.release
	return p.fakeProvider.BeginConsent(ctx)
}

func TestLogoutClearsCredentialEvenWhenProviderFails(t *testing.T) {
	provider := newFakeProvider()
	backend := newFakeBackend()
	store := newStartedStore(t, provider, backend)

	_, err := store.Login(context.Background(), "lena@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, store.Credential())

	provider.signOutErr = errors.New("network down")
	err = store.Logout(context.Background())
	require.Error(t, err)

	// The credential is gone regardless of the provider failure.
	assert.Empty(t, store.Credential())
	assert.Equal(t, PhaseAnonymous, store.Phase())
	current, _ := store.Current()
	assert.Nil(t, current)
}

func TestRefreshCredentialReplacesStoredToken(t *testing.T) {
	provider := newFakeProvider()
	backend := newFakeBackend()
	store := newStartedStore(t, provider, backend)

	_, err := store.Login(context.Background(), "lena@example.com", "secret123")
	require.NoError(t, err)
	before := store.Credential()
	require.NotEmpty(t, before)

	require.NoError(t, store.RefreshCredential(context.Background()))
	assert.Equal(t, "refreshed-token", store.Credential())
	assert.Equal(t, PhaseAuthenticated, store.Phase())
}

func TestRefreshCredentialRequiresSession(t *testing.T) {
	store := newStartedStore(t, newFakeProvider(), newFakeBackend())

	err := store.RefreshCredential(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.AuthCredentialInvalid, apperrors.AuthKindOf(err))
}

func TestRefreshCredentialProviderFailure(t *testing.T) {
	provider := newFakeProvider()
	store := newStartedStore(t, provider, newFakeBackend())

	_, err := store.Login(context.Background(), "lena@example.com", "secret123")
	require.NoError(t, err)
	held := store.Credential()

	provider.refreshErr = apperrors.NewAuthError(apperrors.AuthNetwork, errors.New("token endpoint down"))
	require.Error(t, store.RefreshCredential(context.Background()))

	// The previous credential stays usable until the provider says otherwise.
	assert.Equal(t, held, store.Credential())
	assert.Equal(t, PhaseAuthenticated, store.Phase())
}

func TestSessionEventPersistsCredentialBeforePhaseSettles(t *testing.T) {
	provider := newFakeProvider()
	backend := newFakeBackend()
	store := newStartedStore(t, provider, backend)

	provider.emit(&identity.Account{UID: "uid-2", Email: "sam@example.com", IDToken: "restored-token"})

	assert.Equal(t, PhaseAuthenticated, store.Phase())
	assert.Equal(t, "restored-token", store.Credential())

	current, signedIn := store.Current()
	require.NotNil(t, current)
	assert.True(t, signedIn)
	assert.Equal(t, "uid-2", current.UID)

	provider.emit(nil)
	assert.Equal(t, PhaseAnonymous, store.Phase())
	assert.Empty(t, store.Credential())
}

func TestInvalidateCredential(t *testing.T) {
	provider := newFakeProvider()
	store := newStartedStore(t, provider, newFakeBackend())

	_, err := store.Login(context.Background(), "lena@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, store.Credential())

	store.InvalidateCredential()
	assert.Empty(t, store.Credential())

	// The provider session itself is untouched.
	assert.Equal(t, PhaseAuthenticated, store.Phase())
}
