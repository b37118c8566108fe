package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-authgate/idgate/internal/core"
	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/models"
	"github.com/go-authgate/idgate/internal/store"
	"github.com/go-authgate/idgate/internal/util"

	"github.com/google/uuid"
)

const (
	sessionCacheKeyPrefix = "session:"
	sessionSaltLength     = 16

	// session lookup results recorded in metrics
	lookupAuthenticated = "authenticated"
	lookupAnonymous     = "anonymous"
	lookupMissing       = "missing"
	lookupExpired       = "expired"
	lookupInvalid       = "invalid"
	lookupError         = "error"
)

// LoginService is the identity service behind the login screen. It owns
// session issuance and lookup and delegates credential resolution to the
// configured identity.Provider.
type LoginService struct {
	store    *store.Store
	provider identity.Provider
	tokens   *identity.TokenIssuer
	cache    core.Cache[identity.Session]
	cacheTTL time.Duration
	metrics  core.Recorder
	audit    *AuditService

	mu        sync.RWMutex
	listeners []identity.Listener
}

func NewLoginService(
	s *store.Store,
	provider identity.Provider,
	tokens *identity.TokenIssuer,
	sessionCache core.Cache[identity.Session],
	cacheTTL time.Duration,
	m core.Recorder,
	audit *AuditService,
) *LoginService {
	return &LoginService{
		store:    s,
		provider: provider,
		tokens:   tokens,
		cache:    sessionCache,
		cacheTTL: cacheTTL,
		metrics:  m,
		audit:    audit,
	}
}

// AddListener registers l for identity lifecycle notifications.
func (s *LoginService) AddListener(l identity.Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *LoginService) eachListener(fn func(identity.Listener)) {
	s.mu.RLock()
	listeners := append([]identity.Listener(nil), s.listeners...)
	s.mu.RUnlock()

	for _, l := range listeners {
		fn(l)
	}
}

// ProviderName returns the name of the configured identity provider.
func (s *LoginService) ProviderName() string {
	return s.provider.Name()
}

func sessionCacheKey(token string) string {
	return sessionCacheKeyPrefix + util.Fingerprint(token)
}

// CurrentSession returns the session identified by token. It returns nil and
// no error when the token does not name a usable session.
func (s *LoginService) CurrentSession(ctx context.Context, token string) (*identity.Session, error) {
	if token == "" {
		s.metrics.RecordSessionLookup(lookupMissing)
		return nil, nil //nolint:nilnil // no session is not an error
	}

	session, err := s.cache.GetWithFetch(
		ctx,
		sessionCacheKey(token),
		s.cacheTTL,
		func(ctx context.Context, _ string) (identity.Session, error) {
			return s.loadSession(token)
		},
	)
	switch {
	case err == nil:
	case errors.Is(err, identity.ErrSessionNotFound):
		s.metrics.RecordSessionLookup(lookupMissing)
		return nil, nil //nolint:nilnil // no session is not an error
	case errors.Is(err, identity.ErrSessionExpired), errors.Is(err, identity.ErrSessionRevoked):
		s.metrics.RecordSessionLookup(lookupExpired)
		return nil, nil //nolint:nilnil // no session is not an error
	case errors.Is(err, identity.ErrInvalidSessionToken):
		s.metrics.RecordSessionLookup(lookupInvalid)
		return nil, nil //nolint:nilnil // no session is not an error
	default:
		s.metrics.RecordSessionLookup(lookupError)
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	if !time.Now().Before(session.ExpiresAt) {
		_ = s.cache.Delete(ctx, sessionCacheKey(token))
		s.metrics.RecordSessionLookup(lookupExpired)
		return nil, nil //nolint:nilnil // no session is not an error
	}

	session.Token = token
	if session.IsAuthenticated() {
		s.metrics.RecordSessionLookup(lookupAuthenticated)
	} else {
		s.metrics.RecordSessionLookup(lookupAnonymous)
	}
	return &session, nil
}

// loadSession verifies token against the session row it names.
func (s *LoginService) loadSession(token string) (identity.Session, error) {
	sessionID, err := s.tokens.Parse(token)
	if err != nil {
		return identity.Session{}, err
	}

	row, err := s.store.GetSessionByID(sessionID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return identity.Session{}, identity.ErrSessionNotFound
		}
		return identity.Session{}, err
	}

	if !util.VerifyToken(token, row.TokenSalt, row.TokenHash) {
		return identity.Session{}, identity.ErrInvalidSessionToken
	}
	if row.IsRevoked() {
		return identity.Session{}, identity.ErrSessionRevoked
	}
	if row.IsExpired(time.Now()) {
		return identity.Session{}, identity.ErrSessionExpired
	}

	return *sessionFromRow(row), nil
}

func sessionFromRow(row *models.Session) *identity.Session {
	return &identity.Session{
		ID:       row.ID,
		UserID:   row.UserID,
		DeviceID: row.DeviceID,
		Provider: row.Provider,
		Identities: identity.Request{
			Email:      row.Email,
			CustomerID: row.CustomerID,
			FacebookID: row.FacebookID,
		}.Identities(),
		Authenticated: row.Authenticated,
		CreatedAt:     row.CreatedAt,
		ExpiresAt:     row.ExpiresAt,
	}
}

// Login resolves req with the identity provider and, on success, issues an
// authenticated session. Provider rejections are reported in the Result; the
// error is reserved for failures that prevent building a result at all.
func (s *LoginService) Login(ctx context.Context, req identity.Request) (identity.Result, error) {
	providerName := s.provider.Name()

	start := time.Now()
	account, err := s.provider.Resolve(ctx, req)
	duration := time.Since(start)
	if providerName != models.ProviderLocal {
		s.metrics.RecordExternalAPICall(providerName, duration)
	}

	if err != nil {
		s.metrics.RecordLogin(providerName, false, duration)
		reason := identity.FailureReason(err)
		log.Printf("[Login] Failed for email=%q provider=%s: %v", req.Email, providerName, err)

		s.audit.Log(ctx, AuditLogEntry{
			EventType:    models.EventLoginFailure,
			Severity:     models.SeverityWarning,
			ActorEmail:   req.Email,
			ResourceType: models.ResourceUser,
			ResourceName: req.Email,
			Action:       "Login failed",
			Details:      models.AuditDetails{"provider": providerName, "reason": reason},
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return identity.Failed(reason), nil
	}

	session, err := s.createSession(ctx, account, req.DeviceID, true)
	if err != nil {
		s.metrics.RecordLogin(providerName, false, duration)
		return identity.Result{}, err
	}
	s.metrics.RecordLogin(providerName, true, duration)

	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventLoginSuccess,
		Severity:     models.SeverityInfo,
		ActorUserID:  account.UserID,
		ActorEmail:   account.Email,
		ResourceType: models.ResourceSession,
		ResourceID:   session.ID,
		Action:       "Login succeeded",
		Details: models.AuditDetails{
			"provider":  providerName,
			"device_id": session.DeviceID,
		},
		Success: true,
	})

	s.eachListener(func(l identity.Listener) {
		l.OnLoginCompleted(ctx, session.User(), req)
	})
	return identity.Succeeded(session), nil
}

// createSession persists a new session for account and primes the cache.
func (s *LoginService) createSession(
	ctx context.Context,
	account *identity.Account,
	deviceID string,
	authenticated bool,
) (*identity.Session, error) {
	if deviceID == "" {
		deviceID = util.GetDeviceIDFromContext(ctx)
	}

	now := time.Now()
	sessionID := uuid.New().String()
	token, expiresAt, err := s.tokens.Issue(sessionID, account.UserID, now)
	if err != nil {
		return nil, err
	}

	salt, err := util.RandomHex(sessionSaltLength)
	if err != nil {
		return nil, fmt.Errorf("generate session salt: %w", err)
	}

	row := &models.Session{
		ID:            sessionID,
		TokenHash:     util.HashToken(token, salt),
		TokenSalt:     salt,
		UserID:        account.UserID,
		DeviceID:      deviceID,
		Provider:      account.Provider,
		Authenticated: authenticated,
		Email:         account.Email,
		CustomerID:    account.CustomerID,
		FacebookID:    account.FacebookID,
		ExpiresAt:     expiresAt,
		CreatedAt:     now,
	}
	if err := s.store.CreateSession(row); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	session := sessionFromRow(row)
	if err := s.cache.Set(ctx, sessionCacheKey(token), *session, s.cacheTTL); err != nil {
		log.Printf("[Login] Failed to cache session %s: %v", sessionID, err)
	}
	session.Token = token
	return session, nil
}

// Logout revokes the authenticated session named by token.
func (s *LoginService) Logout(ctx context.Context, token string) (identity.Result, error) {
	session, err := s.CurrentSession(ctx, token)
	if err != nil {
		return identity.Result{}, err
	}
	if !session.IsAuthenticated() {
		return identity.Failed(identity.ReasonLogoutFailed), nil
	}

	if err := s.store.RevokeSession(session.ID); err != nil {
		return identity.Result{}, fmt.Errorf("revoke session: %w", err)
	}
	if err := s.cache.Delete(ctx, sessionCacheKey(token)); err != nil {
		log.Printf("[Login] Failed to evict session %s from cache: %v", session.ID, err)
	}
	s.metrics.RecordLogout(time.Since(session.CreatedAt))

	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventLogout,
		Severity:     models.SeverityInfo,
		ActorUserID:  session.UserID,
		ActorEmail:   session.Email(),
		ResourceType: models.ResourceSession,
		ResourceID:   session.ID,
		Action:       "Logged out",
		Success:      true,
	})

	// Listeners see the anonymous user left on the device after logout
	anonymous := identity.User{DeviceID: session.DeviceID, Identities: identity.Identities{}}
	req := identity.Request{DeviceID: session.DeviceID}
	s.eachListener(func(l identity.Listener) {
		l.OnLogoutCompleted(ctx, anonymous, req)
	})
	return identity.Succeeded(nil), nil
}

// Identify issues an anonymous session carrying the identities in req. The
// caller has proven nothing, so the session is never linked to an account,
// even one registered with the same email.
func (s *LoginService) Identify(ctx context.Context, req identity.Request) (identity.Result, error) {
	account := &identity.Account{
		Email:      req.Email,
		CustomerID: req.CustomerID,
		FacebookID: req.FacebookID,
		Provider:   s.provider.Name(),
	}

	session, err := s.createSession(ctx, account, req.DeviceID, false)
	if err != nil {
		s.metrics.RecordIdentityOperation("identify", false)
		return identity.Result{}, err
	}
	s.metrics.RecordIdentityOperation("identify", true)

	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventIdentify,
		Severity:     models.SeverityInfo,
		ActorUserID:  account.UserID,
		ActorEmail:   account.Email,
		ResourceType: models.ResourceSession,
		ResourceID:   session.ID,
		Action:       "Anonymous session identified",
		Details:      models.AuditDetails{"device_id": session.DeviceID},
		Success:      true,
	})

	s.eachListener(func(l identity.Listener) {
		l.OnIdentifyCompleted(ctx, session.User(), req)
	})
	return identity.Succeeded(session), nil
}

// Modify merges the non-empty identities of req into the session named by
// token. The linked account's customer and facebook IDs follow the session.
func (s *LoginService) Modify(
	ctx context.Context,
	token string,
	req identity.Request,
) (identity.Result, error) {
	session, err := s.CurrentSession(ctx, token)
	if err != nil {
		return identity.Result{}, err
	}
	if session == nil {
		s.metrics.RecordIdentityOperation("modify", false)
		return identity.Failed(identity.ReasonNoSession), nil
	}

	row, err := s.store.GetSessionByID(session.ID)
	if err != nil {
		return identity.Result{}, fmt.Errorf("load session: %w", err)
	}
	if req.Email != "" {
		row.Email = req.Email
	}
	if req.CustomerID != "" {
		row.CustomerID = req.CustomerID
	}
	if req.FacebookID != "" {
		row.FacebookID = req.FacebookID
	}
	if err := s.store.UpdateSession(row); err != nil {
		s.metrics.RecordIdentityOperation("modify", false)
		return identity.Result{}, fmt.Errorf("update session: %w", err)
	}

	if row.UserID != "" && (req.CustomerID != "" || req.FacebookID != "") {
		if user, err := s.store.GetUserByID(row.UserID); err == nil {
			if req.CustomerID != "" {
				user.CustomerID = req.CustomerID
			}
			if req.FacebookID != "" {
				user.FacebookID = req.FacebookID
			}
			if err := s.store.UpdateUser(user); err != nil {
				log.Printf("[Login] Failed to update user %s: %v", user.ID, err)
			}
		}
	}

	if err := s.cache.Delete(ctx, sessionCacheKey(token)); err != nil {
		log.Printf("[Login] Failed to evict session %s from cache: %v", session.ID, err)
	}
	s.metrics.RecordIdentityOperation("modify", true)

	updated := sessionFromRow(row)
	updated.Token = token

	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventIdentityModified,
		Severity:     models.SeverityInfo,
		ActorUserID:  updated.UserID,
		ActorEmail:   updated.Email(),
		ResourceType: models.ResourceSession,
		ResourceID:   updated.ID,
		Action:       "Identities modified",
		Success:      true,
	})

	s.eachListener(func(l identity.Listener) {
		l.OnModifyCompleted(ctx, updated.User(), req)
	})
	return identity.Succeeded(updated), nil
}

// Resume adopts a session the user already holds with the identity backend.
// Only providers implementing identity.SessionResolver support it.
func (s *LoginService) Resume(
	ctx context.Context,
	credential, deviceID string,
) (identity.Result, error) {
	resolver, ok := s.provider.(identity.SessionResolver)
	if !ok || credential == "" {
		return identity.Failed(identity.ReasonNoSession), nil
	}

	account, err := resolver.ResolveSession(ctx, credential)
	if err != nil {
		s.metrics.RecordIdentityOperation("resume", false)
		log.Printf("[Login] Resume failed provider=%s: %v", s.provider.Name(), err)
		return identity.Failed(identity.FailureReason(err)), nil
	}

	session, err := s.createSession(ctx, account, deviceID, true)
	if err != nil {
		s.metrics.RecordIdentityOperation("resume", false)
		return identity.Result{}, err
	}
	s.metrics.RecordIdentityOperation("resume", true)

	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventSessionResumed,
		Severity:     models.SeverityInfo,
		ActorUserID:  account.UserID,
		ActorEmail:   account.Email,
		ResourceType: models.ResourceSession,
		ResourceID:   session.ID,
		Action:       "Backend session resumed",
		Details:      models.AuditDetails{"provider": account.Provider},
		Success:      true,
	})

	s.eachListener(func(l identity.Listener) {
		l.OnUserIdentified(ctx, session.User())
	})
	return identity.Succeeded(session), nil
}

// CleanupExpiredSessions deletes expired session rows.
func (s *LoginService) CleanupExpiredSessions() (int64, error) {
	return s.store.DeleteExpiredSessions()
}
