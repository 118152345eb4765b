// Package provision реализует оркестратор жизненного цикла учетной записи:
// создание, обновление и удаление учетной записи вместе с тремя зависимыми
// записями (профиль, запись подписки, настройки арендатора) как одну
// логическую операцию.
//
// Четыре хранилища независимы, единой транзакции нет. Создание идет сагой:
// каждый зафиксированный шаг запоминается, и при сбое последующего шага
// уже записанные зависимые записи и сама учетная запись удаляются в
// обратном порядке. Обновление компенсации не требует: все его записи —
// апсерты, повторение того же запроса сходится к тому же состоянию.
// Удаление идет от зависимых записей к учетной записи, чтобы обрыв
// посередине не оставил зависимую запись, ссылающуюся на исчезнувший uid.
package provision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bakery-admin/internal/cache"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/password"
	"github.com/magabrotheeeer/bakery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/bakery-admin/internal/metrics"
	"github.com/magabrotheeeer/bakery-admin/internal/models"
	"github.com/magabrotheeeer/bakery-admin/internal/services/auth"
	"github.com/magabrotheeeer/bakery-admin/internal/services/status"
)

// IdentityRepository определяет методы работы с учетными записями.
type IdentityRepository interface {
	// CreateIdentity сохраняет новую учетную запись и возвращает ее UID.
	CreateIdentity(ctx context.Context, user models.UserIdentity) (string, error)
	// GetIdentity возвращает учетную запись по UID.
	GetIdentity(ctx context.Context, uid string) (*models.UserIdentity, error)
	// UpdateIdentity обновляет метаданные и, опционально, хэш пароля.
	UpdateIdentity(ctx context.Context, uid string, md models.Metadata, passwordHash string) (int64, error)
	// DeleteIdentity удаляет учетную запись.
	DeleteIdentity(ctx context.Context, uid string) (int64, error)
}

// ProfileRepository определяет методы работы с профилями.
type ProfileRepository interface {
	// UpsertProfile вставляет или обновляет профиль по UID.
	UpsertProfile(ctx context.Context, profile models.Profile) error
	// UpdateProfileName обновляет полное имя в профиле.
	UpdateProfileName(ctx context.Context, uid, fullName string) (int64, error)
	// DeleteProfile удаляет профиль.
	DeleteProfile(ctx context.Context, uid string) (int64, error)
}

// SubscriptionRecordRepository определяет методы работы с записями подписок.
type SubscriptionRecordRepository interface {
	// UpsertSubscriptionRecord вставляет или обновляет запись по user_uid.
	UpsertSubscriptionRecord(ctx context.Context, rec models.SubscriptionRecord) error
	// DeleteSubscriptionRecord удаляет запись подписки.
	DeleteSubscriptionRecord(ctx context.Context, userUID string) (int64, error)
}

// TenantSettingsRepository определяет методы работы с настройками арендатора.
type TenantSettingsRepository interface {
	// CreateTenantSettings создает настройки арендатора (только при создании аккаунта).
	CreateTenantSettings(ctx context.Context, ts models.TenantSettings) error
	// DeleteTenantSettings удаляет настройки арендатора.
	DeleteTenantSettings(ctx context.Context, uid string) (int64, error)
}

// EventPublisher публикует события провижининга для дальнейшей доставки
// уведомлений.
type EventPublisher interface {
	PublishUserCreated(event any) error
	PublishUserDeleted(event any) error
}

// Cache описывает инвалидацию кеша списка пользователей.
type Cache interface {
	Invalidate(key string) error
}

// Service — оркестратор провижининга учетных записей.
type Service struct {
	ids     IdentityRepository
	profile ProfileRepository
	subs    SubscriptionRecordRepository
	tenants TenantSettingsRepository
	pub     EventPublisher
	cache   Cache
	log     *slog.Logger
	product string
}

// NewService создает новый экземпляр Service.
// product — отображаемое имя продукта для синтеза product_label.
func NewService(ids IdentityRepository, profile ProfileRepository,
	subs SubscriptionRecordRepository, tenants TenantSettingsRepository,
	pub EventPublisher, c Cache, log *slog.Logger, product string) *Service {
	return &Service{
		ids:     ids,
		profile: profile,
		subs:    subs,
		tenants: tenants,
		pub:     pub,
		cache:   c,
		log:     log,
		product: product,
	}
}

// Create создает учетную запись и три зависимые записи.
// Пароль при отсутствии генерируется сервером и уходит в событие
// user.created для доставки пользователю.
func (s *Service) Create(ctx context.Context, sess auth.Session, req models.DummyCreateUser) (*models.CreatedUser, error) {
	const op = "services.provision.Create"
	if sess.Role != models.RoleAdmin {
		metrics.ProvisioningOperations.WithLabelValues("create", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		metrics.ProvisioningOperations.WithLabelValues("create", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: invalid payment_date: %w", op, apperr.ErrInvalidArgument)
	}
	expiryDate, err := parseDate(req.ExpiryDate)
	if err != nil {
		metrics.ProvisioningOperations.WithLabelValues("create", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: invalid expiry_date: %w", op, apperr.ErrInvalidArgument)
	}

	rawPassword := req.Password
	generated := false
	if rawPassword == "" {
		rawPassword = password.GenerateOneTime()
		generated = true
	}
	hash, err := password.GetHash(rawPassword)
	if err != nil {
		metrics.ProvisioningOperations.WithLabelValues("create", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	identity := models.UserIdentity{
		Email:        req.Email,
		PasswordHash: hash,
		Metadata: models.Metadata{
			FullName:    req.FullName,
			Role:        models.RoleUser,
			Plan:        req.Plan,
			PaymentDate: req.PaymentDate,
			ExpiryDate:  req.ExpiryDate,
			CreatedVia:  "admin",
		},
	}

	// Шаг (a): сбой здесь обрывает операцию без каких-либо побочных эффектов.
	uid, err := s.ids.CreateIdentity(ctx, identity)
	if err != nil {
		metrics.ProvisioningOperations.WithLabelValues("create", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w", op, apperr.NewStepError(apperr.StepIdentity, err))
	}
	s.log.Info("identity created", slog.String("uid", uid), slog.String("email", req.Email))

	var committed []string

	if err := s.profile.UpsertProfile(ctx, models.Profile{
		UID:      uid,
		FullName: req.FullName,
		Email:    req.Email,
	}); err != nil {
		return nil, s.failCreate(ctx, op, uid, committed, apperr.StepProfile, err)
	}
	committed = append(committed, apperr.StepProfile)

	if err := s.subs.UpsertSubscriptionRecord(ctx, models.SubscriptionRecord{
		UserUID:      uid,
		Plan:         req.Plan,
		PaymentDate:  paymentDate,
		ExpiryDate:   expiryDate,
		Email:        req.Email,
		DisplayName:  req.FullName,
		ProductLabel: fmt.Sprintf("%s - Plan %s", s.product, req.Plan),
		SourceLabel:  "Created via Admin",
	}); err != nil {
		return nil, s.failCreate(ctx, op, uid, committed, apperr.StepSubscription, err)
	}
	committed = append(committed, apperr.StepSubscription)

	if err := s.tenants.CreateTenantSettings(ctx, models.TenantSettings{
		UID:         uid,
		DisplayName: tenantDisplayName(req.FullName),
		Email:       req.Email,
	}); err != nil {
		return nil, s.failCreate(ctx, op, uid, committed, apperr.StepTenantSettings, err)
	}

	s.log.Info("user provisioned", slog.String("uid", uid))
	metrics.ProvisioningOperations.WithLabelValues("create", metrics.OutcomeSuccess).Inc()

	event := models.UserCreatedEvent{
		EventID:  uuid.New().String(),
		UserUID:  uid,
		Email:    req.Email,
		FullName: req.FullName,
		Plan:     req.Plan,
	}
	if generated {
		event.OneTimePassword = rawPassword
	}
	if err := s.pub.PublishUserCreated(event); err != nil {
		s.log.Warn("failed to publish user created event", sl.Err(err))
	}
	s.invalidateOverview()

	return &models.CreatedUser{
		UID:      uid,
		Email:    req.Email,
		FullName: req.FullName,
	}, nil
}

// failCreate запускает компенсацию зафиксированных шагов и возвращает
// ошибку сорвавшегося шага. Сбои компенсации логируются, но не подменяют
// исходную причину.
func (s *Service) failCreate(ctx context.Context, op, uid string, committed []string, step string, cause error) error {
	metrics.ProvisioningOperations.WithLabelValues("create", metrics.OutcomeError).Inc()
	s.log.Error("provisioning step failed, compensating",
		slog.String("uid", uid), slog.String("step", step), sl.Err(cause))

	for i := len(committed) - 1; i >= 0; i-- {
		var err error
		switch committed[i] {
		case apperr.StepTenantSettings:
			_, err = s.tenants.DeleteTenantSettings(ctx, uid)
		case apperr.StepSubscription:
			_, err = s.subs.DeleteSubscriptionRecord(ctx, uid)
		case apperr.StepProfile:
			_, err = s.profile.DeleteProfile(ctx, uid)
		}
		if err != nil {
			s.log.Error("compensation failed",
				slog.String("uid", uid), slog.String("step", committed[i]), sl.Err(err))
		}
	}
	if _, err := s.ids.DeleteIdentity(ctx, uid); err != nil {
		s.log.Error("compensation failed",
			slog.String("uid", uid), slog.String("step", apperr.StepIdentity), sl.Err(err))
	}

	return fmt.Errorf("%s: %w", op, apperr.NewStepError(step, cause))
}

// Update обновляет учетную запись, профиль и запись подписки.
// Настройки арендатора обновлением не затрагиваются. Операция идемпотентна:
// повторение того же запроса приводит к тому же конечному состоянию.
func (s *Service) Update(ctx context.Context, sess auth.Session, req models.DummyUpdateUser) (*models.CreatedUser, error) {
	const op = "services.provision.Update"
	if sess.Role != models.RoleAdmin {
		metrics.ProvisioningOperations.WithLabelValues("update", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}
	// Почта обязана быть повторена вызывающей стороной до любой записи:
	// так ловится рассинхронизация данных на клиенте.
	if req.Email == "" {
		metrics.ProvisioningOperations.WithLabelValues("update", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: email is required: %w", op, apperr.ErrInvalidArgument)
	}

	current, err := s.ids.GetIdentity(ctx, req.UID)
	if err != nil {
		metrics.ProvisioningOperations.WithLabelValues("update", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	md := current.Metadata
	if req.FullName != "" {
		md.FullName = req.FullName
	}
	if req.Plan != "" {
		md.Plan = req.Plan
	}
	if req.PaymentDate != "" {
		md.PaymentDate = req.PaymentDate
	}
	if req.ExpiryDate != "" {
		md.ExpiryDate = req.ExpiryDate
	}
	paymentDate, err := parseDate(md.PaymentDate)
	if err != nil {
		metrics.ProvisioningOperations.WithLabelValues("update", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: invalid payment_date: %w", op, apperr.ErrInvalidArgument)
	}
	expiryDate, err := parseDate(md.ExpiryDate)
	if err != nil {
		metrics.ProvisioningOperations.WithLabelValues("update", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: invalid expiry_date: %w", op, apperr.ErrInvalidArgument)
	}

	var hash string
	if req.Password != "" {
		hash, err = password.GetHash(req.Password)
		if err != nil {
			metrics.ProvisioningOperations.WithLabelValues("update", metrics.OutcomeError).Inc()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	count, err := s.ids.UpdateIdentity(ctx, req.UID, md, hash)
	if err != nil {
		return nil, s.failUpdate(op, apperr.StepIdentity, err)
	}
	if count == 0 {
		metrics.ProvisioningOperations.WithLabelValues("update", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}

	if _, err := s.profile.UpdateProfileName(ctx, req.UID, md.FullName); err != nil {
		return nil, s.failUpdate(op, apperr.StepProfile, err)
	}

	if err := s.subs.UpsertSubscriptionRecord(ctx, models.SubscriptionRecord{
		UserUID:      req.UID,
		Plan:         md.Plan,
		PaymentDate:  paymentDate,
		ExpiryDate:   expiryDate,
		Email:        req.Email,
		DisplayName:  md.FullName,
		ProductLabel: fmt.Sprintf("%s - Plan %s", s.product, md.Plan),
		SourceLabel:  "Updated via Admin",
	}); err != nil {
		return nil, s.failUpdate(op, apperr.StepSubscription, err)
	}

	s.log.Info("user updated", slog.String("uid", req.UID))
	metrics.ProvisioningOperations.WithLabelValues("update", metrics.OutcomeSuccess).Inc()
	s.invalidateOverview()

	return &models.CreatedUser{
		UID:      req.UID,
		Email:    req.Email,
		FullName: md.FullName,
	}, nil
}

// failUpdate сообщает о сорвавшемся шаге обновления. Компенсация не
// выполняется: записи обновления — апсерты, повтор запроса сходится сам.
func (s *Service) failUpdate(op, step string, cause error) error {
	metrics.ProvisioningOperations.WithLabelValues("update", metrics.OutcomeError).Inc()
	s.log.Error("update step failed", slog.String("step", step), sl.Err(cause))
	return fmt.Errorf("%s: %w", op, apperr.NewStepError(step, cause))
}

// Delete удаляет учетную запись и все зависимые записи. Порядок важен:
// сначала зависимые записи, последней — сама учетная запись. Обрыв
// посередине оставляет в худшем случае учетную запись без зависимых
// записей — состояние, которое create и update лечат апсертом.
func (s *Service) Delete(ctx context.Context, sess auth.Session, uid string) error {
	const op = "services.provision.Delete"
	if sess.Role != models.RoleAdmin {
		metrics.ProvisioningOperations.WithLabelValues("delete", metrics.OutcomeError).Inc()
		return fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}

	identity, err := s.ids.GetIdentity(ctx, uid)
	if err != nil {
		metrics.ProvisioningOperations.WithLabelValues("delete", metrics.OutcomeError).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.tenants.DeleteTenantSettings(ctx, uid); err != nil {
		return s.failDelete(op, apperr.StepTenantSettings, err)
	}
	if _, err := s.subs.DeleteSubscriptionRecord(ctx, uid); err != nil {
		return s.failDelete(op, apperr.StepSubscription, err)
	}
	if _, err := s.profile.DeleteProfile(ctx, uid); err != nil {
		return s.failDelete(op, apperr.StepProfile, err)
	}
	if _, err := s.ids.DeleteIdentity(ctx, uid); err != nil {
		return s.failDelete(op, apperr.StepIdentity, err)
	}

	s.log.Info("user deleted", slog.String("uid", uid))
	metrics.ProvisioningOperations.WithLabelValues("delete", metrics.OutcomeSuccess).Inc()

	if err := s.pub.PublishUserDeleted(models.UserDeletedEvent{
		EventID: uuid.New().String(),
		UserUID: uid,
		Email:   identity.Email,
	}); err != nil {
		s.log.Warn("failed to publish user deleted event", sl.Err(err))
	}
	s.invalidateOverview()

	return nil
}

func (s *Service) failDelete(op, step string, cause error) error {
	metrics.ProvisioningOperations.WithLabelValues("delete", metrics.OutcomeError).Inc()
	s.log.Error("delete step failed", slog.String("step", step), sl.Err(cause))
	return fmt.Errorf("%s: %w", op, apperr.NewStepError(step, cause))
}

func (s *Service) invalidateOverview() {
	if err := s.cache.Invalidate(cache.AdminOverviewKey); err != nil {
		s.log.Warn("failed to invalidate overview cache", sl.Err(err))
	}
}

// parseDate разбирает дату метаданных; пустая строка допустима.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(status.DateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// tenantDisplayName синтезирует имя пекарни из первого токена полного имени.
func tenantDisplayName(fullName string) string {
	first := fullName
	if idx := strings.IndexByte(fullName, ' '); idx > 0 {
		first = fullName[:idx]
	}
	return fmt.Sprintf("%s's Bakery", first)
}
