package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gavel/models"
)

// bcrypt 只會使用密碼的前 72 bytes
const maxPasswordBytes = 72

type identityStoreOptions struct {
	bcryptCost int
}

type IdentityStoreOption func(*identityStoreOptions)

// WithBcryptCost 設定密碼雜湊的成本
func WithBcryptCost(cost int) IdentityStoreOption {
	return func(o *identityStoreOptions) {
		o.bcryptCost = cost
	}
}

// IdentityStore 負責使用者的註冊、登入驗證以及 session 身分的解析
type IdentityStore struct {
	db      *gorm.DB
	options identityStoreOptions
}

func NewIdentityStore(db *gorm.DB, opts ...IdentityStoreOption) *IdentityStore {
	options := identityStoreOptions{
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &IdentityStore{
		db:      db,
		options: options,
	}
}

// Register 建立新的使用者
// 使用者名稱或電子郵件重複時回傳 ErrConflict
func (s *IdentityStore) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	const op = "IdentityStore.Register"
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("[%s] %w", op, ErrMissingFields)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("[%s] %w", op, ErrPasswordTooLong)
	}

	// 先檢查是否已存在，避免產生不必要的雜湊運算
	var existing []models.User
	if result := s.db.WithContext(ctx).
		Select("username", "email").
		Where("username = ?", username).
		Or("email = ?", email).
		Limit(2).
		Find(&existing); result.Error != nil {
		return nil, fmt.Errorf("[%s] Fail to check existing user, err=%w", op, result.Error)
	}
	for _, user := range existing {
		if user.Username == username {
			return nil, fmt.Errorf("[%s] username=%s: %w", op, username, ErrUsernameTaken)
		}
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("[%s] email=%s: %w", op, email, ErrEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.options.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to hash password, err=%w", op, err)
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if result := s.db.WithContext(ctx).Create(&user); result.Error != nil {
		// 並發註冊時由資料庫的唯一索引擋下
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("[%s] username=%s: %w", op, username, ErrConflict)
		}
		return nil, fmt.Errorf("[%s] Fail to create user, err=%w", op, result.Error)
	}
	return &user, nil
}

// Authenticate 驗證帳號密碼，成功時回傳對應的使用者
func (s *IdentityStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	const op = "IdentityStore.Authenticate"
	var user models.User
	if result := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("[%s] %w", op, ErrAuth)
		}
		return nil, fmt.Errorf("[%s] Fail to find user, err=%w", op, result.Error)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("[%s] %w", op, ErrAuth)
	}
	return &user, nil
}

// LoadByID 依照 session 中的使用者 ID 取得使用者
func (s *IdentityStore) LoadByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "IdentityStore.LoadByID"
	var user models.User
	if result := s.db.WithContext(ctx).Where("id = ?", id).First(&user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("[%s] user=%s: %w", op, id, ErrNotFound)
		}
		return nil, fmt.Errorf("[%s] Fail to find user, err=%w", op, result.Error)
	}
	return &user, nil
}
