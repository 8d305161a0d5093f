package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"bookkeeping/models"

	"golang.org/x/crypto/bcrypt"
)

// defaultUsers 预置用户，目录为空时写入
var defaultUsers = []struct {
	ID, Username, Password, Role string
}{
	{models.ReservedAdminID, "admin", "admin", models.RoleAdmin},
	{models.ReservedGuestID, "guest", "guest", models.RoleUser},
}

// Directory 用户目录：登录校验与用户管理
type Directory struct {
	store UserStore
	// mu 串行化新增用户，保证ID分配与用户名唯一性检查不冲突
	mu sync.Mutex
}

// NewDirectory 创建用户目录
func NewDirectory(store UserStore) *Directory {
	return &Directory{store: store}
}

// NewUser 新增用户参数
type NewUser struct {
	Username string
	Password string
	Role     string
}

// UserPatch 修改用户参数，nil 字段不修改
type UserPatch struct {
	Username *string
	Password *string
	Role     *string
}

// EnsureDefaults 补齐预置用户
func (d *Directory) EnsureDefaults(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, du := range defaultUsers {
		if _, err := d.store.Get(ctx, du.ID); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		hashed, err := HashPassword(du.Password)
		if err != nil {
			return err
		}
		u := &models.User{ID: du.ID, Username: du.Username, Password: hashed, Role: du.Role}
		if err := d.store.Save(ctx, u); err != nil {
			return fmt.Errorf("%w: %w", ErrPersist, err)
		}
		log.Printf("已创建预置用户: %s (%s)", du.Username, du.Role)
	}
	return nil
}

// Authenticate 校验用户名与密码
func (d *Directory) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := d.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// List 全部用户
func (d *Directory) List(ctx context.Context) ([]models.User, error) {
	users, err := d.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return users, nil
}

// Get 按ID获取用户
func (d *Directory) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := d.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: 用户 %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return user, nil
}

// AddUser 新增用户，ID 为现有最大数字ID加一
func (d *Directory) AddUser(ctx context.Context, nu NewUser) (*models.User, error) {
	nu.Username = strings.TrimSpace(nu.Username)
	if nu.Username == "" || nu.Password == "" {
		return nil, fmt.Errorf("%w: 用户名和密码不能为空", ErrInvalidUser)
	}
	if nu.Role == "" {
		nu.Role = models.RoleUser
	}
	if !models.IsValidRole(nu.Role) {
		return nil, fmt.Errorf("%w: 未知角色 %q", ErrInvalidUser, nu.Role)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	maxID := 0
	for _, u := range users {
		if u.Username == nu.Username {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUsername, nu.Username)
		}
		if n, err := strconv.Atoi(u.ID); err == nil && n > maxID {
			maxID = n
		}
	}

	hashed, err := HashPassword(nu.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:       strconv.Itoa(maxID + 1),
		Username: nu.Username,
		Password: hashed,
		Role:     nu.Role,
	}
	if err := d.store.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return user, nil
}

// UpdateUser 修改用户；预置用户的用户名与角色不可修改
func (d *Directory) UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		name := strings.TrimSpace(*patch.Username)
		if name == "" {
			return nil, fmt.Errorf("%w: 用户名不能为空", ErrInvalidUser)
		}
		if name != user.Username {
			if user.IsReserved() {
				return nil, fmt.Errorf("%w: 预置用户不能修改用户名", ErrProtectedEntity)
			}
			other, err := d.store.FindByUsername(ctx, name)
			switch {
			case err == nil && other.ID != id:
				return nil, fmt.Errorf("%w: %s", ErrDuplicateUsername, name)
			case err != nil && !errors.Is(err, ErrNotFound):
				return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
			}
			user.Username = name
		}
	}
	if patch.Role != nil && *patch.Role != user.Role {
		if user.IsReserved() {
			return nil, fmt.Errorf("%w: 预置用户不能修改角色", ErrProtectedEntity)
		}
		if !models.IsValidRole(*patch.Role) {
			return nil, fmt.Errorf("%w: 未知角色 %q", ErrInvalidUser, *patch.Role)
		}
		user.Role = *patch.Role
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, fmt.Errorf("%w: 密码不能为空", ErrInvalidUser)
		}
		hashed, err := HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := d.store.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return user, nil
}

// ChangePassword 校验原密码后修改密码
func (d *Directory) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	user, err := d.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	_, err = d.UpdateUser(ctx, id, UserPatch{Password: &newPassword})
	return err
}

// DeleteUser 删除用户；预置用户与当前登录用户不可删除
func (d *Directory) DeleteUser(ctx context.Context, actingID, id string) error {
	if models.IsReservedUserID(id) {
		return fmt.Errorf("%w: 预置用户不能删除", ErrProtectedEntity)
	}
	if id == actingID {
		return fmt.Errorf("%w: 不能删除当前登录用户", ErrProtectedEntity)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: 用户 %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// HashPassword bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("密码加密失败: %w", err)
	}
	return string(hashed), nil
}
