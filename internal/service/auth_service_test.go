package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"study-planner/backend/config"
	"study-planner/backend/internal/dto"
	"study-planner/backend/internal/repository"
	"study-planner/backend/pkg/jwt"
)

func setupTestAuthService() (AuthService, *repository.Repository) {
	repo, _, _, _ := newMockRepository()
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 7 * 24 * time.Hour,
	})
	svc := NewAuthService(repo, jwtMgr, nil, zap.NewNop())
	return svc, repo
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _ := setupTestAuthService()

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("注册成功应直接签发 Token 对")
	}
	if result.User.Email != "zhangsan@example.com" {
		t.Errorf("期望 Email=zhangsan@example.com，实际=%s", result.User.Email)
	}
	if result.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("期望 ExpiresIn=900，实际=%d", result.ExpiresIn)
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	req := &dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "password123",
	}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("首次注册应成功: %v", err)
	}

	if _, err := svc.Register(ctx, req); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	svc.Register(ctx, &dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "password123",
	})

	_, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("未知邮箱也应返回 ErrInvalidCredentials（不泄露账号存在性），实际: %v", err)
	}
}

func TestAuthService_RefreshToken_Flow(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}

	refreshed, err := svc.RefreshToken(ctx, registered.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新应签发新的 Access Token")
	}
	if refreshed.User.ID != registered.User.ID {
		t.Errorf("刷新后用户不符: %s vs %s", refreshed.User.ID, registered.User.ID)
	}
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	registered, _ := svc.Register(ctx, &dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "password123",
	})

	// 用 Access Token 换新 → 类型不符，拒绝
	if _, err := svc.RefreshToken(ctx, registered.AccessToken); !errors.Is(err, jwt.ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestAuthService_Logout_NoRedisDegrades(t *testing.T) {
	svc, _ := setupTestAuthService()
	ctx := context.Background()

	registered, _ := svc.Register(ctx, &dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "password123",
	})

	// rdb 为 nil 时登出降级为无操作，但不报错
	if err := svc.Logout(ctx, registered.AccessToken); err != nil {
		t.Errorf("Logout 应降级成功: %v", err)
	}
}
