package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/NunoCastro30/TechFlow/internal/identity/entity"
	"github.com/NunoCastro30/TechFlow/internal/identity/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrStaffNumberTaken = errors.New("staff number already registered")

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

type CreateUserRequest struct {
	StaffNumber int    `json:"staff_number" binding:"required"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required"`
	Department  string `json:"department"`
}

func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*entity.User, error) {
	if _, err := s.users.FindByStaffNumber(ctx, req.StaffNumber); err == nil {
		return nil, ErrStaffNumberTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New().String()[:32],
		StaffNumber:  req.StaffNumber,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Role:         req.Role,
		Department:   req.Department,
		Active:       true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, page, pageSize int) ([]entity.User, int64, error) {
	return s.users.FindAll(ctx, page, pageSize)
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.users.FindByID(ctx, id)
}

type UpdateUserRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
	Active     *bool   `json:"active"`
}

func (s *UserService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id, current, next string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	return s.users.Update(ctx, user)
}
