package usecase

import (
	"context"
	"errors"

	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type userUsecase struct {
	repo     domain.UserRepository
	validate *validator.Validate
}

func NewUserUsecase(repo domain.UserRepository, validate *validator.Validate) domain.UserUsecase {
	return &userUsecase{
		repo:     repo,
		validate: validate,
	}
}

func (u *userUsecase) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	req.PersonalInfo = req.PersonalInfo.Normalize()
	if err := u.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	user := req.NewUser()
	if err := u.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, apperror.BadRequest("A user with this email already exists")
		}
		return nil, err
	}
	return user, nil
}
