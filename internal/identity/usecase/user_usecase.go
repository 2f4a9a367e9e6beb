package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/allisson/go-pwdhash"
	"github.com/google/uuid"

	"github.com/allisson/entitlements/internal/database"
	apperrors "github.com/allisson/entitlements/internal/errors"
	"github.com/allisson/entitlements/internal/identity/domain"
	appValidation "github.com/allisson/entitlements/internal/validation"
)

// userUseCase handles user account administration.
type userUseCase struct {
	txManager       database.TxManager
	userRepo        UserRepository
	resourceCounter ResourceCounter
	passwordHasher  *pwdhash.PasswordHasher
}

// NewUserUseCase creates a new user use case.
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	resourceCounter ResourceCounter,
) (UserUseCase, error) {
	// Interactive policy: account passwords, hashed at request time.
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &userUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		resourceCounter: resourceCounter,
		passwordHasher:  hasher,
	}, nil
}

var passwordStrength = appValidation.PasswordStrength{
	MinLength:      8,
	RequireUpper:   true,
	RequireLower:   true,
	RequireNumber:  true,
	RequireSpecial: true,
}

// validateCreateUserInput validates the creation input.
func (uc *userUseCase) validateCreateUserInput(input CreateUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			validation.Length(3, 64).Error("username must be between 3 and 64 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Phone,
			validation.Length(0, 32).Error("phone must be at most 32 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			passwordStrength,
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create registers a new user account.
func (uc *userUseCase) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if err := uc.validateCreateUserInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordHasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  strings.TrimSpace(input.Username),
		Email:     strings.TrimSpace(strings.ToLower(input.Email)),
		Phone:     strings.TrimSpace(input.Phone),
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// validateUpdateUserInput validates the update input. Empty fields are
// untouched, so only the provided values are checked.
func (uc *userUseCase) validateUpdateUserInput(input UpdateUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Email,
			validation.When(input.Email != "",
				appValidation.Email,
				validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
			),
		),
		validation.Field(&input.Phone,
			validation.Length(0, 32).Error("phone must be at most 32 characters"),
		),
		validation.Field(&input.Password,
			validation.When(input.Password != "",
				validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
				passwordStrength,
			),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Update changes a user's contact details or password.
func (uc *userUseCase) Update(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	if err := uc.validateUpdateUserInput(input); err != nil {
		return nil, err
	}

	var user *domain.User

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = uc.userRepo.Get(ctx, userID)
		if err != nil {
			return err
		}

		if input.Email != "" {
			user.Email = strings.TrimSpace(strings.ToLower(input.Email))
		}
		if input.Phone != "" {
			user.Phone = strings.TrimSpace(input.Phone)
		}
		if input.Password != "" {
			hashedPassword, err := uc.passwordHasher.Hash([]byte(input.Password))
			if err != nil {
				return apperrors.Wrap(err, "failed to hash password")
			}
			user.Password = hashedPassword
		}
		user.UpdatedAt = time.Now().UTC()

		return uc.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes a user account. Membership rows go with the user via the
// schema's cascade. A user who still personally owns resources is not
// deletable; the resources must be removed or re-owned first, otherwise their
// entitlement records would dangle.
func (uc *userUseCase) Delete(ctx context.Context, userID uuid.UUID) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		count, err := uc.resourceCounter.CountUserResources(ctx, userID)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrUserHasResources
		}

		return uc.userRepo.Delete(ctx, userID)
	})
}

// Get retrieves a user by ID.
func (uc *userUseCase) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return uc.userRepo.Get(ctx, userID)
}

// GetByUsername retrieves a user by username.
func (uc *userUseCase) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return uc.userRepo.GetByUsername(ctx, username)
}

// List returns users ordered by creation time.
func (uc *userUseCase) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return uc.userRepo.List(ctx, offset, limit)
}
